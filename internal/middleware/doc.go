// Package middleware provides the HTTP middleware chain of the web server:
// request IDs, structured request logging, panic recovery, rate limiting,
// request deadlines, CORS, security headers, OpenTelemetry instrumentation,
// bearer-token sessions with permission checks, and request validation.
package middleware
