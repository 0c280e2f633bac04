// Package services implements the business logic layer of LogisticSmart.
// It sits between the HTTP handlers (and the batch CLI) and the pure
// report pipeline, so that handlers only translate requests and responses.
//
// # Services
//
//   - ReportService: load, query, statistics, quality and export over a session
//   - AuthService: login, demo login, logout and account administration
//   - HealthService: liveness, readiness and version information
//
// Services take the session they act on as an argument. They hold no
// per-user state themselves; the session owns the loaded table.
//
// # Error Handling
//
// Services return *errors.AppError values wrapping the sentinels of
// internal/errors, so handlers can map them to RFC 7807 problems with
// errors.Is.
package services
