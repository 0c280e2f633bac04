// Package http implements the HTTP handlers of the LogisticSmart API.
//
// Handlers are a thin layer over the services package: they decode and
// validate requests, take the caller's session from the request context,
// call the report or auth service and render the result.
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → Pipeline
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Access Control
//
// Every route except login, demo login and health runs behind
// middleware.RequireAuth. Report and user routes additionally require a
// permission of the caller's role:
//
//	upload_files      POST /api/reports/upload
//	view_reports      columns, options, query, statistics, quality
//	export_data       formats, export
//	manage_users      /api/users
//	advanced_filters  multi-value and numeric filters in query and export
//
// # Error Handling
//
// Errors are rendered as RFC 7807 Problem Details by
// errors.ErrorHandler. A failed upload is the exception: it answers with
// the load outcome {success: false, message} and the status of the
// underlying problem, so clients can show the message as is.
package http
