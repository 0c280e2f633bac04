// Package app wires LogisticSmart together and manages its lifecycle.
//
// New builds every component from a *config.Config: OpenTelemetry
// providers and pipeline metrics, the preprocessing pipeline and its load
// cache, the credential store, the session registry, the export manager,
// the services and finally the chi router and HTTP server. NewApplication
// additionally loads the configuration and initializes the global logger.
//
// # Routes
//
//	/api/health, /api/health/ready, /api/health/live   public
//	/api/version                                       public
//	/api/auth/login, /api/auth/demo                    public
//	/api/auth/logout, /api/auth/me                     authenticated
//	/api/reports/...                                   authenticated, per-permission
//	/api/users/...                                     manage_users
//	/metrics                                           Prometheus, when enabled
//
// # Shutdown
//
// Run blocks until SIGINT or SIGTERM, then Stop drains the HTTP server,
// stops the session janitor and cache sweeper and flushes telemetry.
package app
