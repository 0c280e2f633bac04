package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"logisticsmart/internal/auth"
	"logisticsmart/internal/config"
	"logisticsmart/internal/dataprocessing"
	"logisticsmart/internal/errors"
	"logisticsmart/internal/exporter"
	"logisticsmart/internal/infrastructure"
	"logisticsmart/internal/ingest"
	customMiddleware "logisticsmart/internal/middleware"
	"logisticsmart/internal/services"
	"logisticsmart/internal/session"
	handlers "logisticsmart/internal/transport/http"
)

const (
	AppName = config.AppName

	// janitorInterval is how often expired sessions are swept
	janitorInterval = time.Minute
)

var (
	// Version is overridden at build time with -ldflags
	Version = config.AppVersion
	// BuildTime is set at compile time
	BuildTime = "unknown"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.PipelineMetrics
	ErrorHandler  *errors.ErrorHandler
	Services      *ServiceContainer
	Sessions      *session.Registry
	LoadCache     *ingest.Cache
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Store   *auth.Store
	Reports *services.ReportService
	Auth    *services.AuthService
	Health  *services.HealthService
}

// NewApplication loads the configuration, initializes the global logger and
// builds the application
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	paths := cfg.ResolvedPaths()
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	cfg.Logging.FilePath = paths.LogFile

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.String("build_time", BuildTime))

	return New(cfg, logger)
}

// New wires every component of the application from cfg
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	paths := cfg.ResolvedPaths()
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	cfg.Telemetry.ServiceVersion = Version
	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.NewPipelineMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to register pipeline metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  errors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	if err := app.observeGauges(); err != nil {
		return nil, fmt.Errorf("failed to register gauges: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

func (a *Application) observeGauges() error {
	if err := a.Metrics.ObserveGauge("auth_active_sessions", "Open sessions", a.Sessions.Len); err != nil {
		return err
	}
	if a.LoadCache == nil {
		return nil
	}
	return a.Metrics.ObserveGauge("report_load_cache_entries", "Parsed sheets held by the load cache",
		func() int { return a.LoadCache.Stats().Entries })
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	loc, err := a.Config.Processing.TimeLocation()
	if err != nil {
		return fmt.Errorf("invalid processing location: %w", err)
	}

	pipeline := dataprocessing.NewPipeline(dataprocessing.Options{
		RequiredColumns: a.Config.Processing.RequiredColumns,
		Dates: dataprocessing.DateOptions{
			DayFirst: a.Config.Processing.DayFirst,
			Location: loc,
		},
	}, a.Logger)

	if a.Config.Processing.CacheMaxEntries > 0 {
		a.LoadCache = ingest.NewCache(a.Config.Processing.CacheTTL, a.Config.Processing.CacheMaxEntries)
	}
	loader := ingest.NewLoader(pipeline, a.LoadCache, a.Metrics, a.Logger)
	exportManager := exporter.NewManager(a.Config.Export, a.Metrics, a.Logger)

	store, err := auth.Open(a.Paths.UsersFile, a.Config.Auth.SeedDefaults, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}
	a.Sessions = session.NewRegistry(a.Config.Auth.SessionTimeout, a.Logger)

	reports := services.NewReportService(loader, exportManager, a.Metrics, a.Logger)
	a.Services = &ServiceContainer{
		Store:   store,
		Reports: reports,
		Auth:    services.NewAuthService(store, a.Sessions, a.Metrics, a.Logger),
		Health: services.NewHealthService(Version, services.HealthDeps{
			ReportsDir: a.Paths.ReportsDir,
			Sessions:   a.Sessions,
			Cache:      a.LoadCache,
			Formats:    reports.AvailableFormats,
		}, a.Logger),
	}

	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// RequestID → RealIP → OTel → Logger → Recoverer → Timeout
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.NewOTelMiddleware(a.Metrics).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.ErrorHandler))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.ErrorHandler,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
	})

	// Outside the middleware group so scrapes are neither rate limited nor logged
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	validator := customMiddleware.NewValidator(a.Logger)
	requireAuth := customMiddleware.RequireAuth(a.Services.Auth, a.ErrorHandler, a.Logger)

	healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
	authHandler := handlers.NewAuthHandler(a.Services.Auth, validator, a.ErrorHandler, a.Logger, a.Config.Security.SecureCookies)
	reportHandler := handlers.NewReportHandler(a.Services.Reports, validator, a.ErrorHandler, a.Logger, a.Config.Processing.MaxUploadBytes)
	userHandler := handlers.NewUserHandler(a.Services.Auth, validator, a.ErrorHandler, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))
		r.Use(errors.NewErrorMiddleware(a.ErrorHandler, a.Logger).Handler)

		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)

		r.Mount("/auth", authHandler.Routes(requireAuth))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(customMiddleware.AuditLog(a.Logger))
			r.Mount("/reports", reportHandler.Routes())
			r.Mount("/users", userHandler.Routes())
		})
	})
}

// getCORSConfig builds the CORS policy from the security settings
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	origins := append([]string(nil), a.Config.Security.AllowedOrigins...)
	if a.Config.Logging.Development {
		origins = append(origins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	a.Logger.Info("CORS configured", slog.Any("allowed_origins", origins))

	return customMiddleware.CORSConfig{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
		Logger:           a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           net.JoinHostPort(a.Config.Server.Host, strconv.Itoa(a.Config.Server.Port)),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts background work and the HTTP server. A listen failure
// cancels ctx through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting application",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.String("address", a.Server.Addr),
		slog.String("level", a.Config.Logging.Level))

	a.Sessions.StartJanitor(janitorInterval)

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}

	go func() {
		if err := a.Server.Serve(ln); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "application started",
		slog.String("address", ln.Addr().String()),
		slog.Int("users", len(a.Services.Store.List())))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Sessions.Stop()
	if a.LoadCache != nil {
		a.LoadCache.Stop()
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "received signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.WarnContext(ctx, "server stopped unexpectedly")
	}

	return a.Stop(context.Background())
}
