package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"logisticsmart/internal/ingest"
	"logisticsmart/internal/session"
	"logisticsmart/pkg/contracts"
	"logisticsmart/pkg/contracts/domain"
)

// Health states reported by the probes
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusAlive    = "alive"
)

// HealthStatus is the body of the /api/health probes
type HealthStatus struct {
	Status     string                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version"`
	Runtime    *RuntimeInfo               `json:"runtime,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// RuntimeInfo is attached to the liveness probe
type RuntimeInfo struct {
	UptimeSeconds float64 `json:"uptime_seconds"`
	GoVersion     string  `json:"go_version"`
	Goroutines    int     `json:"goroutines"`
}

// ComponentHealth is the readiness of one dependency
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// VersionResponse is served by /api/version
type VersionResponse struct {
	contracts.VersionInfo
	StartTime     time.Time `json:"start_time"`
	UptimeSeconds float64   `json:"uptime_seconds"`
}

// HealthDeps are the components inspected by the readiness check. Nil
// fields are reported as not ready, except Cache which may be disabled.
type HealthDeps struct {
	ReportsDir string
	Sessions   *session.Registry
	Cache      *ingest.Cache
	Formats    func() []domain.ExportFormat
}

type HealthService struct {
	version string
	deps    HealthDeps
	started time.Time
	logger  *slog.Logger
}

func NewHealthService(version string, deps HealthDeps, logger *slog.Logger) *HealthService {
	return &HealthService{
		version: version,
		deps:    deps,
		started: time.Now(),
		logger:  logger.With(slog.String("component", "health_service")),
	}
}

func (hs *HealthService) status(s string) HealthStatus {
	return HealthStatus{Status: s, Timestamp: time.Now(), Version: hs.version}
}

// HealthCheck always answers ok while the process serves requests
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return hs.status(StatusOK)
}

// ReadinessCheck inspects the reports directory, the session registry,
// the load cache and the exporters. Any failing component makes the whole
// probe not_ready.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	st := hs.status(StatusReady)
	st.Components = map[string]ComponentHealth{
		"storage":  hs.checkStorage(),
		"sessions": hs.checkSessions(),
		"cache":    hs.checkCache(),
		"export":   hs.checkExport(),
	}

	for name, c := range st.Components {
		if c.Status == StatusReady {
			continue
		}
		st.Status = StatusNotReady
		hs.logger.WarnContext(ctx, "component not ready",
			slog.String("component_name", name),
			slog.String("message", c.Message))
	}
	return st
}

func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	st := hs.status(StatusAlive)
	st.Runtime = &RuntimeInfo{
		UptimeSeconds: time.Since(hs.started).Seconds(),
		GoVersion:     runtime.Version(),
		Goroutines:    runtime.NumGoroutine(),
	}
	return st
}

func (hs *HealthService) Version() VersionResponse {
	info := contracts.GetVersionInfo()
	info.Version = hs.version
	return VersionResponse{
		VersionInfo:   info,
		StartTime:     hs.started,
		UptimeSeconds: time.Since(hs.started).Seconds(),
	}
}

func ready(format string, args ...any) ComponentHealth {
	return ComponentHealth{Status: StatusReady, Message: fmt.Sprintf(format, args...)}
}

func notReady(format string, args ...any) ComponentHealth {
	return ComponentHealth{Status: StatusNotReady, Message: fmt.Sprintf(format, args...)}
}

func (hs *HealthService) checkStorage() ComponentHealth {
	dir := hs.deps.ReportsDir
	if dir == "" {
		return notReady("reports directory not configured")
	}
	info, err := os.Stat(dir)
	switch {
	case err != nil:
		return notReady("reports directory unavailable: %v", err)
	case !info.IsDir():
		return notReady("%s is not a directory", dir)
	}
	return ComponentHealth{Status: StatusReady}
}

func (hs *HealthService) checkSessions() ComponentHealth {
	if hs.deps.Sessions == nil {
		return notReady("session registry not initialized")
	}
	return ready("%d active sessions", hs.deps.Sessions.Len())
}

func (hs *HealthService) checkCache() ComponentHealth {
	if hs.deps.Cache == nil {
		return ready("load cache disabled")
	}
	s := hs.deps.Cache.Stats()
	return ready("%d/%d entries, hit ratio %.2f", s.Entries, s.MaxSize, s.HitRatio)
}

func (hs *HealthService) checkExport() ComponentHealth {
	if hs.deps.Formats == nil {
		return notReady("exporter not initialized")
	}
	var labels []string
	for _, f := range hs.deps.Formats() {
		labels = append(labels, f.Label())
	}
	return ready("formats: %s", strings.Join(labels, ", "))
}
