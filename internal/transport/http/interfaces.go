package http

import (
	"context"

	"logisticsmart/internal/exporter"
	"logisticsmart/internal/services"
	"logisticsmart/internal/session"
	"logisticsmart/pkg/contracts/domain"
)

// ReportService is the report pipeline as seen by the handlers
type ReportService interface {
	Load(ctx context.Context, sess *session.Session, data []byte, filename string) (services.LoadSummary, error)
	Query(ctx context.Context, sess *session.Session, req services.QueryRequest) (*services.QueryResult, error)
	Statistics(ctx context.Context, sess *session.Session) (domain.Statistics, error)
	Quality(ctx context.Context, sess *session.Session) (domain.QualityReport, error)
	Options(ctx context.Context, sess *session.Session, key string) ([]string, error)
	Columns(ctx context.Context, sess *session.Session) (domain.ColumnMap, []string, error)
	AvailableFormats() []domain.ExportFormat
	Export(ctx context.Context, sess *session.Session, req services.ExportRequest) ([]exporter.Result, error)
}

// AuthService covers login, sessions and account management
type AuthService interface {
	Login(ctx context.Context, username, password string) (*session.Session, error)
	DemoLogin(ctx context.Context) (*session.Session, error)
	Logout(ctx context.Context, token string) bool
	Session(ctx context.Context, token string) (*session.Session, error)
	Permissions(user domain.User) domain.Permissions
	ListUsers(ctx context.Context) []domain.User
	CreateUser(ctx context.Context, username, password, name string, role domain.UserRole) (domain.User, error)
	UpdatePassword(ctx context.Context, username, password string) error
	Deactivate(ctx context.Context, username string) error
}

// HealthChecker reports process and dependency health
type HealthChecker interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() services.VersionResponse
}

var (
	_ ReportService = (*services.ReportService)(nil)
	_ AuthService   = (*services.AuthService)(nil)
	_ HealthChecker = (*services.HealthService)(nil)
)
