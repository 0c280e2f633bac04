package services

import (
	"context"
	"log/slog"

	"logisticsmart/internal/auth"
	"logisticsmart/internal/infrastructure"
	"logisticsmart/internal/session"
	"logisticsmart/pkg/contracts/domain"
)

// DemoUsername is the read-only account behind the demo login
const DemoUsername = "visitante"

// AuthService authenticates users, opens sessions and administers accounts
type AuthService struct {
	store    *auth.Store
	sessions *session.Registry
	metrics  *infrastructure.PipelineMetrics
	logger   *slog.Logger
}

// NewAuthService creates an auth service. metrics may be nil.
func NewAuthService(store *auth.Store, sessions *session.Registry, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:    store,
		sessions: sessions,
		metrics:  metrics,
		logger:   logger.With(slog.String("component", "auth_service")),
	}
}

// Login checks credentials and opens a session
func (s *AuthService) Login(ctx context.Context, username, password string) (*session.Session, error) {
	user, err := s.store.Authenticate(username, password)
	s.metrics.RecordLogin(ctx, err == nil)
	if err != nil {
		return nil, err
	}
	return s.sessions.Create(user), nil
}

// DemoLogin opens a session for the demo account without a password. It
// fails when that account was removed or deactivated.
func (s *AuthService) DemoLogin(ctx context.Context) (*session.Session, error) {
	user, err := s.store.Get(DemoUsername)
	if err != nil || !user.Active {
		s.metrics.RecordLogin(ctx, false)
		s.logger.WarnContext(ctx, "demo login unavailable")
		return nil, errDemoUnavailable()
	}
	s.metrics.RecordLogin(ctx, true)
	return s.sessions.Create(user), nil
}

// Logout closes the session behind token
func (s *AuthService) Logout(ctx context.Context, token string) bool {
	return s.sessions.Remove(token)
}

// Session resolves a bearer token
func (s *AuthService) Session(ctx context.Context, token string) (*session.Session, error) {
	return s.sessions.Get(token)
}

// Permissions returns the capability set of user
func (s *AuthService) Permissions(user domain.User) domain.Permissions {
	return auth.PermissionsFor(user.Role)
}

// ListUsers returns every account
func (s *AuthService) ListUsers(ctx context.Context) []domain.User {
	return s.store.List()
}

// CreateUser adds an account
func (s *AuthService) CreateUser(ctx context.Context, username, password, name string, role domain.UserRole) (domain.User, error) {
	return s.store.CreateUser(username, password, name, role)
}

// UpdatePassword replaces the password of username
func (s *AuthService) UpdatePassword(ctx context.Context, username, password string) error {
	return s.store.UpdatePassword(username, password)
}

// Deactivate disables username and closes its open sessions
func (s *AuthService) Deactivate(ctx context.Context, username string) error {
	if err := s.store.Deactivate(username); err != nil {
		return err
	}
	user, err := s.store.Get(username)
	if err != nil {
		return err
	}
	s.sessions.RemoveUser(user.Username)
	return nil
}
