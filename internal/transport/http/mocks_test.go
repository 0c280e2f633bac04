package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	apperrors "logisticsmart/internal/errors"
	"logisticsmart/internal/exporter"
	"logisticsmart/internal/middleware"
	"logisticsmart/internal/services"
	"logisticsmart/internal/session"
	"logisticsmart/internal/shared/testutil"
	"logisticsmart/pkg/contracts/domain"
)

// MockReportService is a mock implementation of ReportService
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Load(ctx context.Context, sess *session.Session, data []byte, filename string) (services.LoadSummary, error) {
	args := m.Called(sess, data, filename)
	return args.Get(0).(services.LoadSummary), args.Error(1)
}

func (m *MockReportService) Query(ctx context.Context, sess *session.Session, req services.QueryRequest) (*services.QueryResult, error) {
	args := m.Called(sess, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.QueryResult), args.Error(1)
}

func (m *MockReportService) Statistics(ctx context.Context, sess *session.Session) (domain.Statistics, error) {
	args := m.Called(sess)
	return args.Get(0).(domain.Statistics), args.Error(1)
}

func (m *MockReportService) Quality(ctx context.Context, sess *session.Session) (domain.QualityReport, error) {
	args := m.Called(sess)
	return args.Get(0).(domain.QualityReport), args.Error(1)
}

func (m *MockReportService) Options(ctx context.Context, sess *session.Session, key string) ([]string, error) {
	args := m.Called(sess, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockReportService) Columns(ctx context.Context, sess *session.Session) (domain.ColumnMap, []string, error) {
	args := m.Called(sess)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(domain.ColumnMap), args.Get(1).([]string), args.Error(2)
}

func (m *MockReportService) AvailableFormats() []domain.ExportFormat {
	return m.Called().Get(0).([]domain.ExportFormat)
}

func (m *MockReportService) Export(ctx context.Context, sess *session.Session, req services.ExportRequest) ([]exporter.Result, error) {
	args := m.Called(sess, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]exporter.Result), args.Error(1)
}

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*session.Session, error) {
	args := m.Called(username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockAuthService) DemoLogin(ctx context.Context) (*session.Session, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) bool {
	return m.Called(token).Bool(0)
}

func (m *MockAuthService) Session(ctx context.Context, token string) (*session.Session, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockAuthService) Permissions(user domain.User) domain.Permissions {
	return m.Called(user).Get(0).(domain.Permissions)
}

func (m *MockAuthService) ListUsers(ctx context.Context) []domain.User {
	return m.Called().Get(0).([]domain.User)
}

func (m *MockAuthService) CreateUser(ctx context.Context, username, password, name string, role domain.UserRole) (domain.User, error) {
	args := m.Called(username, password, name, role)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockAuthService) UpdatePassword(ctx context.Context, username, password string) error {
	return m.Called(username, password).Error(0)
}

func (m *MockAuthService) Deactivate(ctx context.Context, username string) error {
	return m.Called(username).Error(0)
}

func testSession(username string, role domain.UserRole) *session.Session {
	return session.New("token-"+username, domain.User{Username: username, Role: role, Name: username, Active: true},
		time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC))
}

// withSession stands in for RequireAuth
func withSession(sess *session.Session, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(middleware.WithSession(r.Context(), sess)))
	})
}

type handlerDeps struct {
	validator    *middleware.Validator
	errorHandler *apperrors.ErrorHandler
}

func newHandlerDeps(t *testing.T) handlerDeps {
	logger, _ := testutil.NewTestLogger(t)
	return handlerDeps{
		validator:    middleware.NewValidator(logger),
		errorHandler: apperrors.NewErrorHandler(logger, false),
	}
}
