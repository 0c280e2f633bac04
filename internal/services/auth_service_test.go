package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"logisticsmart/internal/auth"
	apperrors "logisticsmart/internal/errors"
	"logisticsmart/internal/infrastructure"
	"logisticsmart/internal/session"
	"logisticsmart/internal/shared/testutil"
	"logisticsmart/pkg/contracts/domain"
)

func newTestAuthService(t *testing.T) (*AuthService, *session.Registry) {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	store, err := auth.Open(filepath.Join(t.TempDir(), "users.json"), true, logger, auth.WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)

	registry := session.NewRegistry(time.Hour, logger)
	t.Cleanup(registry.Stop)
	return NewAuthService(store, registry, infrastructure.NoopPipelineMetrics(), logger), registry
}

func TestAuthService_LoginLogout(t *testing.T) {
	svc, registry := newTestAuthService(t)
	ctx := context.Background()

	sess, err := svc.Login(ctx, "Admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", sess.User.Username)
	assert.True(t, svc.Permissions(sess.User).ManageUsers)

	got, err := svc.Session(ctx, sess.Token)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	assert.True(t, svc.Logout(ctx, sess.Token))
	_, err = svc.Session(ctx, sess.Token)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	assert.Equal(t, 0, registry.Len())
}

func TestAuthService_LoginFailureOpensNoSession(t *testing.T) {
	svc, registry := newTestAuthService(t)

	sess, err := svc.Login(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Nil(t, sess)
	assert.Equal(t, 0, registry.Len())
}

func TestAuthService_DemoLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	sess, err := svc.DemoLogin(ctx)
	require.NoError(t, err)
	assert.Equal(t, DemoUsername, sess.User.Username)
	perms := svc.Permissions(sess.User)
	assert.True(t, perms.ViewReports)
	assert.False(t, perms.UploadFiles)

	require.NoError(t, svc.Deactivate(ctx, DemoUsername))
	_, err = svc.DemoLogin(ctx)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_DeactivateRevokesSessions(t *testing.T) {
	svc, registry := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "carla", "s3nha", "Carla", domain.RoleUser)
	require.NoError(t, err)

	first, err := svc.Login(ctx, "carla", "s3nha")
	require.NoError(t, err)
	_, err = svc.Login(ctx, "carla", "s3nha")
	require.NoError(t, err)
	admin, err := svc.Login(ctx, "admin", "admin123")
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, "CARLA"))
	assert.Equal(t, 1, registry.Len())
	_, err = svc.Session(ctx, first.Token)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	_, err = svc.Session(ctx, admin.Token)
	assert.NoError(t, err)

	_, err = svc.Login(ctx, "carla", "s3nha")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, svc.Deactivate(ctx, "ghost"), apperrors.ErrUserNotFound)
}

func TestAuthService_UpdatePassword(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.UpdatePassword(ctx, "neo", "trinity"))
	_, err := svc.Login(ctx, "neo", "matrix")
	assert.Error(t, err)
	_, err = svc.Login(ctx, "neo", "trinity")
	assert.NoError(t, err)
	assert.Len(t, svc.ListUsers(ctx), 3)
}
