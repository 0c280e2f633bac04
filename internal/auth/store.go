package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"logisticsmart/internal/config"
	apperrors "logisticsmart/internal/errors"
	"logisticsmart/pkg/contracts/domain"
)

// userRecord is the persisted form of an account
type userRecord struct {
	PasswordHash string `json:"password_hash"`
	Role         string `json:"role"`
	Name         string `json:"name"`
	Active       bool   `json:"active"`
}

// Store is a file-backed credential store safe for concurrent use
type Store struct {
	path   string
	cost   int
	logger *slog.Logger

	mu    sync.RWMutex
	users map[string]userRecord

	dummyOnce sync.Once
	dummyHash []byte
}

// Option customizes a Store
type Option func(*Store)

// WithBcryptCost sets the hashing cost for new passwords
func WithBcryptCost(cost int) Option {
	return func(s *Store) { s.cost = cost }
}

// Open loads the users file at path. When the file does not exist and
// seed is true the default accounts are created and saved.
func Open(path string, seed bool, logger *slog.Logger, opts ...Option) (*Store, error) {
	s := &Store{
		path:   path,
		cost:   bcrypt.DefaultCost,
		logger: logger.With(slog.String("component", "auth_store")),
		users:  make(map[string]userRecord),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if !seed {
			return s, nil
		}
		if err := s.seed(); err != nil {
			return nil, err
		}
		s.logger.Info("default accounts created",
			slog.String("path", path),
			slog.Int("accounts", len(s.users)))
		return s, nil
	case err != nil:
		return nil, apperrors.NewStorageError("failed to read users file", err).WithContext("path", path)
	}

	if err := json.Unmarshal(data, &s.users); err != nil {
		return nil, apperrors.NewStorageError("failed to parse users file", err).WithContext("path", path)
	}
	if s.users == nil {
		s.users = make(map[string]userRecord)
	}

	s.logger.Debug("users loaded",
		slog.String("path", path),
		slog.Int("accounts", len(s.users)))
	return s, nil
}

func (s *Store) seed() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range config.DefaultAccounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), s.cost)
		if err != nil {
			return fmt.Errorf("failed to hash default password: %w", err)
		}
		s.users[normalizeUsername(acc.Username)] = userRecord{
			PasswordHash: string(hash),
			Role:         acc.Role,
			Name:         acc.Name,
			Active:       true,
		}
	}
	return s.save()
}

// Authenticate checks a username and password. Unknown users, inactive
// users and wrong passwords all fail with the same error.
func (s *Store) Authenticate(username, password string) (domain.User, error) {
	username = normalizeUsername(username)

	s.mu.RLock()
	rec, ok := s.users[username]
	s.mu.RUnlock()

	if !ok || !rec.Active {
		// keep response time independent of whether the account exists
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		s.logger.Warn("login rejected",
			slog.String("username", username),
			slog.Bool("known", ok))
		return domain.User{}, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("login rejected",
			slog.String("username", username),
			slog.Bool("known", true))
		return domain.User{}, apperrors.ErrInvalidCredentials
	}

	s.logger.Info("login succeeded", slog.String("username", username))
	return toUser(username, rec), nil
}

func (s *Store) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("logisticsmart"), s.cost)
	})
	return s.dummyHash
}

// Get returns an account by username
func (s *Store) Get(username string) (domain.User, error) {
	username = normalizeUsername(username)

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.users[username]
	if !ok {
		return domain.User{}, userNotFound(username)
	}
	return toUser(username, rec), nil
}

// List returns every account sorted by username
func (s *Store) List() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.User, 0, len(s.users))
	for name, rec := range s.users {
		out = append(out, toUser(name, rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// CreateUser adds an active account
func (s *Store) CreateUser(username, password, name string, role domain.UserRole) (domain.User, error) {
	username = normalizeUsername(username)
	if username == "" || password == "" {
		return domain.User{}, apperrors.NewAppValidationError("Usuário e senha são obrigatórios")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return domain.User{}, apperrors.NewAppError(apperrors.ErrTypeValidation,
			fmt.Sprintf("Usuário já existe: %s", username), apperrors.ErrUserExists)
	}

	rec := userRecord{
		PasswordHash: string(hash),
		Role:         string(domain.ParseUserRole(string(role))),
		Name:         strings.TrimSpace(name),
		Active:       true,
	}
	if rec.Name == "" {
		rec.Name = username
	}
	s.users[username] = rec

	if err := s.save(); err != nil {
		delete(s.users, username)
		return domain.User{}, err
	}

	s.logger.Info("user created",
		slog.String("username", username),
		slog.String("role", rec.Role))
	return toUser(username, rec), nil
}

// UpdatePassword replaces the password of an existing account
func (s *Store) UpdatePassword(username, newPassword string) error {
	username = normalizeUsername(username)
	if newPassword == "" {
		return apperrors.NewAppValidationError("A nova senha é obrigatória")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.update(username, "password updated", func(rec *userRecord) {
		rec.PasswordHash = string(hash)
	})
}

// Deactivate disables an account; it can no longer authenticate
func (s *Store) Deactivate(username string) error {
	return s.update(normalizeUsername(username), "user deactivated", func(rec *userRecord) {
		rec.Active = false
	})
}

func (s *Store) update(username, event string, change func(*userRecord)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[username]
	if !ok {
		return userNotFound(username)
	}

	previous := rec
	change(&rec)
	s.users[username] = rec

	if err := s.save(); err != nil {
		s.users[username] = previous
		return err
	}

	s.logger.Info(event, slog.String("username", username))
	return nil
}

// save writes the users file atomically with owner-only permissions.
// Callers hold the write lock.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		return apperrors.NewStorageError("failed to encode users", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.NewStorageError("failed to create users directory", err).WithContext("path", dir)
	}

	tmp, err := os.CreateTemp(dir, ".users-*.json")
	if err != nil {
		return apperrors.NewStorageError("failed to create temporary users file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return apperrors.NewStorageError("failed to restrict users file", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperrors.NewStorageError("failed to write users file", err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewStorageError("failed to write users file", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return apperrors.NewStorageError("failed to replace users file", err).WithContext("path", s.path)
	}
	return nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func toUser(username string, rec userRecord) domain.User {
	name := rec.Name
	if name == "" {
		name = username
	}
	return domain.User{
		Username: username,
		Role:     domain.ParseUserRole(rec.Role),
		Name:     name,
		Active:   rec.Active,
	}
}

func userNotFound(username string) error {
	return apperrors.NewAppError(apperrors.ErrTypeNotFound,
		fmt.Sprintf("Usuário não encontrado: %s", username), apperrors.ErrUserNotFound)
}
