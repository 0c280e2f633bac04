package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "logisticsmart/internal/errors"
	"logisticsmart/pkg/contracts/domain"
)

// Registry maps session tokens to sessions. Sessions idle for longer than
// the timeout are treated as absent and removed.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	idle     time.Duration
	now      func() time.Time
	logger   *slog.Logger

	stopChan chan struct{}
	stopOnce sync.Once
}

// RegistryOption customizes a Registry
type RegistryOption func(*Registry)

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// NewRegistry creates a registry. A non-positive idle timeout disables expiry.
func NewRegistry(idle time.Duration, logger *slog.Logger, opts ...RegistryOption) *Registry {
	r := &Registry{
		sessions: make(map[string]*Session),
		idle:     idle,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "sessions")),
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create opens a session for user under a fresh random token
func (r *Registry) Create(user domain.User) *Session {
	s := New(uuid.NewString(), user, r.now())

	r.mu.Lock()
	r.sessions[s.Token] = s
	r.mu.Unlock()

	r.logger.Info("session created", slog.String("username", user.Username))
	return s
}

// Get returns the live session for token and refreshes its idle timer
func (r *Registry) Get(token string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[token]
	r.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}

	now := r.now()
	if r.expired(s, now) {
		r.Remove(token)
		return nil, apperrors.ErrSessionNotFound
	}
	s.touch(now)
	return s, nil
}

// Remove deletes the session for token and reports whether it existed
func (r *Registry) Remove(token string) bool {
	r.mu.Lock()
	s, ok := r.sessions[token]
	delete(r.sessions, token)
	r.mu.Unlock()

	if ok {
		r.logger.Info("session closed", slog.String("username", s.User.Username))
	}
	return ok
}

// RemoveUser closes every session belonging to username
func (r *Registry) RemoveUser(username string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for token, s := range r.sessions {
		if s.User.Username == username {
			delete(r.sessions, token)
			removed++
		}
	}
	if removed > 0 {
		r.logger.Info("sessions revoked",
			slog.String("username", username),
			slog.Int("count", removed))
	}
	return removed
}

// Len returns the number of sessions, expired ones included until swept
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep removes expired sessions and returns how many were dropped
func (r *Registry) Sweep() int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for token, s := range r.sessions {
		if r.expired(s, now) {
			delete(r.sessions, token)
			removed++
		}
	}
	if removed > 0 {
		r.logger.Debug("expired sessions removed", slog.Int("count", removed))
	}
	return removed
}

// StartJanitor sweeps expired sessions every interval until Stop
func (r *Registry) StartJanitor(interval time.Duration) {
	if interval <= 0 || r.idle <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.Sweep()
			case <-r.stopChan:
				return
			}
		}
	}()
}

// Stop ends the janitor goroutine. Safe to call more than once.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() { close(r.stopChan) })
}

func (r *Registry) expired(s *Session, now time.Time) bool {
	return r.idle > 0 && now.Sub(s.LastSeen()) > r.idle
}
