package session

import (
	"sync"
	"sync/atomic"
	"time"

	"logisticsmart/pkg/contracts/domain"
)

// Data is the loaded state that replaces a session's table in one step
type Data struct {
	Table           *domain.Table
	Columns         domain.ColumnMap
	OriginalColumns []string
	Filename        string
	LoadedAt        time.Time
}

// Snapshot is a read-only view of a session. The table is shared and must
// not be mutated; the pipeline always builds new tables.
type Snapshot struct {
	Data
	Filters domain.FilterSpec
	Mode    domain.StatusMode
}

// Loaded reports whether the snapshot carries a table
func (s Snapshot) Loaded() bool {
	return s.Table != nil
}

// Session is the analysis state of one logged-in user
type Session struct {
	Token     string
	User      domain.User
	CreatedAt time.Time

	lastSeen atomic.Int64

	mu      sync.RWMutex
	data    Data
	filters domain.FilterSpec
	mode    domain.StatusMode
}

// New creates an empty session. The analysis mode starts as pending.
func New(token string, user domain.User, now time.Time) *Session {
	s := &Session{
		Token:     token,
		User:      user,
		CreatedAt: now,
		mode:      domain.StatusPending,
	}
	s.lastSeen.Store(now.UnixNano())
	return s
}

// Replace swaps in a newly loaded table and clears the previous filters
func (s *Session) Replace(d Data) {
	d.Columns = d.Columns.Clone()
	d.OriginalColumns = append([]string(nil), d.OriginalColumns...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = d
	s.filters = domain.FilterSpec{}
}

// Clear drops the loaded table
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = Data{}
	s.filters = domain.FilterSpec{}
}

// SetFilters records the filters and mode of the latest query. An invalid
// mode leaves the current one in place.
func (s *Session) SetFilters(spec domain.FilterSpec, mode domain.StatusMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = spec
	if mode.Valid() {
		s.mode = mode
	}
}

// Snapshot returns the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{Data: s.data, Filters: s.filters, Mode: s.mode}
	snap.Columns = s.data.Columns.Clone()
	snap.OriginalColumns = append([]string(nil), s.data.OriginalColumns...)
	return snap
}

// LastSeen returns the time of the last registry lookup
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}
