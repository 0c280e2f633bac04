package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// LogEntry is one record seen by a LogCapture. Attrs added through
// Logger.With are merged in, group names prefix keys as "group.key".
type LogEntry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// logSink is shared by a capture and every handler derived from it
type logSink struct {
	mu      sync.Mutex
	entries []LogEntry
}

// LogCapture is a slog.Handler that keeps records in memory and echoes
// them to the test log.
type LogCapture struct {
	sink   *logSink
	t      testing.TB
	attrs  []slog.Attr
	prefix string
}

// NewTestLogger returns a logger writing into a fresh capture
func NewTestLogger(t testing.TB) (*slog.Logger, *LogCapture) {
	c := &LogCapture{sink: &logSink{}, t: t}
	return slog.New(c), c
}

func (c *LogCapture) Enabled(context.Context, slog.Level) bool { return true }

func (c *LogCapture) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(c.attrs)+r.NumAttrs())
	for _, a := range c.attrs {
		attrs[a.Key] = a.Value.Resolve().Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[c.prefix+a.Key] = a.Value.Resolve().Any()
		return true
	})

	c.sink.mu.Lock()
	c.sink.entries = append(c.sink.entries, LogEntry{Level: r.Level, Message: r.Message, Attrs: attrs})
	c.sink.mu.Unlock()

	if c.t != nil {
		c.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

func (c *LogCapture) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *c
	next.attrs = append([]slog.Attr(nil), c.attrs...)
	for _, a := range attrs {
		a.Key = c.prefix + a.Key
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (c *LogCapture) WithGroup(name string) slog.Handler {
	if name == "" {
		return c
	}
	next := *c
	next.prefix = c.prefix + name + "."
	return &next
}

// Entries returns a copy of everything captured so far
func (c *LogCapture) Entries() []LogEntry {
	c.sink.mu.Lock()
	defer c.sink.mu.Unlock()
	return append([]LogEntry(nil), c.sink.entries...)
}

// Count returns the number of captured records
func (c *LogCapture) Count() int {
	c.sink.mu.Lock()
	defer c.sink.mu.Unlock()
	return len(c.sink.entries)
}

// Find returns the first record at level whose message contains fragment
func (c *LogCapture) Find(level slog.Level, fragment string) (LogEntry, bool) {
	for _, e := range c.Entries() {
		if e.Level == level && strings.Contains(e.Message, fragment) {
			return e, true
		}
	}
	return LogEntry{}, false
}

// HasAttr reports whether any record carries key with the given value
func (c *LogCapture) HasAttr(key string, value any) bool {
	for _, e := range c.Entries() {
		if v, ok := e.Attrs[key]; ok && v == value {
			return true
		}
	}
	return false
}

// AssertLogContains fails the test unless a record at level contains fragment
func AssertLogContains(t testing.TB, c *LogCapture, level slog.Level, fragment string) {
	t.Helper()
	if _, ok := c.Find(level, fragment); ok {
		return
	}
	t.Errorf("no %s log containing %q", level, fragment)
	for _, e := range c.Entries() {
		t.Logf("  [%s] %s", e.Level, e.Message)
	}
}

// AssertLogAttr fails the test unless some record carries key=value.
// Integer attributes compare as int64.
func AssertLogAttr(t testing.TB, c *LogCapture, key string, value any) {
	t.Helper()
	if c.HasAttr(key, value) {
		return
	}
	t.Errorf("no log with %s=%v", key, value)
	for _, e := range c.Entries() {
		t.Logf("  %s: %v", e.Message, e.Attrs)
	}
}
