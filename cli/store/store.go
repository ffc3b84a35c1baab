// Package store keeps the client-side view of one collection. A snapshot is
// replaced wholesale by every successful reload and is never patched locally.
package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/techcollege/portal/cli/api"
	"github.com/techcollege/portal/pkg/logger"
)

// Status is the lifecycle state of a ListStore.
type Status string

const (
	// StatusIdle means the store is closed and ignores responses.
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// ListStore is the single source of truth for one collection's snapshot.
// It is safe for concurrent use.
type ListStore[R any] struct {
	lister api.Lister[R]
	name   string

	mu       sync.RWMutex
	status   Status
	records  []R
	err      error
	seq      uint64
	applied  uint64
	loadedAt time.Time
	closed   bool
}

// New creates a store in the loading state; the owner is expected to call
// Reload right away.
func New[R any](name string, lister api.Lister[R]) *ListStore[R] {
	if lister == nil {
		panic("store: lister is required")
	}
	return &ListStore[R]{
		lister: lister,
		name:   name,
		status: StatusLoading,
	}
}

// Name identifies the collection in logs.
func (s *ListStore[R]) Name() string {
	return s.name
}

// Reload fetches a fresh snapshot. When several reloads overlap, only the
// most recently started one may apply its result; older ones return ErrStale.
func (s *ListStore[R]) Reload(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.seq++
	token := s.seq
	s.status = StatusLoading
	s.mu.Unlock()

	log := logger.FromContext(ctx).With("store", s.name, "seq", token)
	log.Debug("reloading collection")
	records, err := s.lister.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		log.Debug("discarding response for closed store")
		return ErrClosed
	}
	if token != s.seq {
		log.Debug("discarding stale response", "latest", s.seq)
		return ErrStale
	}
	s.applied = token
	if err != nil {
		s.status = StatusError
		s.err = err
		s.records = nil
		log.Warn("collection reload failed", "error", err)
		return fmt.Errorf("reload %s: %w", s.name, err)
	}
	s.status = StatusReady
	s.err = nil
	s.records = records
	s.loadedAt = time.Now()
	log.Debug("collection reloaded", "count", len(records))
	return nil
}

// Close moves the store to idle. Responses arriving afterwards are dropped
// and further reloads fail with ErrClosed.
func (s *ListStore[R]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.status = StatusIdle
}

// Status returns the current lifecycle state.
func (s *ListStore[R]) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Err returns the cause of the last failed reload while in the error state.
func (s *ListStore[R]) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.status != StatusError {
		return nil
	}
	return s.err
}

// Snapshot returns a copy of the current records in server order. It is
// empty unless the store is ready.
func (s *ListStore[R]) Snapshot() []R {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.status != StatusReady {
		return []R{}
	}
	return slices.Clone(s.records)
}

// Len returns the number of records in the current snapshot.
func (s *ListStore[R]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.status != StatusReady {
		return 0
	}
	return len(s.records)
}

// Find returns the first record matching pred.
func (s *ListStore[R]) Find(pred func(R) bool) (R, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var zero R
	if s.status != StatusReady {
		return zero, false
	}
	for _, r := range s.records {
		if pred(r) {
			return r, true
		}
	}
	return zero, false
}

// LoadedAt returns when the current snapshot was fetched.
func (s *ListStore[R]) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Generation returns the sequence number of the last applied reload.
func (s *ListStore[R]) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.applied
}
