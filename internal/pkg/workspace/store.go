package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const DefaultTTL = time.Hour

// Store keeps workspaces in memory keyed by id.
type Store struct {
	mu    sync.RWMutex
	items map[string]*Workspace
	ttl   time.Duration
	now   func() time.Time
}

// NewStore returns a store evicting workspaces idle for longer than ttl.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		items: make(map[string]*Workspace),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Create adds a workspace with a fresh id.
func (s *Store) Create() *Workspace {
	w := New(uuid.NewString())
	s.mu.Lock()
	s.items[w.id] = w
	s.mu.Unlock()
	return w
}

// Get returns the workspace for id.
func (s *Store) Get(id string) (*Workspace, bool) {
	if id == "" {
		return nil, false
	}
	s.mu.RLock()
	w, ok := s.items[id]
	s.mu.RUnlock()
	return w, ok
}

// GetOrCreate returns the workspace for id or creates a new one when id is
// unknown or has expired.
func (s *Store) GetOrCreate(id string) *Workspace {
	if w, ok := s.Get(id); ok {
		return w
	}
	return s.Create()
}

// Delete removes the workspace for id.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

// Len returns the number of live workspaces.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Sweep evicts idle workspaces and returns how many were removed. A
// workspace with a request in flight is never evicted.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, w := range s.items {
		w.mu.Lock()
		expired := !w.busy && w.lastSeen.Before(cutoff)
		w.mu.Unlock()
		if expired {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps every interval until ctx is done.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = s.ttl / 4
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					log.Infof("[Workspace] evicted %d idle workspaces", n)
				}
			}
		}
	}()
}
