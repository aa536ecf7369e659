package service

import (
	"sync"
	"time"

	"lugat/internal/domain"
)

// Registry owns the in-memory session of every active user.
// All work for one user runs under that user's lock, one request at a time.
type Registry struct {
	mu    sync.Mutex
	slots map[int64]*userSlot
	now   func() time.Time
}

type userSlot struct {
	mu       sync.Mutex
	session  *domain.SessionState
	lastUsed time.Time
	evicted  bool
}

// NewRegistry creates an empty session registry
func NewRegistry() *Registry {
	return &Registry{
		slots: make(map[int64]*userSlot),
		now:   time.Now,
	}
}

// acquire returns the locked slot for a user, creating an idle one on miss
func (r *Registry) acquire(userID int64) *userSlot {
	for {
		r.mu.Lock()
		slot, ok := r.slots[userID]
		if !ok {
			slot = &userSlot{session: domain.NewSessionState()}
			r.slots[userID] = slot
		}
		r.mu.Unlock()

		slot.mu.Lock()
		if !slot.evicted {
			slot.lastUsed = r.now()
			return slot
		}
		slot.mu.Unlock()
	}
}

// Update runs fn on a copy of the user's session and commits the copy only if fn succeeds
func (r *Registry) Update(userID int64, fn func(s *domain.SessionState) error) error {
	slot := r.acquire(userID)
	defer slot.mu.Unlock()

	next := slot.session.Clone()
	if err := fn(next); err != nil {
		return err
	}
	slot.session = next
	return nil
}

// Locked runs fn under the user's lock without touching the session
func (r *Registry) Locked(userID int64, fn func() error) error {
	slot := r.acquire(userID)
	defer slot.mu.Unlock()
	return fn()
}

// Background runs fn under the user's lock for work the user did not ask for.
// It keeps lastUsed as it is, and a slot created only for fn is dropped again,
// so background writes neither fill the registry nor keep sessions alive.
func (r *Registry) Background(userID int64, fn func() error) error {
	for {
		r.mu.Lock()
		slot, ok := r.slots[userID]
		if !ok {
			slot = &userSlot{session: domain.NewSessionState()}
			r.slots[userID] = slot
		}
		r.mu.Unlock()

		slot.mu.Lock()
		if slot.evicted {
			slot.mu.Unlock()
			continue
		}

		err := fn()
		if !ok {
			r.mu.Lock()
			if r.slots[userID] == slot {
				delete(r.slots, userID)
			}
			r.mu.Unlock()
			slot.evicted = true
		}
		slot.mu.Unlock()
		return err
	}
}

// Snapshot returns a copy of the user's session
func (r *Registry) Snapshot(userID int64) *domain.SessionState {
	slot := r.acquire(userID)
	defer slot.mu.Unlock()
	return slot.session.Clone()
}

// EvictIdle drops sessions unused for longer than ttl and returns how many were dropped.
// Sessions that are busy right now are kept.
func (r *Registry) EvictIdle(ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-ttl)
	evicted := 0
	for userID, slot := range r.slots {
		if !slot.mu.TryLock() {
			continue
		}
		if slot.lastUsed.Before(cutoff) {
			slot.evicted = true
			delete(r.slots, userID)
			evicted++
		}
		slot.mu.Unlock()
	}
	return evicted
}

// Len returns the number of tracked sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots)
}
