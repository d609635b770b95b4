package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talentscout/scout/internal/conversation"
)

const defaultIdleTTL = 30 * time.Minute

// sessionEntry pairs a conversation session with its serialization lock.
// The controller requires that ProcessInput calls never run concurrently
// against the same session; holding mu across a turn enforces that here.
type sessionEntry struct {
	mu         sync.Mutex
	session    *conversation.Session
	lastActive time.Time
	saved      bool // set once the completed profile has been persisted
}

// Registry tracks live sessions by ID. Sessions idle longer than the TTL
// are evicted by Reap.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	idleTTL  time.Duration
}

// NewRegistry creates a Registry with the default 30-minute idle TTL.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*sessionEntry),
		idleTTL:  defaultIdleTTL,
	}
}

// Add registers a session and returns its new ID.
func (r *Registry) Add(s *conversation.Session) string {
	id := uuid.New().String()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = &sessionEntry{session: s, lastActive: time.Now()}
	return id
}

// Get returns the entry for id, bumping its activity timestamp.
func (r *Registry) Get(id string) (*sessionEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if ok {
		e.lastActive = time.Now()
	}
	return e, ok
}

// Remove deletes a session. Removing an unknown ID is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Reap evicts sessions idle longer than the TTL and returns how many were
// removed.
func (r *Registry) Reap(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	for id, e := range r.sessions {
		if now.Sub(e.lastActive) > r.idleTTL {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}
