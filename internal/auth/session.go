package auth

import (
	"fmt"
	"sync"
	"time"

	"github.com/fekuna/frameshop-storefront/internal/apperror"
)

var (
	ErrUnauthenticated = apperror.ErrUnauthenticated
	ErrForbidden       = apperror.ErrForbidden
	ErrInvalidToken    = fmt.Errorf("invalid or expired token: %w", apperror.ErrUnauthenticated)
)

// Session is the authenticated caller as established by the backend's token.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type EventKind string

const (
	EventSignedOut      EventKind = "signed_out"
	EventTokenRefreshed EventKind = "token_refreshed"
	EventRoleChanged    EventKind = "role_changed"
)

// Event describes an auth state change for one user. Session carries the new
// state for refresh and role events and is nil on sign-out.
type Event struct {
	Kind    EventKind
	UserID  string
	Session *Session
}

// Subscription is returned by Hub.Subscribe. Close is idempotent and must be
// called when the owner is torn down.
type Subscription struct {
	once   sync.Once
	cancel func()
}

func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

// Hub fans auth events out to per-user callback registrations.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[uint64]func(Event)
	next uint64
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[uint64]func(Event))}
}

func (h *Hub) Subscribe(userID string, fn func(Event)) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.next++
	id := h.next
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[uint64]func(Event))
	}
	h.subs[userID][id] = fn

	return &Subscription{cancel: func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[userID], id)
		if len(h.subs[userID]) == 0 {
			delete(h.subs, userID)
		}
	}}
}

// Publish delivers e synchronously to every callback registered for e.UserID.
// Callbacks run outside the hub lock and may unsubscribe.
func (h *Hub) Publish(e Event) {
	h.mu.RLock()
	fns := make([]func(Event), 0, len(h.subs[e.UserID]))
	for _, fn := range h.subs[e.UserID] {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}

// Count returns the number of live registrations for a user.
func (h *Hub) Count(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
