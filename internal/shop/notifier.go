package shop

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notification is a transient, user-facing message such as a toast.
type Notification struct {
	ID        string    `json:"id"`
	ViewID    string    `json:"view_id"`
	Level     Level     `json:"level"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type Notifier interface {
	Notify(n Notification)
}

// Inbox buffers notifications per view until they are drained.
type Inbox struct {
	mu    sync.Mutex
	items map[string][]Notification
	limit int
}

// NewInbox keeps at most limit pending notifications per view, dropping the
// oldest first. limit <= 0 means unbounded.
func NewInbox(limit int) *Inbox {
	return &Inbox{items: make(map[string][]Notification), limit: limit}
}

func (b *Inbox) Notify(n Notification) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	q := append(b.items[n.ViewID], n)
	if b.limit > 0 && len(q) > b.limit {
		q = q[len(q)-b.limit:]
	}
	b.items[n.ViewID] = q
}

// Drain returns and forgets the pending notifications of a view.
func (b *Inbox) Drain(viewID string) []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.items[viewID]
	delete(b.items, viewID)
	if out == nil {
		out = []Notification{}
	}
	return out
}

func (b *Inbox) Pending(viewID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items[viewID])
}

// Forget drops anything still queued for a closed view.
func (b *Inbox) Forget(viewID string) {
	b.mu.Lock()
	delete(b.items, viewID)
	b.mu.Unlock()
}

// NotifierFunc adapts a plain function.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }
