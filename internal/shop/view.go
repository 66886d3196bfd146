package shop

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fekuna/frameshop-storefront/internal/auth"
	"github.com/fekuna/frameshop-storefront/internal/backend"
	"github.com/fekuna/frameshop-storefront/internal/catalog"
	"github.com/fekuna/frameshop-storefront/internal/model"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"go.uber.org/zap"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Snapshot is a consistent copy of a view's state.
type Snapshot struct {
	ViewID        string              `json:"view_id"`
	Filters       catalog.FilterState `json:"filters"`
	Products      []model.Product     `json:"products"`
	Status        Status              `json:"status"`
	Loading       bool                `json:"loading"`
	Error         string              `json:"error,omitempty"`
	Version       uint64              `json:"version"`
	Authenticated bool                `json:"authenticated"`
}

type Options struct {
	Policy       StalePolicy
	FetchTimeout time.Duration // zero waits for the backend indefinitely
	Notifier     Notifier
	Logger       logger.ZapLogger
}

// View is one shop page: the filter selections, the product list on display
// and the fetch state machine that keeps them in step. Every filter change
// issues a new fetch; in-flight fetches are never cancelled by newer ones.
// All state is guarded by mu.
type View struct {
	id     string
	client backend.Client
	opts   Options
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	filters    catalog.FilterState
	products   []model.Product
	status     Status
	loading    bool
	errMsg     string
	seq        uint64
	version    uint64
	mounted    bool
	closed     bool
	session    *auth.Session
	owner      string
	authSub    *auth.Subscription
	subs       map[uint64]func(Snapshot)
	nextSub    uint64
	lastActive time.Time
}

func NewView(id string, client backend.Client, opts Options) *View {
	if opts.Notifier == nil {
		opts.Notifier = NotifierFunc(func(Notification) {})
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &View{
		id:         id,
		client:     client,
		opts:       opts,
		ctx:        ctx,
		cancel:     cancel,
		filters:    catalog.NewFilterState(),
		products:   []model.Product{},
		status:     StatusIdle,
		subs:       make(map[uint64]func(Snapshot)),
		lastActive: time.Now(),
	}
}

func (v *View) ID() string { return v.id }

// Mount issues the initial fetch. Later calls are no-ops.
func (v *View) Mount() <-chan struct{} {
	v.mu.Lock()
	if v.mounted {
		v.mu.Unlock()
		return closedChan()
	}
	v.mounted = true
	v.mu.Unlock()
	return v.fetch()
}

// Update applies fn to the filter state and re-fetches. The returned channel
// closes once that fetch has resolved.
func (v *View) Update(fn func(f *catalog.FilterState)) <-chan struct{} {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return closedChan()
	}
	fn(&v.filters)
	v.mounted = true
	v.lastActive = time.Now()
	v.mu.Unlock()
	return v.fetch()
}

// Refresh re-fetches with the current filters.
func (v *View) Refresh() <-chan struct{} {
	return v.fetch()
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every state change.
// Callbacks run outside the view lock.
func (v *View) Subscribe(fn func(Snapshot)) *Subscription {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nextSub++
	id := v.nextSub
	v.subs[id] = fn
	return newSubscription(func() {
		v.mu.Lock()
		delete(v.subs, id)
		v.mu.Unlock()
	})
}

// BindSession attaches the caller's session and follows its auth events:
// sign-out drops it, refresh and role changes replace it.
func (v *View) BindSession(hub *auth.Hub, s *auth.Session) {
	if s == nil {
		return
	}
	sub := hub.Subscribe(s.UserID, v.onAuthEvent)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		sub.Close()
		return
	}
	v.authSub.Close()
	v.session = s
	v.owner = s.UserID
	v.authSub = sub
}

func (v *View) onAuthEvent(e auth.Event) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	switch e.Kind {
	case auth.EventSignedOut:
		v.session = nil
		v.authSub.Close()
		v.authSub = nil
	case auth.EventTokenRefreshed, auth.EventRoleChanged:
		if e.Session != nil {
			v.session = e.Session
		}
	}
	v.version++
	snap, subs := v.snapshotLocked(), v.subscribersLocked()
	v.mu.Unlock()

	v.opts.Logger.Debug("shop view auth event", zap.String("view_id", v.id), zap.String("kind", string(e.Kind)))
	broadcast(subs, snap)
}

// Owner is the user the view was opened for, or "" for guest views. It
// outlives sign-out so the view stays private to that user.
func (v *View) Owner() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.owner
}

func (v *View) Touch() {
	v.mu.Lock()
	v.lastActive = time.Now()
	v.mu.Unlock()
}

func (v *View) LastActive() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastActive
}

// Close tears the view down. Responses that arrive afterwards are dropped.
func (v *View) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.authSub.Close()
	v.authSub = nil
	v.subs = make(map[uint64]func(Snapshot))
	v.mu.Unlock()
	v.cancel()
}

func (v *View) fetch() <-chan struct{} {
	done := make(chan struct{})

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		close(done)
		return done
	}
	v.seq++
	seq := v.seq
	v.status = StatusLoading
	v.loading = true
	v.version++
	q := catalog.ComposeProducts(v.filters)
	var token string
	if v.session != nil {
		token = v.session.Token
	}
	snap, subs := v.snapshotLocked(), v.subscribersLocked()
	v.mu.Unlock()

	broadcast(subs, snap)

	go func() {
		defer close(done)

		ctx := backend.WithAccessToken(v.ctx, token)
		if v.opts.FetchTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, v.opts.FetchTimeout)
			defer cancel()
		}

		var products []model.Product
		err := v.client.Select(ctx, q, &products)
		v.resolve(seq, products, err)
	}()

	return done
}

func (v *View) resolve(seq uint64, products []model.Product, err error) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	if v.opts.Policy == DiscardStale && seq != v.seq {
		v.mu.Unlock()
		v.opts.Logger.Debug("discarding stale catalog response",
			zap.String("view_id", v.id),
			zap.Uint64("seq", seq),
		)
		return
	}

	if err != nil {
		v.status = StatusError
		v.errMsg = err.Error()
	} else {
		if products == nil {
			products = []model.Product{}
		}
		v.products = products
		v.status = StatusSuccess
		v.errMsg = ""
	}
	v.loading = false
	v.version++
	snap, subs := v.snapshotLocked(), v.subscribersLocked()
	v.mu.Unlock()

	if err != nil {
		v.opts.Logger.Warn("catalog fetch failed", zap.String("view_id", v.id), zap.Error(err))
		v.opts.Notifier.Notify(Notification{
			ViewID:  v.id,
			Level:   LevelError,
			Title:   "Error",
			Message: failureMessage(err),
		})
	}
	broadcast(subs, snap)
}

// failureMessage prefers the backend's own message over the wrapped error text.
func failureMessage(err error) string {
	msg := err.Error()
	var qe *backend.QueryError
	if errors.As(err, &qe) && qe.Message != "" {
		msg = qe.Message
	}
	return "Failed to load products: " + msg
}

func (v *View) snapshotLocked() Snapshot {
	return Snapshot{
		ViewID:        v.id,
		Filters:       v.filters.Clone(),
		Products:      v.products,
		Status:        v.status,
		Loading:       v.loading,
		Error:         v.errMsg,
		Version:       v.version,
		Authenticated: v.session != nil,
	}
}

func (v *View) subscribersLocked() []func(Snapshot) {
	out := make([]func(Snapshot), 0, len(v.subs))
	for _, fn := range v.subs {
		out = append(out, fn)
	}
	return out
}

func broadcast(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}

func closedChan() <-chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}

// Subscription cancels a snapshot registration. Close is idempotent.
type Subscription struct {
	once   sync.Once
	cancel func()
}

func newSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}
