package shop

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fekuna/frameshop-storefront/internal/apperror"
	"github.com/fekuna/frameshop-storefront/internal/auth"
	"github.com/fekuna/frameshop-storefront/internal/backend"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrViewNotFound = fmt.Errorf("shop view %w", apperror.ErrNotFound)

type RegistryConfig struct {
	Policy       StalePolicy
	FetchTimeout time.Duration
	IdleTTL      time.Duration // zero keeps views until closed
}

// Registry owns the open shop views of this process.
type Registry struct {
	client backend.Client
	hub    *auth.Hub
	inbox  *Inbox
	cfg    RegistryConfig
	logger logger.ZapLogger
	now    func() time.Time

	mu    sync.Mutex
	views map[string]*View
}

func NewRegistry(client backend.Client, hub *auth.Hub, inbox *Inbox, cfg RegistryConfig, log logger.ZapLogger) *Registry {
	return &Registry{
		client: client,
		hub:    hub,
		inbox:  inbox,
		cfg:    cfg,
		logger: log,
		now:    time.Now,
		views:  make(map[string]*View),
	}
}

func (r *Registry) Inbox() *Inbox { return r.inbox }

// Open creates a mounted view. s may be nil for guests.
func (r *Registry) Open(s *auth.Session) *View {
	v := NewView(uuid.New().String(), r.client, Options{
		Policy:       r.cfg.Policy,
		FetchTimeout: r.cfg.FetchTimeout,
		Notifier:     r.inbox,
		Logger:       r.logger,
	})
	if s != nil && r.hub != nil {
		v.BindSession(r.hub, s)
	}

	r.mu.Lock()
	r.views[v.ID()] = v
	r.mu.Unlock()

	r.logger.Debug("shop view opened", zap.String("view_id", v.ID()), zap.Bool("authenticated", s != nil))
	v.Mount()
	return v
}

// Get returns an open view and marks it active.
func (r *Registry) Get(id string) (*View, error) {
	r.mu.Lock()
	v, ok := r.views[id]
	r.mu.Unlock()
	if !ok {
		return nil, ErrViewNotFound
	}
	v.Touch()
	return v, nil
}

func (r *Registry) CloseView(id string) error {
	r.mu.Lock()
	v, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()
	if !ok {
		return ErrViewNotFound
	}
	v.Close()
	r.inbox.Forget(id)
	return nil
}

// RefreshAll re-fetches every open view, e.g. after the catalog changed.
func (r *Registry) RefreshAll() int {
	views := r.list()
	for _, v := range views {
		v.Refresh()
	}
	return len(views)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Sweep closes views idle for longer than the configured TTL.
func (r *Registry) Sweep() int {
	if r.cfg.IdleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.cfg.IdleTTL)

	var expired []string
	for _, v := range r.list() {
		if v.LastActive().Before(cutoff) {
			expired = append(expired, v.ID())
		}
	}
	for _, id := range expired {
		_ = r.CloseView(id)
	}
	if len(expired) > 0 {
		r.logger.Info("expired idle shop views", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps idle views until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	if r.cfg.IdleTTL <= 0 {
		return
	}
	interval := r.cfg.IdleTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Close tears down every view.
func (r *Registry) Close() {
	r.mu.Lock()
	views := r.views
	r.views = make(map[string]*View)
	r.mu.Unlock()

	for id, v := range views {
		v.Close()
		r.inbox.Forget(id)
	}
}

func (r *Registry) list() []*View {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*View, 0, len(r.views))
	for _, v := range r.views {
		out = append(out, v)
	}
	return out
}
