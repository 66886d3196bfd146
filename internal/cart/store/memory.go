package store

import (
	"context"
	"sync"
	"time"

	"github.com/fekuna/frameshop-storefront/internal/cart"
	"github.com/fekuna/frameshop-storefront/internal/model"
)

// MemoryStore keeps carts in process. Entries idle past the TTL are dropped
// on the next access.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string]*cart.Cart
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{carts: make(map[string]*cart.Cart), ttl: ttl, now: time.Now}
}

func (s *MemoryStore) Load(_ context.Context, id string) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[id]
	if !ok {
		return cart.New(id), nil
	}
	if s.ttl > 0 && s.now().Sub(c.UpdatedAt) > s.ttl {
		delete(s.carts, id)
		return cart.New(id), nil
	}
	return clone(c), nil
}

func (s *MemoryStore) Save(_ context.Context, c *cart.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.UpdatedAt = s.now()
	s.carts[c.ID] = clone(c)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, id)
	return nil
}

func clone(c *cart.Cart) *cart.Cart {
	out := *c
	out.Items = append([]model.CartItem{}, c.Items...)
	return &out
}
