package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/frameshop-storefront/internal/cart"
	"github.com/fekuna/frameshop-storefront/pkg/cache"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "cart:"

// RedisStore keeps each cart as a JSON value whose expiry is pushed out on
// every save.
type RedisStore struct {
	cache *cache.RedisClient
	ttl   time.Duration
}

func NewRedisStore(c *cache.RedisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: c, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, id string) (*cart.Cart, error) {
	val, err := s.cache.Client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.New(id), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", id, err)
	}

	var c cart.Cart
	if err := json.Unmarshal(val, &c); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", id, err)
	}
	c.ID = id
	if c.Items == nil {
		c.Items = cart.New(id).Items
	}
	return &c, nil
}

func (s *RedisStore) Save(ctx context.Context, c *cart.Cart) error {
	c.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if err := s.cache.Client.Set(ctx, keyPrefix+c.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save cart %s: %w", c.ID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.cache.Client.Del(ctx, keyPrefix+id).Err()
}
