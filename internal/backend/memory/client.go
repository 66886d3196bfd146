package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fekuna/frameshop-storefront/internal/backend"
	"github.com/fekuna/frameshop-storefront/internal/catalog"
	"github.com/google/uuid"
)

// SelectHook runs before every Select. A non-nil error fails the read.
type SelectHook func(ctx context.Context, q catalog.Query) error

// Client keeps every collection as generic rows in process memory.
type Client struct {
	mu          sync.RWMutex
	collections map[string][]catalog.Row
	hook        SelectHook
	failure     error
	now         func() time.Time
}

var _ backend.Client = (*Client)(nil)

func New() *Client {
	return &Client{
		collections: make(map[string][]catalog.Row),
		now:         time.Now,
	}
}

// NewWithFixture returns a client seeded with the storefront demo catalog.
func NewWithFixture() *Client {
	c := New()
	c.Seed(catalog.CollectionCategories, FixtureCategories()...)
	c.Seed(catalog.CollectionProducts, FixtureProducts()...)
	return c
}

// Seed appends rows to a collection as-is.
func (c *Client) Seed(collection string, rows ...catalog.Row) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range rows {
		c.collections[collection] = append(c.collections[collection], cloneRow(r))
	}
}

func (c *Client) SetSelectHook(h SelectHook) {
	c.mu.Lock()
	c.hook = h
	c.mu.Unlock()
}

// FailWith makes every subsequent operation return err until cleared with nil.
func (c *Client) FailWith(err error) {
	c.mu.Lock()
	c.failure = err
	c.mu.Unlock()
}

func (c *Client) Select(ctx context.Context, q catalog.Query, dest interface{}) error {
	c.mu.RLock()
	hook, failure := c.hook, c.failure
	c.mu.RUnlock()

	if failure != nil {
		return &backend.QueryError{Collection: q.Collection, Message: failure.Error()}
	}
	if hook != nil {
		if err := hook(ctx, q); err != nil {
			return &backend.QueryError{Collection: q.Collection, Message: err.Error()}
		}
	}
	if err := ctx.Err(); err != nil {
		return &backend.QueryError{Collection: q.Collection, Message: err.Error()}
	}

	c.mu.RLock()
	rows := catalog.Apply(q, c.collections[q.Collection])
	out := make([]catalog.Row, len(rows))
	for i, r := range rows {
		out[i] = project(r, q.Columns)
	}
	c.mu.RUnlock()

	return backend.Decode(out, dest)
}

func (c *Client) Get(ctx context.Context, collection, id string, dest interface{}) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.failure != nil {
		return &backend.QueryError{Collection: collection, Message: c.failure.Error()}
	}
	i := c.indexOf(collection, id)
	if i < 0 {
		return backend.ErrNotFound
	}
	return backend.Decode(c.collections[collection][i], dest)
}

func (c *Client) Insert(ctx context.Context, collection string, row interface{}, dest interface{}) error {
	r, err := backend.ToRow(row)
	if err != nil {
		return err
	}
	r = cloneRow(r)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failure != nil {
		return &backend.QueryError{Collection: collection, Message: c.failure.Error()}
	}
	if id, _ := r[catalog.FieldID].(string); id == "" {
		r[catalog.FieldID] = uuid.New().String()
	} else if c.indexOf(collection, id) >= 0 {
		return &backend.QueryError{Collection: collection, Status: 409, Message: "duplicate key value violates unique constraint"}
	}
	now := c.now().UTC().Format(time.RFC3339Nano)
	if isZero(r[catalog.FieldCreatedAt]) {
		r[catalog.FieldCreatedAt] = now
	}
	r["updated_at"] = now

	c.collections[collection] = append(c.collections[collection], r)
	return backend.Decode(r, dest)
}

func (c *Client) Update(ctx context.Context, collection, id string, patch interface{}, dest interface{}) error {
	p, err := backend.ToRow(patch)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failure != nil {
		return &backend.QueryError{Collection: collection, Message: c.failure.Error()}
	}
	i := c.indexOf(collection, id)
	if i < 0 {
		return backend.ErrNotFound
	}
	r := cloneRow(c.collections[collection][i])
	for k, v := range p {
		if k == catalog.FieldID || k == catalog.FieldCreatedAt {
			continue
		}
		r[k] = v
	}
	r["updated_at"] = c.now().UTC().Format(time.RFC3339Nano)
	c.collections[collection][i] = r

	return backend.Decode(r, dest)
}

func (c *Client) Delete(ctx context.Context, collection, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failure != nil {
		return &backend.QueryError{Collection: collection, Message: c.failure.Error()}
	}
	i := c.indexOf(collection, id)
	if i < 0 {
		return nil
	}
	rows := c.collections[collection]
	c.collections[collection] = append(rows[:i:i], rows[i+1:]...)
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.failure
}

func (c *Client) Close() error { return nil }

// indexOf must be called with mu held.
func (c *Client) indexOf(collection, id string) int {
	for i, r := range c.collections[collection] {
		if v, _ := r[catalog.FieldID].(string); v == id {
			return i
		}
	}
	return -1
}

func project(r catalog.Row, columns []string) catalog.Row {
	if len(columns) == 0 || (len(columns) == 1 && columns[0] == "*") {
		return cloneRow(r)
	}
	out := make(catalog.Row, len(columns))
	for _, col := range columns {
		if v, ok := r[col]; ok {
			out[col] = v
		}
	}
	return out
}

func cloneRow(r catalog.Row) catalog.Row {
	out := make(catalog.Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func isZero(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && (s == "" || s == "0001-01-01T00:00:00Z")
}
