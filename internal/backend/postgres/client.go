package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fekuna/frameshop-storefront/internal/backend"
	"github.com/fekuna/frameshop-storefront/internal/catalog"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Client executes backend queries directly against Postgres. It is meant for
// self-hosted deployments where the storefront owns the connection; there is
// no row-level security on this path.
type Client struct {
	DB *sqlx.DB
}

var _ backend.Client = (*Client)(nil)

func NewClient(db *sqlx.DB) *Client {
	// Unsafe tolerates columns the destination struct does not declare.
	return &Client{DB: db.Unsafe()}
}

func (c *Client) Select(ctx context.Context, q catalog.Query, dest interface{}) error {
	query, args, err := BuildSelect(q)
	if err != nil {
		return &backend.QueryError{Collection: q.Collection, Status: http.StatusBadRequest, Message: err.Error()}
	}

	if rows, ok := dest.(*[]catalog.Row); ok {
		return c.selectRows(ctx, q.Collection, query, args, rows)
	}
	if dest == nil {
		var discard []catalog.Row
		return c.selectRows(ctx, q.Collection, query, args, &discard)
	}
	if err := c.DB.SelectContext(ctx, dest, query, args...); err != nil {
		return wrap(q.Collection, err)
	}
	return nil
}

func (c *Client) selectRows(ctx context.Context, collection, query string, args []interface{}, dest *[]catalog.Row) error {
	rows, err := c.DB.QueryxContext(ctx, query, args...)
	if err != nil {
		return wrap(collection, err)
	}
	defer rows.Close()

	out := []catalog.Row{}
	for rows.Next() {
		m := map[string]interface{}{}
		if err := rows.MapScan(m); err != nil {
			return wrap(collection, err)
		}
		for k, v := range m {
			if b, ok := v.([]byte); ok {
				m[k] = string(b)
			}
		}
		out = append(out, catalog.Row(m))
	}
	if err := rows.Err(); err != nil {
		return wrap(collection, err)
	}
	*dest = out
	return nil
}

func (c *Client) Get(ctx context.Context, collection, id string, dest interface{}) error {
	if err := checkCollection(collection); err != nil {
		return &backend.QueryError{Collection: collection, Status: http.StatusBadRequest, Message: err.Error()}
	}
	query := fmt.Sprintf("SELECT * FROM %s WHERE id = $1 LIMIT 1", collection)
	return c.getOne(ctx, collection, dest, query, id)
}

func (c *Client) Insert(ctx context.Context, collection string, row interface{}, dest interface{}) error {
	r, err := backend.ToRow(row)
	if err != nil {
		return err
	}
	dropGenerated(r)

	query, args, err := BuildInsert(collection, r)
	if err != nil {
		return &backend.QueryError{Collection: collection, Status: http.StatusBadRequest, Message: err.Error()}
	}
	return c.getOne(ctx, collection, dest, query, args...)
}

func (c *Client) Update(ctx context.Context, collection, id string, patch interface{}, dest interface{}) error {
	p, err := backend.ToRow(patch)
	if err != nil {
		return err
	}
	query, args, err := BuildUpdate(collection, id, p)
	if err != nil {
		return &backend.QueryError{Collection: collection, Status: http.StatusBadRequest, Message: err.Error()}
	}
	return c.getOne(ctx, collection, dest, query, args...)
}

func (c *Client) Delete(ctx context.Context, collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return &backend.QueryError{Collection: collection, Status: http.StatusBadRequest, Message: err.Error()}
	}
	_, err := c.DB.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", collection), id)
	if err != nil {
		return wrap(collection, err)
	}
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *Client) Close() error {
	return c.DB.Close()
}

func (c *Client) getOne(ctx context.Context, collection string, dest interface{}, query string, args ...interface{}) error {
	if dest == nil {
		var discard []catalog.Row
		if err := c.selectRows(ctx, collection, query, args, &discard); err != nil {
			return err
		}
		if len(discard) == 0 {
			return backend.ErrNotFound
		}
		return nil
	}
	if err := c.DB.GetContext(ctx, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return backend.ErrNotFound
		}
		return wrap(collection, err)
	}
	return nil
}

// dropGenerated removes zero identifiers and timestamps so column defaults apply.
func dropGenerated(r catalog.Row) {
	if id, ok := r[catalog.FieldID].(string); ok && id == "" {
		delete(r, catalog.FieldID)
	}
	for _, col := range []string{catalog.FieldCreatedAt, "updated_at"} {
		s, ok := r[col].(string)
		if !ok {
			continue
		}
		if ts, err := time.Parse(time.RFC3339Nano, s); err == nil && ts.IsZero() {
			delete(r, col)
		}
	}
}

func wrap(collection string, err error) error {
	qe := &backend.QueryError{Collection: collection, Message: err.Error()}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		qe.Message = pqErr.Message
		switch pqErr.Code.Class() {
		case "23":
			qe.Status = http.StatusConflict
		case "42":
			qe.Status = http.StatusBadRequest
		default:
			qe.Status = http.StatusInternalServerError
		}
	}
	return qe
}
