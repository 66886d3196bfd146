package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fekuna/frameshop-storefront/internal/backend"
	"github.com/fekuna/frameshop-storefront/internal/catalog"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"go.uber.org/zap"
)

type Config struct {
	BaseURL string // e.g. https://project.example.co/rest/v1
	APIKey  string
	Schema  string
	Timeout time.Duration
}

// Client talks to a PostgREST-compatible endpoint. The service key is always
// sent as apikey; the bearer is the caller's access token when one is present
// in the context so row-level security applies to the end user.
type Client struct {
	cfg    Config
	http   *http.Client
	logger logger.ZapLogger
}

var _ backend.Client = (*Client)(nil)

func New(cfg Config, httpClient *http.Client, log logger.ZapLogger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, http: httpClient, logger: log}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (c *Client) Select(ctx context.Context, q catalog.Query, dest interface{}) error {
	params, err := Encode(q)
	if err != nil {
		return &backend.QueryError{Collection: q.Collection, Message: err.Error()}
	}
	body, err := c.do(ctx, http.MethodGet, q.Collection, params, nil)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return &backend.QueryError{Collection: q.Collection, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

func (c *Client) Get(ctx context.Context, collection, id string, dest interface{}) error {
	params := url.Values{}
	params.Set("select", "*")
	params.Set(catalog.FieldID, "eq."+id)
	params.Set("limit", "1")

	body, err := c.do(ctx, http.MethodGet, collection, params, nil)
	if err != nil {
		return err
	}
	return c.decodeFirst(collection, body, dest)
}

func (c *Client) Insert(ctx context.Context, collection string, row interface{}, dest interface{}) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode %s row: %w", collection, err)
	}
	body, err := c.do(ctx, http.MethodPost, collection, url.Values{}, payload)
	if err != nil {
		return err
	}
	return c.decodeFirst(collection, body, dest)
}

func (c *Client) Update(ctx context.Context, collection, id string, patch interface{}, dest interface{}) error {
	payload, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("encode %s patch: %w", collection, err)
	}
	params := url.Values{}
	params.Set(catalog.FieldID, "eq."+id)

	body, err := c.do(ctx, http.MethodPatch, collection, params, payload)
	if err != nil {
		return err
	}
	return c.decodeFirst(collection, body, dest)
}

func (c *Client) Delete(ctx context.Context, collection, id string) error {
	params := url.Values{}
	params.Set(catalog.FieldID, "eq."+id)
	_, err := c.do(ctx, http.MethodDelete, collection, params, nil)
	return err
}

// Ping issues a minimal read against the categories collection.
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("select", catalog.FieldID)
	params.Set("limit", "1")
	_, err := c.do(ctx, http.MethodGet, catalog.CollectionCategories, params, nil)
	return err
}

func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *Client) do(ctx context.Context, method, collection string, params url.Values, payload []byte) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/%s", c.cfg.BaseURL, collection)
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, &backend.QueryError{Collection: collection, Message: fmt.Sprintf("build request: %v", err)}
	}
	c.setHeaders(ctx, req, method)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed",
			zap.String("method", method),
			zap.String("collection", collection),
			zap.Error(err),
		)
		return nil, &backend.QueryError{Collection: collection, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &backend.QueryError{Collection: collection, Status: resp.StatusCode, Message: fmt.Sprintf("read response: %v", err)}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		qe := &backend.QueryError{Collection: collection, Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil && eb.Message != "" {
			qe.Message = eb.Message
			if eb.Details != "" {
				qe.Message += ": " + eb.Details
			}
		}
		c.logger.Debug("backend rejected request",
			zap.String("method", method),
			zap.String("collection", collection),
			zap.Int("status", resp.StatusCode),
			zap.String("code", eb.Code),
		)
		return nil, qe
	}

	return body, nil
}

func (c *Client) setHeaders(ctx context.Context, req *http.Request, method string) {
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("apikey", c.cfg.APIKey)
	}
	token := backend.AccessTokenFrom(ctx)
	if token == "" {
		token = c.cfg.APIKey
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if method == http.MethodGet {
		if c.cfg.Schema != "" {
			req.Header.Set("Accept-Profile", c.cfg.Schema)
		}
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")
	if c.cfg.Schema != "" {
		req.Header.Set("Content-Profile", c.cfg.Schema)
	}
}

func (c *Client) decodeFirst(collection string, body []byte, dest interface{}) error {
	var rows []json.RawMessage
	if len(bytes.TrimSpace(body)) == 0 {
		return backend.ErrNotFound
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return &backend.QueryError{Collection: collection, Message: fmt.Sprintf("decode response: %v", err)}
	}
	if len(rows) == 0 {
		return backend.ErrNotFound
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(rows[0], dest); err != nil {
		return &backend.QueryError{Collection: collection, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}
