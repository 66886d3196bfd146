package handler

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/frameshop-storefront/internal/auth"
	"github.com/fekuna/frameshop-storefront/internal/backend/memory"
	"github.com/fekuna/frameshop-storefront/internal/shop"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "shop-test-secret"

type fixture struct {
	router   *gin.Engine
	client   *memory.Client
	registry *shop.Registry
	hub      *auth.Hub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewNop()
	client := memory.NewWithFixture()
	hub := auth.NewHub()
	registry := shop.NewRegistry(client, hub, shop.NewInbox(10), shop.RegistryConfig{}, log)
	t.Cleanup(registry.Close)

	r := gin.New()
	r.Use(auth.Authenticate(auth.NewVerifier(secret, client, log), log))
	NewShopHandler(registry, log).RegisterRoutes(r)
	return &fixture{router: r, client: client, registry: registry, hub: hub}
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (f *fixture) call(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func decodeView(t *testing.T, env envelope) viewResponse {
	t.Helper()
	var v viewResponse
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func (f *fixture) open(t *testing.T, token string) string {
	t.Helper()
	w, env := f.call(t, http.MethodPost, "/shop/views", token, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeView(t, env).ViewID
	require.NotEmpty(t, id)
	return id
}

func TestOptions(t *testing.T) {
	f := newFixture(t)
	w, env := f.call(t, http.MethodGet, "/shop/options", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var opts optionsResponse
	require.NoError(t, json.Unmarshal(env.Data, &opts))
	assert.Equal(t, []string{"Wood", "Metal", "Acrylic", "Canvas"}, opts.Materials)
	assert.Len(t, opts.SortKeys, 4)
	assert.Equal(t, 10, opts.PriceStep)
}

func TestToggleCategoryAndSort(t *testing.T) {
	f := newFixture(t)
	id := f.open(t, "")

	w, env := f.call(t, http.MethodPost, "/shop/views/"+id+"/toggle?wait=true", "",
		map[string]string{"dimension": "category", "value": memory.CategoryModernID})
	require.Equal(t, http.StatusOK, w.Code)
	v := decodeView(t, env)
	assert.False(t, v.Loading)
	require.Len(t, v.Products, 2)

	_, env = f.call(t, http.MethodPut, "/shop/views/"+id+"/sort?wait=true", "", map[string]string{"sort": "price-high"})
	v = decodeView(t, env)
	require.Len(t, v.Products, 2)
	assert.Equal(t, "Modern Gold Frame", v.Products[0].Name)
	assert.Equal(t, "price-high", string(v.Filters.Sort))
}

func TestPriceWindow(t *testing.T) {
	f := newFixture(t)
	id := f.open(t, "")

	_, env := f.call(t, http.MethodPut, "/shop/views/"+id+"/price?wait=true", "", map[string]int{"min": 70, "max": 100})
	f.call(t, http.MethodPut, "/shop/views/"+id+"/sort?wait=true", "", map[string]string{"sort": "price-low"})
	_, env = f.call(t, http.MethodGet, "/shop/views/"+id, "", nil)

	v := decodeView(t, env)
	var names []string
	for _, p := range v.Products {
		names = append(names, p.Name)
		assert.True(t, p.Price.GreaterThanOrEqual(v.Filters.Price.Min))
		assert.True(t, p.Price.LessThanOrEqual(v.Filters.Price.Max))
	}
	assert.Equal(t, []string{"Minimalist Line Art", "Modern Geometric Frame", "Minimalist Black Frame", "Modern Gold Frame"}, names)
}

func TestResetClearsSelections(t *testing.T) {
	f := newFixture(t)
	id := f.open(t, "")

	f.call(t, http.MethodPost, "/shop/views/"+id+"/toggle?wait=true", "", map[string]string{"dimension": "material", "value": "Wood"})
	_, env := f.call(t, http.MethodPost, "/shop/views/"+id+"/reset?wait=true", "", nil)

	v := decodeView(t, env)
	assert.True(t, v.Filters.Materials.Empty())
	assert.Len(t, v.Products, 8)
}

func TestBadRequests(t *testing.T) {
	f := newFixture(t)
	id := f.open(t, "")

	w, _ := f.call(t, http.MethodPost, "/shop/views/"+id+"/toggle", "", map[string]string{"dimension": "colour", "value": "red"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = f.call(t, http.MethodPut, "/shop/views/"+id+"/sort", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = f.call(t, http.MethodGet, "/shop/views/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFailureSurfacesOneNotification(t *testing.T) {
	f := newFixture(t)
	id := f.open(t, "")
	_, env := f.call(t, http.MethodPost, "/shop/views/"+id+"/refresh?wait=true", "", nil)
	before := decodeView(t, env).Products
	require.Len(t, before, 8)

	f.client.FailWith(errors.New("backend down"))
	_, env = f.call(t, http.MethodPost, "/shop/views/"+id+"/toggle?wait=true", "",
		map[string]string{"dimension": "size", "value": "Small (8x10)"})

	v := decodeView(t, env)
	assert.Equal(t, shop.StatusError, v.Status)
	assert.False(t, v.Loading)
	assert.Len(t, v.Products, 8)
	require.Len(t, v.Notifications, 1)
	assert.Equal(t, "Failed to load products: backend down", v.Notifications[0].Message)

	_, env = f.call(t, http.MethodGet, "/shop/views/"+id, "", nil)
	assert.Empty(t, decodeView(t, env).Notifications)
}

func TestViewOwnership(t *testing.T) {
	f := newFixture(t)
	alice, err := auth.Sign(secret, "alice", "alice@example.com", time.Hour)
	require.NoError(t, err)
	bob, err := auth.Sign(secret, "bob", "bob@example.com", time.Hour)
	require.NoError(t, err)

	id := f.open(t, alice)

	w, _ := f.call(t, http.MethodGet, "/shop/views/"+id, alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = f.call(t, http.MethodGet, "/shop/views/"+id, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = f.call(t, http.MethodGet, "/shop/views/"+id, "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestViewStaysPrivateAfterSignOut(t *testing.T) {
	f := newFixture(t)
	alice, err := auth.Sign(secret, "alice", "alice@example.com", time.Hour)
	require.NoError(t, err)
	bob, err := auth.Sign(secret, "bob", "bob@example.com", time.Hour)
	require.NoError(t, err)

	id := f.open(t, alice)
	f.hub.Publish(auth.Event{Kind: auth.EventSignedOut, UserID: "alice"})

	w, _ := f.call(t, http.MethodGet, "/shop/views/"+id, "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = f.call(t, http.MethodPost, "/shop/views/"+id+"/reset", bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := f.call(t, http.MethodGet, "/shop/views/"+id, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decodeView(t, env).Authenticated)
}

func TestCloseView(t *testing.T) {
	f := newFixture(t)
	id := f.open(t, "")

	w, _ := f.call(t, http.MethodDelete, "/shop/views/"+id, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = f.call(t, http.MethodGet, "/shop/views/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, f.registry.Len())
}

func TestEventsStream(t *testing.T) {
	f := newFixture(t)
	id := f.open(t, "")
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/shop/views/"+id+"/events", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	events := make(chan string, 16)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if name, ok := strings.CutPrefix(scanner.Text(), "event:"); ok {
				events <- name
			}
		}
		close(events)
	}()

	require.Equal(t, "snapshot", <-events)

	f.call(t, http.MethodPost, "/shop/views/"+id+"/refresh", "", nil)

	select {
	case name := <-events:
		assert.Equal(t, "snapshot", name)
	case <-ctx.Done():
		t.Fatal("no snapshot after refresh")
	}
}
