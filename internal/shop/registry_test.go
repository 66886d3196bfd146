package shop

import (
	"testing"
	"time"

	"github.com/fekuna/frameshop-storefront/internal/apperror"
	"github.com/fekuna/frameshop-storefront/internal/auth"
	"github.com/fekuna/frameshop-storefront/internal/backend/memory"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(ttl time.Duration) (*Registry, *auth.Hub) {
	hub := auth.NewHub()
	r := NewRegistry(memory.NewWithFixture(), hub, NewInbox(10), RegistryConfig{IdleTTL: ttl}, logger.NewNop())
	return r, hub
}

func TestRegistryOpenGetClose(t *testing.T) {
	r, hub := newRegistry(0)

	v := r.Open(&auth.Session{UserID: "u1", Token: "t"})
	assert.Eventually(t, func() bool { return v.Snapshot().Status == StatusSuccess }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, hub.Count("u1"))

	got, err := r.Get(v.ID())
	require.NoError(t, err)
	assert.Same(t, v, got)
	assert.Equal(t, 1, r.Len())

	require.NoError(t, r.CloseView(v.ID()))
	assert.Zero(t, hub.Count("u1"))

	_, err = r.Get(v.ID())
	assert.ErrorIs(t, err, ErrViewNotFound)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.ErrorIs(t, r.CloseView(v.ID()), ErrViewNotFound)
}

func TestRegistryRefreshAll(t *testing.T) {
	r, _ := newRegistry(0)
	a := r.Open(nil)
	b := r.Open(nil)
	wait(t, a.Refresh())
	wait(t, b.Refresh())
	before := a.Snapshot().Version

	assert.Equal(t, 2, r.RefreshAll())
	assert.Eventually(t, func() bool {
		s := a.Snapshot()
		return s.Version >= before+2 && !s.Loading
	}, time.Second, 5*time.Millisecond)
}

func TestRegistrySweepExpiresIdleViews(t *testing.T) {
	r, _ := newRegistry(30 * time.Minute)
	v := r.Open(nil)
	r.Inbox().Notify(Notification{ViewID: v.ID(), Message: "hello"})

	assert.Zero(t, r.Sweep())

	r.now = func() time.Time { return time.Now().Add(time.Hour) }
	assert.Equal(t, 1, r.Sweep())
	assert.Zero(t, r.Len())
	assert.Zero(t, r.Inbox().Pending(v.ID()))
}

func TestRegistryClose(t *testing.T) {
	r, hub := newRegistry(0)
	r.Open(&auth.Session{UserID: "u1"})
	r.Open(&auth.Session{UserID: "u1"})
	require.Equal(t, 2, hub.Count("u1"))

	r.Close()
	assert.Zero(t, r.Len())
	assert.Zero(t, hub.Count("u1"))
	assert.Zero(t, r.Sweep())
}

func TestInboxLimit(t *testing.T) {
	b := NewInbox(2)
	for _, m := range []string{"a", "b", "c"} {
		b.Notify(Notification{ViewID: "v", Message: m})
	}
	got := b.Drain("v")
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Message)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].CreatedAt.IsZero())
}
