package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalogChanged(t *testing.T) {
	e := NewCatalogChanged(ProductUpdated, "p1")
	assert.NotEmpty(t, e.EventID)
	assert.Equal(t, "p1", e.EntityID)
	assert.False(t, e.Timestamp.IsZero())
	assert.True(t, IsCatalogEvent(e.EventType))
	assert.False(t, IsCatalogEvent("OrderCreated"))
}

func TestLocalPublisher(t *testing.T) {
	var got []CatalogChanged
	p := NewLocalPublisher(func(e CatalogChanged) { got = append(got, e) })

	require.NoError(t, p.Publish(context.Background(), NewCatalogChanged(CategoryDeleted, "c1")))
	require.Len(t, got, 1)
	assert.Equal(t, CategoryDeleted, got[0].EventType)

	assert.NoError(t, NewLocalPublisher(nil).Publish(context.Background(), got[0]))
}
