package cart

import (
	"testing"

	"github.com/fekuna/frameshop-storefront/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id, size, price string, qty int) model.CartItem {
	return model.CartItem{ID: id, Name: "Frame " + id, Price: decimal.RequireFromString(price), Quantity: qty, Size: size}
}

func TestAddMergesByProductAndSize(t *testing.T) {
	c := New("c")
	c.Add(item("p1", "Small (8x10)", "69.99", 1))
	c.Add(item("p1", "Small (8x10)", "69.99", 2))
	c.Add(item("p1", "Large (24x36)", "129.99", 1))
	c.Add(item("p2", "Small (8x10)", "69.99", 0))

	require.Len(t, c.Items, 3)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, 1, c.Items[2].Quantity)
	assert.Equal(t, 5, c.Count())
}

func TestUpdateQuantityClampsAtOne(t *testing.T) {
	c := New("c")
	c.Add(item("p1", "", "10", 2))

	require.NoError(t, c.UpdateQuantity("p1", "", 3))
	assert.Equal(t, 5, c.Items[0].Quantity)

	require.NoError(t, c.UpdateQuantity("p1", "", -10))
	assert.Equal(t, 1, c.Items[0].Quantity)

	assert.ErrorIs(t, c.UpdateQuantity("p1", "Small (8x10)", 1), ErrItemNotFound)
}

func TestRemoveAndClear(t *testing.T) {
	c := New("c")
	c.Add(item("p1", "", "10", 1))
	c.Add(item("p2", "", "20", 1))

	require.NoError(t, c.Remove("p1", ""))
	require.Len(t, c.Items, 1)
	assert.Equal(t, "p2", c.Items[0].ID)
	assert.ErrorIs(t, c.Remove("p1", ""), ErrItemNotFound)

	c.Clear()
	assert.True(t, c.Empty())
	assert.Equal(t, 0, c.Count())
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name      string
		subtotal  string
		shipping  string
		remaining string
		tax       string
		total     string
	}{
		{"checkout example", "229.97", "0", "0", "18.40", "248.37"},
		{"below threshold", "59.99", "15", "40.01", "4.80", "79.79"},
		{"exactly threshold pays shipping", "100", "15", "0", "8.00", "123.00"},
		{"just above threshold", "100.01", "0", "0", "8.00", "108.01"},
		{"empty", "0", "15", "100", "0", "15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Price(decimal.RequireFromString(tt.subtotal))
			assert.True(t, s.Shipping.Equal(decimal.RequireFromString(tt.shipping)), s.Shipping.String())
			assert.True(t, s.FreeShippingRemaining.Equal(decimal.RequireFromString(tt.remaining)), s.FreeShippingRemaining.String())
			assert.True(t, s.Tax.Equal(decimal.RequireFromString(tt.tax)), s.Tax.String())
			assert.True(t, s.Total.Equal(decimal.RequireFromString(tt.total)), s.Total.String())
		})
	}
}

func TestSummaryUsesLineTotals(t *testing.T) {
	c := New("c")
	c.Add(item("p1", "", "89.99", 2))
	c.Add(item("p2", "", "49.99", 1))

	s := c.Summary()
	assert.Equal(t, "229.97", s.Subtotal.StringFixed(2))
	assert.Equal(t, "18.40", s.Tax.StringFixed(2))
	assert.Equal(t, "248.37", s.Total.StringFixed(2))
}
