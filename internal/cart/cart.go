// Package cart holds the shopping cart and its pricing rules.
package cart

import (
	"fmt"
	"time"

	"github.com/fekuna/frameshop-storefront/internal/apperror"
	"github.com/fekuna/frameshop-storefront/internal/model"
	"github.com/shopspring/decimal"
)

var ErrItemNotFound = fmt.Errorf("cart item %w", apperror.ErrNotFound)

var (
	FreeShippingThreshold = decimal.NewFromInt(100)
	FlatShipping          = decimal.NewFromInt(15)
	TaxRate               = decimal.RequireFromString("0.08")
)

type Cart struct {
	ID        string           `json:"id"`
	Items     []model.CartItem `json:"items"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func New(id string) *Cart {
	return &Cart{ID: id, Items: []model.CartItem{}}
}

// Add merges item into the line with the same product and size, or appends a
// new line. Quantities below one count as one.
func (c *Cart) Add(item model.CartItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	if i := c.index(item.ID, item.Size); i >= 0 {
		c.Items[i].Quantity += item.Quantity
		return
	}
	c.Items = append(c.Items, item)
}

// UpdateQuantity adds change to a line's quantity, never going below one.
func (c *Cart) UpdateQuantity(id, size string, change int) error {
	i := c.index(id, size)
	if i < 0 {
		return ErrItemNotFound
	}
	q := c.Items[i].Quantity + change
	if q < 1 {
		q = 1
	}
	c.Items[i].Quantity = q
	return nil
}

func (c *Cart) Remove(id, size string) error {
	i := c.index(id, size)
	if i < 0 {
		return ErrItemNotFound
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return nil
}

func (c *Cart) Clear() {
	c.Items = []model.CartItem{}
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}

func (c *Cart) index(id, size string) int {
	for i, it := range c.Items {
		if it.ID == id && it.Size == size {
			return i
		}
	}
	return -1
}

// Summary is the priced view of a cart. Total includes tax.
type Summary struct {
	Subtotal              decimal.Decimal `json:"subtotal"`
	Shipping              decimal.Decimal `json:"shipping"`
	FreeShippingRemaining decimal.Decimal `json:"free_shipping_remaining"`
	Tax                   decimal.Decimal `json:"tax"`
	Total                 decimal.Decimal `json:"total"`
}

func (c *Cart) Summary() Summary {
	subtotal := decimal.Zero
	for _, it := range c.Items {
		subtotal = subtotal.Add(it.LineTotal())
	}
	return Price(subtotal)
}

// Price applies shipping and tax to a subtotal. Shipping is free strictly
// above the threshold.
func Price(subtotal decimal.Decimal) Summary {
	s := Summary{
		Subtotal:              subtotal,
		Shipping:              FlatShipping,
		FreeShippingRemaining: decimal.Zero,
	}
	if subtotal.GreaterThan(FreeShippingThreshold) {
		s.Shipping = decimal.Zero
	}
	if subtotal.LessThan(FreeShippingThreshold) {
		s.FreeShippingRemaining = FreeShippingThreshold.Sub(subtotal)
	}
	s.Tax = subtotal.Mul(TaxRate).Round(2)
	s.Total = subtotal.Add(s.Shipping).Add(s.Tax)
	return s
}
