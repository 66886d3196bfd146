package model

import "github.com/shopspring/decimal"

type CartItem struct {
	ID       string          `json:"id"` // product id
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	ImageURL string          `json:"image"`
	Size     string          `json:"size"`
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
