package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	CategoryID  *string         `db:"category_id" json:"category_id"` // Nullable
	Name        string          `db:"name" json:"name"`
	Description *string         `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	ImageURL    *string         `db:"image_url" json:"image_url"`
	Material    *string         `db:"material" json:"material"`
	Dimensions  *string         `db:"dimensions" json:"dimensions"`
	Stock       int             `db:"stock" json:"stock"`
	IsActive    bool            `db:"is_active" json:"is_active"`
	IsFeatured  bool            `db:"is_featured" json:"is_featured"`
}

// LowStockThreshold marks products the admin overview flags for restocking.
const LowStockThreshold = 30

func (p *Product) LowStock() bool {
	return p.Stock < LowStockThreshold
}

// SizeOption is one purchasable frame size of a product.
type SizeOption struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Dimensions string          `json:"dimensions"`
	Price      decimal.Decimal `json:"price"`
}
