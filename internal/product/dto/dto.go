package dto

import (
	"github.com/fekuna/frameshop-storefront/internal/catalog"
	"github.com/shopspring/decimal"
)

// ProductFilters narrows a product listing. Storefront listings always
// exclude inactive products; IncludeInactive is honoured for admin callers.
type ProductFilters struct {
	Categories      []string
	Materials       []string
	Sizes           []string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	Sort            string // popularity, newest, price-low, price-high
	SearchQuery     string
	IncludeInactive bool
	Page            int
	PageSize        int
}

// FilterState converts the listing filters into the shop's selection model.
func (f *ProductFilters) FilterState() catalog.FilterState {
	fs := catalog.NewFilterState()
	for _, c := range f.Categories {
		fs.Categories[c] = struct{}{}
	}
	for _, m := range f.Materials {
		fs.Materials[m] = struct{}{}
	}
	for _, s := range f.Sizes {
		fs.Sizes[s] = struct{}{}
	}
	min, max := catalog.PriceFloor, catalog.PriceCeiling
	if f.MinPrice != nil {
		min = *f.MinPrice
	}
	if f.MaxPrice != nil {
		max = *f.MaxPrice
	}
	fs.SetPriceRange(min, max)
	fs.SetSort(catalog.SortKey(f.Sort))
	return fs
}

func (f *ProductFilters) Offset() int {
	if f.Page < 1 || f.PageSize <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
