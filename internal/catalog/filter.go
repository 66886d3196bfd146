package catalog

import (
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"
)

// SortKey selects the single ordering rule applied to a product query.
type SortKey string

const (
	SortPopularity SortKey = "popularity"
	SortNewest     SortKey = "newest"
	SortPriceLow   SortKey = "price-low"
	SortPriceHigh  SortKey = "price-high"
)

// ParseSortKey falls back to popularity for empty or unknown input.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortNewest, SortPriceLow, SortPriceHigh:
		return SortKey(s)
	}
	return SortPopularity
}

// Price slider bounds. A range equal to the bounds does not constrain a query.
var (
	PriceFloor   = decimal.Zero
	PriceCeiling = decimal.NewFromInt(500)
)

type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

func FullPriceRange() PriceRange {
	return PriceRange{Min: PriceFloor, Max: PriceCeiling}
}

// IsFull reports whether the range covers the whole slider.
func (r PriceRange) IsFull() bool {
	return r.Min.LessThanOrEqual(PriceFloor) && r.Max.GreaterThanOrEqual(PriceCeiling)
}

// Set is an unordered set of selection labels or identifiers.
type Set map[string]struct{}

func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s Set) Empty() bool {
	return len(s) == 0
}

// Values returns the members in sorted order so composed queries are deterministic.
func (s Set) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s Set) Clone() Set {
	out := make(Set, len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}

func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

func (s *Set) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = NewSet(values...)
	return nil
}

// toggle adds v when absent and removes it when present.
func (s *Set) toggle(v string) {
	if *s == nil {
		*s = Set{}
	}
	if s.Has(v) {
		delete(*s, v)
		return
	}
	(*s)[v] = struct{}{}
}

// FilterState is the set of catalog narrowing criteria chosen in one shop view.
type FilterState struct {
	Categories Set        `json:"categories"`
	Materials  Set        `json:"materials"`
	Sizes      Set        `json:"sizes"`
	Price      PriceRange `json:"price"`
	Sort       SortKey    `json:"sort"`
}

func NewFilterState() FilterState {
	return FilterState{
		Categories: Set{},
		Materials:  Set{},
		Sizes:      Set{},
		Price:      FullPriceRange(),
		Sort:       SortPopularity,
	}
}

func (f *FilterState) ToggleCategory(id string) { f.Categories.toggle(id) }
func (f *FilterState) ToggleMaterial(m string)  { f.Materials.toggle(m) }
func (f *FilterState) ToggleSize(s string)      { f.Sizes.toggle(s) }

// SetPriceRange clamps both bounds to the slider and swaps them when inverted,
// so Min <= Max always holds.
func (f *FilterState) SetPriceRange(min, max decimal.Decimal) {
	min = clamp(min)
	max = clamp(max)
	if min.GreaterThan(max) {
		min, max = max, min
	}
	f.Price = PriceRange{Min: min, Max: max}
}

func (f *FilterState) SetSort(key SortKey) {
	f.Sort = ParseSortKey(string(key))
}

func (f *FilterState) Reset() {
	*f = NewFilterState()
}

func (f FilterState) Clone() FilterState {
	out := f
	out.Categories = f.Categories.Clone()
	out.Materials = f.Materials.Clone()
	out.Sizes = f.Sizes.Clone()
	return out
}

func clamp(v decimal.Decimal) decimal.Decimal {
	if v.LessThan(PriceFloor) {
		return PriceFloor
	}
	if v.GreaterThan(PriceCeiling) {
		return PriceCeiling
	}
	return v
}
