package catalog

// ComposeProducts translates a FilterState into the storefront product query.
// Only active products are ever returned; an empty selection set leaves that
// dimension unconstrained.
func ComposeProducts(f FilterState) Query {
	q := NewQuery(CollectionProducts).Where(Eq(FieldActive, true))

	if !f.Categories.Empty() {
		q = q.Where(In(FieldCategoryID, f.Categories.Values()...))
	}
	if !f.Materials.Empty() {
		q = q.Where(In(FieldMaterial, f.Materials.Values()...))
	}
	if !f.Sizes.Empty() {
		q = q.Where(In(FieldDimensions, f.Sizes.Values()...))
	}
	if p, ok := pricePredicate(f.Price); ok {
		q = q.Where(p)
	}

	return q.OrderBy(OrderingFor(f.Sort)...)
}

// OrderingFor returns the ordering rule of a sort key. Ties are left to the backend.
func OrderingFor(key SortKey) []Ordering {
	switch ParseSortKey(string(key)) {
	case SortNewest:
		return []Ordering{Desc(FieldCreatedAt)}
	case SortPriceLow:
		return []Ordering{Asc(FieldPrice)}
	case SortPriceHigh:
		return []Ordering{Desc(FieldPrice)}
	default:
		return []Ordering{Desc(FieldFeatured), Desc(FieldCreatedAt)}
	}
}

func pricePredicate(r PriceRange) (Predicate, bool) {
	if r.IsFull() {
		return Predicate{}, false
	}
	var lower, upper interface{}
	if r.Min.GreaterThan(PriceFloor) {
		lower = r.Min
	}
	if r.Max.LessThan(PriceCeiling) {
		upper = r.Max
	}
	return Between(FieldPrice, lower, upper), true
}

// CategoriesQuery lists categories in display order.
func CategoriesQuery() Query {
	return NewQuery(CollectionCategories).OrderBy(Asc(FieldOrder))
}
