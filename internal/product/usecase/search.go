package usecase

import (
	"github.com/fekuna/frameshop-storefront/internal/catalog"
	"github.com/fekuna/frameshop-storefront/internal/product/dto"
	"github.com/shopspring/decimal"
)

// searchQuery builds the Elasticsearch request for a storefront search. It
// applies the same predicates and ordering as the backend query, so results
// only differ in how the text itself is matched.
func searchQuery(filters *dto.ProductFilters) map[string]interface{} {
	composed := catalog.ComposeProducts(filters.FilterState())

	filter := make([]map[string]interface{}, 0, len(composed.Predicates))
	for _, p := range composed.Predicates {
		if clause, ok := filterClause(p); ok {
			filter = append(filter, clause)
		}
	}

	sort := make([]map[string]interface{}, 0, len(composed.Orderings)+1)
	for _, o := range composed.Orderings {
		order := "asc"
		if o.Descending {
			order = "desc"
		}
		sort = append(sort, map[string]interface{}{o.Field: map[string]interface{}{"order": order}})
	}
	sort = append(sort, map[string]interface{}{"_score": map[string]interface{}{"order": "desc"}})

	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []map[string]interface{}{
					{
						"multi_match": map[string]interface{}{
							"query":     filters.SearchQuery,
							"fields":    []string{"name^3", "description", "material"},
							"fuzziness": "AUTO",
						},
					},
				},
				"filter": filter,
			},
		},
		"sort": sort,
		"from": filters.Offset(),
	}
	if filters.PageSize > 0 {
		q["size"] = filters.PageSize
	}
	return q
}

func filterClause(p catalog.Predicate) (map[string]interface{}, bool) {
	switch p.Op {
	case catalog.OpEq:
		return map[string]interface{}{"term": map[string]interface{}{p.Field: searchValue(p.Value)}}, true
	case catalog.OpIn:
		values := make([]interface{}, len(p.Values))
		for i, v := range p.Values {
			values[i] = searchValue(v)
		}
		return map[string]interface{}{"terms": map[string]interface{}{p.Field: values}}, true
	case catalog.OpBetween:
		bounds := map[string]interface{}{}
		if p.Lower != nil {
			bounds["gte"] = searchValue(p.Lower)
		}
		if p.Upper != nil {
			bounds["lte"] = searchValue(p.Upper)
		}
		if len(bounds) == 0 {
			return nil, false
		}
		return map[string]interface{}{"range": map[string]interface{}{p.Field: bounds}}, true
	}
	return nil, false
}

// searchValue sends decimals as numbers; price is mapped as a double.
func searchValue(v interface{}) interface{} {
	switch d := v.(type) {
	case decimal.Decimal:
		return d.InexactFloat64()
	case *decimal.Decimal:
		if d != nil {
			return d.InexactFloat64()
		}
	}
	return v
}
