package rest

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fekuna/frameshop-storefront/internal/catalog"
	"github.com/shopspring/decimal"
)

// Encode renders a query in PostgREST's URL dialect: one parameter per
// predicate, a comma-separated order list and limit/offset.
func Encode(q catalog.Query) (url.Values, error) {
	v := url.Values{}

	if len(q.Columns) > 0 {
		v.Set("select", strings.Join(q.Columns, ","))
	} else {
		v.Set("select", "*")
	}

	for _, p := range q.Predicates {
		switch p.Op {
		case catalog.OpEq:
			v.Add(p.Field, "eq."+formatValue(p.Value))
		case catalog.OpIn:
			items := make([]string, len(p.Values))
			for i, item := range p.Values {
				items[i] = quote(formatValue(item))
			}
			v.Add(p.Field, "in.("+strings.Join(items, ",")+")")
		case catalog.OpBetween:
			if p.Lower != nil {
				v.Add(p.Field, "gte."+formatValue(p.Lower))
			}
			if p.Upper != nil {
				v.Add(p.Field, "lte."+formatValue(p.Upper))
			}
		case catalog.OpContains:
			term := strings.ReplaceAll(formatValue(p.Value), "*", "")
			v.Add(p.Field, "ilike.*"+term+"*")
		default:
			return nil, fmt.Errorf("unsupported operator %q on %s", p.Op, p.Field)
		}
	}

	if len(q.Orderings) > 0 {
		parts := make([]string, len(q.Orderings))
		for i, o := range q.Orderings {
			dir := "asc"
			if o.Descending {
				dir = "desc"
			}
			parts[i] = o.Field + "." + dir
		}
		v.Set("order", strings.Join(parts, ","))
	}

	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	return v, nil
}

func formatValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case decimal.Decimal:
		return t.String()
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// quote wraps a list member in double quotes so reserved characters such as
// commas and parentheses survive inside in.(...).
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
