package catalog

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Row is a generic backend record keyed by column name.
type Row map[string]interface{}

// Apply evaluates q against rows the way the backend would: filter, order, then page.
// The input slice is not modified.
func Apply(q Query, rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if Match(r, q.Predicates) {
			out = append(out, r)
		}
	}
	Sort(out, q.Orderings)

	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return []Row{}
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out
}

// Match reports whether the row satisfies every predicate.
func Match(r Row, preds []Predicate) bool {
	for _, p := range preds {
		if !matchOne(r, p) {
			return false
		}
	}
	return true
}

func matchOne(r Row, p Predicate) bool {
	v, ok := r[p.Field]
	if !ok || v == nil {
		return false
	}
	switch p.Op {
	case OpEq:
		c, ok := Compare(v, p.Value)
		return ok && c == 0
	case OpIn:
		for _, want := range p.Values {
			if c, ok := Compare(v, want); ok && c == 0 {
				return true
			}
		}
		return false
	case OpBetween:
		if p.Lower != nil {
			if c, ok := Compare(v, p.Lower); !ok || c < 0 {
				return false
			}
		}
		if p.Upper != nil {
			if c, ok := Compare(v, p.Upper); !ok || c > 0 {
				return false
			}
		}
		return true
	case OpContains:
		s, ok := toString(v)
		term, tok := toString(p.Value)
		return ok && tok && strings.Contains(strings.ToLower(s), strings.ToLower(term))
	}
	return false
}

// Sort orders rows in place. Missing values sort after present ones for
// ascending orderings and before them for descending, like Postgres.
func Sort(rows []Row, orderings []Ordering) {
	if len(orderings) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range orderings {
			c := compareForSort(rows[i][o.Field], rows[j][o.Field])
			if c == 0 {
				continue
			}
			if o.Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compareForSort(a, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	c, ok := Compare(a, b)
	if !ok {
		return 0
	}
	return c
}

// Compare orders two scalar values. Booleans compare false < true, numeric
// values (including numeric strings) compare as decimals, RFC 3339 strings
// compare as instants and anything else compares as strings. ok is false when
// the values are of incomparable kinds.
func Compare(a, b interface{}) (int, bool) {
	if ab, ok := a.(bool); ok {
		bb, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case ab == bb:
			return 0, true
		case !ab:
			return -1, true
		default:
			return 1, true
		}
	}

	if ad, ok := toDecimal(a); ok {
		if bd, ok := toDecimal(b); ok {
			return ad.Cmp(bd), true
		}
	}

	if at, ok := toTime(a); ok {
		if bt, ok := toTime(b); ok {
			switch {
			case at.Before(bt):
				return -1, true
			case at.After(bt):
				return 1, true
			default:
				return 0, true
			}
		}
	}

	as, aok := toString(a)
	bs, bok := toString(b)
	if !aok || !bok {
		return 0, false
	}
	switch {
	case as < bs:
		return -1, true
	case as > bs:
		return 1, true
	default:
		return 0, true
	}
}

func toDecimal(v interface{}) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, true
	case *decimal.Decimal:
		if t == nil {
			return decimal.Decimal{}, false
		}
		return *t, true
	case float64:
		return decimal.NewFromFloat(t), true
	case float32:
		return decimal.NewFromFloat32(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	case int32:
		return decimal.NewFromInt32(t), true
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(t)
		return d, err == nil
	}
	return decimal.Decimal{}, false
}

func toTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		ts, err := time.Parse(time.RFC3339Nano, t)
		return ts, err == nil
	}
	return time.Time{}, false
}

func toString(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case fmt.Stringer:
		return t.String(), true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

// ToRows converts typed records into generic rows through their JSON form.
func ToRows(records interface{}) ([]Row, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
