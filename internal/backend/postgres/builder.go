package postgres

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/fekuna/frameshop-storefront/internal/catalog"
)

var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Only these tables may be addressed.
var collections = map[string]bool{
	catalog.CollectionProducts:   true,
	catalog.CollectionCategories: true,
	catalog.CollectionOrders:     true,
	catalog.CollectionProfiles:   true,
	catalog.CollectionSavedItems: true,
	catalog.CollectionUserRoles:  true,
}

func checkCollection(name string) error {
	if !collections[name] {
		return fmt.Errorf("unknown collection %q", name)
	}
	return nil
}

func checkIdent(name string) error {
	if !identifier.MatchString(name) {
		return fmt.Errorf("invalid column %q", name)
	}
	return nil
}

// BuildSelect renders q as a parameterised SELECT. Identifiers are validated,
// every value travels as a $n argument.
func BuildSelect(q catalog.Query) (string, []interface{}, error) {
	if err := checkCollection(q.Collection); err != nil {
		return "", nil, err
	}

	cols := "*"
	if len(q.Columns) > 0 {
		for _, c := range q.Columns {
			if err := checkIdent(c); err != nil {
				return "", nil, err
			}
		}
		cols = strings.Join(q.Columns, ", ")
	}

	var (
		conditions []string
		args       []interface{}
	)
	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	for _, p := range q.Predicates {
		if err := checkIdent(p.Field); err != nil {
			return "", nil, err
		}
		switch p.Op {
		case catalog.OpEq:
			conditions = append(conditions, fmt.Sprintf("%s = %s", p.Field, next(p.Value)))
		case catalog.OpIn:
			if len(p.Values) == 0 {
				conditions = append(conditions, "FALSE")
				continue
			}
			placeholders := make([]string, len(p.Values))
			for i, v := range p.Values {
				placeholders[i] = next(v)
			}
			conditions = append(conditions, fmt.Sprintf("%s IN (%s)", p.Field, strings.Join(placeholders, ", ")))
		case catalog.OpBetween:
			if p.Lower != nil {
				conditions = append(conditions, fmt.Sprintf("%s >= %s", p.Field, next(p.Lower)))
			}
			if p.Upper != nil {
				conditions = append(conditions, fmt.Sprintf("%s <= %s", p.Field, next(p.Upper)))
			}
		case catalog.OpContains:
			term, _ := p.Value.(string)
			conditions = append(conditions, fmt.Sprintf("%s ILIKE %s", p.Field, next("%"+likeEscaper.Replace(term)+"%")))
		default:
			return "", nil, fmt.Errorf("unsupported operator %q", p.Op)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", cols, q.Collection)
	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}

	if len(q.Orderings) > 0 {
		parts := make([]string, len(q.Orderings))
		for i, o := range q.Orderings {
			if err := checkIdent(o.Field); err != nil {
				return "", nil, err
			}
			if o.Descending {
				parts[i] = o.Field + " DESC"
			} else {
				parts[i] = o.Field + " ASC"
			}
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(parts, ", "))
	}

	if q.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.Limit)
	}
	if q.Offset > 0 {
		fmt.Fprintf(&sb, " OFFSET %d", q.Offset)
	}
	return sb.String(), args, nil
}

// BuildInsert renders INSERT ... RETURNING * for a column map. Columns are
// emitted in sorted order.
func BuildInsert(collection string, row catalog.Row) (string, []interface{}, error) {
	if err := checkCollection(collection); err != nil {
		return "", nil, err
	}
	cols, err := sortedColumns(row)
	if err != nil {
		return "", nil, err
	}
	if len(cols) == 0 {
		return fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING *", collection), nil, nil
	}

	args := make([]interface{}, len(cols))
	placeholders := make([]string, len(cols))
	for i, c := range cols {
		v, err := columnValue(row[c])
		if err != nil {
			return "", nil, err
		}
		args[i] = v
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		collection, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	return query, args, nil
}

// BuildUpdate renders UPDATE ... WHERE id = $n RETURNING *. updated_at is
// always refreshed by the database clock.
func BuildUpdate(collection, id string, patch catalog.Row) (string, []interface{}, error) {
	if err := checkCollection(collection); err != nil {
		return "", nil, err
	}
	cols, err := sortedColumns(patch)
	if err != nil {
		return "", nil, err
	}

	var (
		sets []string
		args []interface{}
	)
	for _, c := range cols {
		if c == catalog.FieldID || c == catalog.FieldCreatedAt || c == "updated_at" {
			continue
		}
		v, err := columnValue(patch[c])
		if err != nil {
			return "", nil, err
		}
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", c, len(args)))
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING *",
		collection, strings.Join(sets, ", "), len(args))
	return query, args, nil
}

func sortedColumns(row catalog.Row) ([]string, error) {
	cols := make([]string, 0, len(row))
	for c := range row {
		if err := checkIdent(c); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols, nil
}

// columnValue re-encodes nested objects for jsonb columns.
func columnValue(v interface{}) (interface{}, error) {
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(data), nil
	}
	return v, nil
}
