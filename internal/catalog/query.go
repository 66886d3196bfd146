package catalog

// Collections exposed by the data backend.
const (
	CollectionProducts   = "products"
	CollectionCategories = "categories"
	CollectionOrders     = "orders"
	CollectionProfiles   = "profiles"
	CollectionSavedItems = "saved_items"
	CollectionUserRoles  = "user_roles"
)

// Product columns referenced by composed queries.
const (
	FieldID         = "id"
	FieldActive     = "is_active"
	FieldFeatured   = "is_featured"
	FieldCategoryID = "category_id"
	FieldMaterial   = "material"
	FieldDimensions = "dimensions"
	FieldPrice      = "price"
	FieldCreatedAt  = "created_at"
	FieldOrder      = "display_order"
	FieldSlug       = "slug"
	FieldUserID     = "user_id"
	FieldStatus     = "status"
)

type Op string

const (
	OpEq       Op = "eq"
	OpIn       Op = "in"
	OpBetween  Op = "between"
	OpContains Op = "contains" // case-insensitive substring match
)

// Predicate is one conjunct of a query's filter. For OpBetween a nil Lower or
// Upper leaves that side unbounded; both bounds are inclusive.
type Predicate struct {
	Field  string        `json:"field"`
	Op     Op            `json:"op"`
	Value  interface{}   `json:"value,omitempty"`
	Values []interface{} `json:"values,omitempty"`
	Lower  interface{}   `json:"lower,omitempty"`
	Upper  interface{}   `json:"upper,omitempty"`
}

func Eq(field string, value interface{}) Predicate {
	return Predicate{Field: field, Op: OpEq, Value: value}
}

func In(field string, values ...string) Predicate {
	vs := make([]interface{}, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return Predicate{Field: field, Op: OpIn, Values: vs}
}

func Between(field string, lower, upper interface{}) Predicate {
	return Predicate{Field: field, Op: OpBetween, Lower: lower, Upper: upper}
}

func Contains(field, term string) Predicate {
	return Predicate{Field: field, Op: OpContains, Value: term}
}

type Ordering struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

func Asc(field string) Ordering  { return Ordering{Field: field} }
func Desc(field string) Ordering { return Ordering{Field: field, Descending: true} }

// Query is a declarative description of a backend read.
// Zero Limit means no limit.
type Query struct {
	Collection string      `json:"collection"`
	Columns    []string    `json:"columns,omitempty"`
	Predicates []Predicate `json:"predicates"`
	Orderings  []Ordering  `json:"orderings"`
	Limit      int         `json:"limit,omitempty"`
	Offset     int         `json:"offset,omitempty"`
}

func NewQuery(collection string) Query {
	return Query{Collection: collection}
}

func (q Query) Where(p ...Predicate) Query {
	q.Predicates = append(append([]Predicate{}, q.Predicates...), p...)
	return q
}

func (q Query) OrderBy(o ...Ordering) Query {
	q.Orderings = append(append([]Ordering{}, q.Orderings...), o...)
	return q
}

func (q Query) Page(limit, offset int) Query {
	q.Limit = limit
	q.Offset = offset
	return q
}
