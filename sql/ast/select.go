package ast

import (
	"strings"
)

// Sort directions of an OrderItem.
const (
	Ascending  = "asc"
	Descending = "desc"
)

// Select is a single SELECT statement.
type Select struct {
	Distinct    bool
	Projections []*SelectItem
	From        []TableExpr
	// Where is nil when the statement has no filter.
	Where   Expr
	GroupBy *GroupBy
	Having  Expr
	OrderBy *OrderBy
	Limit   *Limit
}

// NewSelect creates a new Select with the given projections and sources.
func NewSelect(projections []*SelectItem, from ...TableExpr) *Select {
	return &Select{Projections: projections, From: from}
}

// WithWhere returns a copy of the select with its filter replaced.
func (s *Select) WithWhere(where Expr) *Select {
	ns := *s
	ns.Where = where
	return &ns
}

// WithProjections returns a copy of the select with its projection list
// replaced.
func (s *Select) WithProjections(items ...*SelectItem) *Select {
	ns := *s
	ns.Projections = items
	return &ns
}

// WithOrderBy returns a copy of the select with its order replaced. A nil
// order removes the clause.
func (s *Select) WithOrderBy(o *OrderBy) *Select {
	ns := *s
	ns.OrderBy = o
	return &ns
}

func (s *Select) String() string {
	var buf strings.Builder
	buf.WriteString("select ")
	if s.Distinct {
		buf.WriteString("distinct ")
	}

	items := make([]string, len(s.Projections))
	for i, p := range s.Projections {
		items[i] = p.String()
	}
	buf.WriteString(join(items, ", "))

	if len(s.From) > 0 {
		from := make([]string, len(s.From))
		for i, t := range s.From {
			from[i] = t.String()
		}
		buf.WriteString(" from ")
		buf.WriteString(join(from, ", "))
	}

	if s.Where != nil {
		buf.WriteString(" where ")
		buf.WriteString(s.Where.String())
	}

	if s.GroupBy != nil {
		buf.WriteString(" ")
		buf.WriteString(s.GroupBy.String())
	}

	if s.Having != nil {
		buf.WriteString(" having ")
		buf.WriteString(s.Having.String())
	}

	if s.OrderBy != nil {
		buf.WriteString(" ")
		buf.WriteString(s.OrderBy.String())
	}

	if s.Limit != nil {
		buf.WriteString(" ")
		buf.WriteString(s.Limit.String())
	}

	return buf.String()
}

func (*Select) node() {}

// SelectItem is an entry of a projection list.
type SelectItem struct {
	Expr  Expr
	Alias string
}

// NewSelectItem creates a new projection entry. An empty alias means the
// entry is not aliased.
func NewSelectItem(e Expr, alias string) *SelectItem {
	return &SelectItem{Expr: e, Alias: alias}
}

// IsWildcard reports whether the entry is a `*` or `table.*` projection.
func (i *SelectItem) IsWildcard() bool {
	_, ok := i.Expr.(*Star)
	return ok
}

// Value returns `*` for wildcards, the column name for column references
// and the alias for anything else. Names are returned unquoted.
func (i *SelectItem) Value() string {
	switch e := i.Expr.(type) {
	case *Star:
		return "*"
	case *Identifier:
		return e.Name
	default:
		return i.Alias
	}
}

func (i *SelectItem) String() string {
	if i.Alias == "" {
		return i.Expr.String()
	}
	return i.Expr.String() + " as " + FormatName(i.Alias)
}

func (*SelectItem) node() {}

// Table is a named table in a FROM clause.
type Table struct {
	TableName
	Alias string
}

// NewTable creates a new unqualified table reference.
func NewTable(name, alias string) *Table {
	return NewQualifiedTable("", name, alias)
}

// NewQualifiedTable creates a new table reference within a database.
func NewQualifiedTable(qualifier, name, alias string) *Table {
	return &Table{TableName: TableName{Qualifier: qualifier, Name: name}, Alias: alias}
}

func (t *Table) String() string {
	if t.Alias == "" {
		return t.TableName.String()
	}
	return t.TableName.String() + " as " + FormatName(t.Alias)
}

func (*Table) node()          {}
func (*Table) tableExprNode() {}

// DerivedTable is a select used as a source in a FROM clause.
type DerivedTable struct {
	Select *Select
	Alias  string
}

// NewDerivedTable creates a new derived table. An empty alias leaves the
// table anonymous.
func NewDerivedTable(s *Select, alias string) *DerivedTable {
	return &DerivedTable{Select: s, Alias: alias}
}

func (t *DerivedTable) String() string {
	s := "(" + t.Select.String() + ")"
	if t.Alias == "" {
		return s
	}
	return s + " as " + FormatName(t.Alias)
}

func (*DerivedTable) node()          {}
func (*DerivedTable) tableExprNode() {}

// GroupBy is a GROUP BY clause.
type GroupBy struct {
	Exprs []Expr
}

// NewGroupBy creates a new GROUP BY clause.
func NewGroupBy(exprs ...Expr) *GroupBy {
	return &GroupBy{Exprs: exprs}
}

func (g *GroupBy) String() string {
	return "group by " + join(exprStrings(g.Exprs), ", ")
}

func (*GroupBy) node() {}

// OrderItem is a single sort key.
type OrderItem struct {
	Expr Expr
	// Direction is Ascending, Descending or empty.
	Direction string
}

// NewOrderItem creates a new sort key.
func NewOrderItem(e Expr, direction string) *OrderItem {
	return &OrderItem{Expr: e, Direction: direction}
}

func (o *OrderItem) String() string {
	if o.Direction == "" {
		return o.Expr.String()
	}
	return o.Expr.String() + " " + o.Direction
}

func (*OrderItem) node() {}

// OrderBy is an ORDER BY clause.
type OrderBy struct {
	Items []*OrderItem
}

// NewOrderBy creates a new ORDER BY clause.
func NewOrderBy(items ...*OrderItem) *OrderBy {
	return &OrderBy{Items: items}
}

func (o *OrderBy) String() string {
	items := make([]string, len(o.Items))
	for i, item := range o.Items {
		items[i] = item.String()
	}
	return "order by " + join(items, ", ")
}

func (*OrderBy) node() {}

// Limit is a LIMIT clause. Offset is nil when absent.
type Limit struct {
	Offset Expr
	Count  Expr
}

// NewLimit creates a new LIMIT clause.
func NewLimit(offset, count Expr) *Limit {
	return &Limit{Offset: offset, Count: count}
}

func (l *Limit) String() string {
	if l.Offset == nil {
		return "limit " + l.Count.String()
	}
	return "limit " + l.Offset.String() + ", " + l.Count.String()
}

func (*Limit) node() {}
