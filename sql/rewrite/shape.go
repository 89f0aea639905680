package rewrite

import (
	"github.com/spf13/cast"

	"github.com/tenantql/go-sql-rewriter/sql/ast"
)

// WrapAsAggregate returns a select counting the rows returned by sel.
func WrapAsAggregate(sel *ast.Select) *ast.Select {
	return ast.NewSelect(
		[]*ast.SelectItem{countItem()},
		ast.NewDerivedTable(sel, ""),
	)
}

// WrapAsCategoryCount returns a select counting the rows returned by sel per
// category.
func WrapAsCategoryCount(sel *ast.Select) *ast.Select {
	s := ast.NewSelect(
		[]*ast.SelectItem{
			countItem(),
			ast.NewSelectItem(ast.NewIdentifier(CategoryColumn), ""),
		},
		ast.NewDerivedTable(sel, ""),
	)
	s.GroupBy = ast.NewGroupBy(ast.NewIdentifier(CategoryColumn))
	return s
}

func countItem() *ast.SelectItem {
	return ast.NewSelectItem(ast.NewFunctionCall("count", ast.NewStar("")), CountAlias)
}

// ReplaceProjections returns a copy of the select projecting the given items
// instead. The order is dropped, as it may refer to columns that are no
// longer projected.
func ReplaceProjections(sel *ast.Select, items ...*ast.SelectItem) *ast.Select {
	return sel.WithProjections(items...).WithOrderBy(nil)
}

// Histogram describes a numeric histogram over a field.
type Histogram struct {
	Bins  int
	Field string
	// Weight is either a number or the name of a weight column. A nil, zero,
	// false or empty weight means every row weighs 1.
	Weight interface{}
}

func (h Histogram) weight() ast.Expr {
	w, err := cast.ToStringE(h.Weight)
	if err != nil {
		return ast.NewNumber("1")
	}

	switch w {
	case "", "0", "false":
		return ast.NewNumber("1")
	}

	if _, err := cast.ToFloat64E(w); err != nil {
		return ast.NewIdentifier(w)
	}
	return ast.NewNumber(w)
}

// BuildHistogram returns a copy of the select projecting only the histogram
// of its rows.
func BuildHistogram(sel *ast.Select, h Histogram) *ast.Select {
	return ReplaceProjections(sel, ast.NewSelectItem(
		ast.NewFunctionCall(
			"numeric_histogram",
			ast.NewNumber(cast.ToString(h.Bins)),
			ast.NewFunctionCall("to_unixtime", ast.NewIdentifier(h.Field)),
			h.weight(),
		),
		HistogramAlias,
	))
}

// EnsureDefaultOrder returns a copy of the select sorted by descending
// timestamp when it has no order of its own.
func EnsureDefaultOrder(sel *ast.Select) *ast.Select {
	if sel.OrderBy != nil {
		return sel
	}

	return sel.WithOrderBy(ast.NewOrderBy(
		ast.NewOrderItem(ast.NewIdentifier(TimestampColumn), ast.Descending),
	))
}
