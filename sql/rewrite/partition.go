package rewrite

import "github.com/tenantql/go-sql-rewriter/sql/ast"

// MirrorDates returns a copy of the select where every predicate on the
// timestamp column is paired with the same predicate on the date partition
// column. Applying it twice mirrors the predicates twice.
func MirrorDates(sel *ast.Select) *ast.Select {
	if sel.Where == nil {
		return sel
	}
	return sel.WithWhere(mirrorExpr(sel.Where))
}

func mirrorExpr(e ast.Expr) ast.Expr {
	switch e := e.(type) {
	case *ast.And:
		return ast.NewAnd(mirrorExpr(e.Left), mirrorExpr(e.Right))
	case *ast.Or:
		return ast.NewOr(mirrorExpr(e.Left), mirrorPredicate(e.Right))
	case *ast.InSubquery:
		if e.Select == nil {
			return e
		}
		return e.WithSelect(MirrorDates(e.Select))
	default:
		return mirrorPredicate(e)
	}
}

// mirrorPredicate only mirrors e when it is itself a timestamp predicate.
func mirrorPredicate(e ast.Expr) ast.Expr {
	switch e := e.(type) {
	case *ast.Comparison:
		if !isColumn(e.Left, TimestampColumn) {
			return e
		}
		return Conjoin(e, ast.NewComparison(ast.NewIdentifier(DateColumn), e.Operator, partitionDate(e.Right)))
	case *ast.Between:
		if !isColumn(e.Left, TimestampColumn) {
			return e
		}
		return Conjoin(e, &ast.Between{
			Not:   e.Not,
			Left:  ast.NewIdentifier(DateColumn),
			Lower: partitionDate(e.Lower),
			Upper: partitionDate(e.Upper),
		})
	default:
		return e
	}
}

func partitionDate(e ast.Expr) ast.Expr {
	return ast.NewFunctionCall("to_iso8601", ast.NewFunctionCall("date", e))
}
