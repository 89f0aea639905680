package rewrite

import "github.com/tenantql/go-sql-rewriter/sql/ast"

// Conjoin joins two predicates with AND, keeping their order. A nil
// predicate is ignored, so conjoining onto an absent filter returns the
// other predicate unchanged.
func Conjoin(lhs, rhs ast.Expr) ast.Expr {
	switch {
	case lhs == nil:
		return rhs
	case rhs == nil:
		return lhs
	default:
		return ast.NewAnd(lhs, rhs)
	}
}
