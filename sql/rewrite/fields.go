package rewrite

import "github.com/tenantql/go-sql-rewriter/sql/ast"

// FieldIsProjected reports whether the select returns the named field,
// either explicitly or through a wildcard.
func FieldIsProjected(sel *ast.Select, name string) bool {
	for _, p := range sel.Projections {
		if p.IsWildcard() || p.Value() == name {
			return true
		}
	}
	return false
}
