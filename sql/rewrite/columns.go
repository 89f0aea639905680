package rewrite

import "github.com/tenantql/go-sql-rewriter/sql/ast"

// Well-known column names the passes read and write.
const (
	TenantColumn    = "organization"
	TimestampColumn = "timestamp"
	DateColumn      = "date"
	CategoryColumn  = "type"
)

// Aliases of the projections built by the result shape rewriters.
const (
	CountAlias     = "count"
	HistogramAlias = "histogram"
)

// isColumn reports whether e is an unqualified reference to the column.
func isColumn(e ast.Expr, name string) bool {
	id, ok := e.(*ast.Identifier)
	return ok && !id.IsQualified() && id.Name == name
}
