package rewrite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tenantql/go-sql-rewriter/sql/ast"
	"github.com/tenantql/go-sql-rewriter/sql/parse"
)

func col(name string) ast.Expr {
	return ast.NewIdentifier(name)
}

func str(raw string) ast.Expr {
	return ast.NewString(raw)
}

func num(v string) ast.Expr {
	return ast.NewNumber(v)
}

func now() ast.Expr {
	return ast.NewFunctionCall("now")
}

func cmp(left ast.Expr, op string, right ast.Expr) ast.Expr {
	return ast.NewComparison(left, op, right)
}

func star() []*ast.SelectItem {
	return []*ast.SelectItem{ast.NewSelectItem(ast.NewStar(""), "")}
}

func selectFrom(table string, where ast.Expr) *ast.Select {
	return ast.NewSelect(star(), ast.NewTable(table, "")).WithWhere(where)
}

func logs(where ast.Expr) *ast.Select {
	return selectFrom("logs", where)
}

func events(where ast.Expr) *ast.Select {
	return ast.NewSelect(
		[]*ast.SelectItem{ast.NewSelectItem(col("id"), "")},
		ast.NewTable("events", ""),
	).WithWhere(where)
}

func mustParse(t *testing.T, query string) *ast.Select {
	t.Helper()
	q, err := parse.Parse(context.Background(), query)
	require.NoError(t, err)
	return q.Select
}
