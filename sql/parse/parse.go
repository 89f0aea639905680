package parse // import "github.com/tenantql/go-sql-rewriter/sql/parse"

import (
	"context"
	"fmt"
	"strings"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	errors "gopkg.in/src-d/go-errors.v1"
	"gopkg.in/src-d/go-vitess.v0/vt/sqlparser"

	"github.com/tenantql/go-sql-rewriter/sql/ast"
)

var (
	// ErrParse is returned when the query text is not valid SQL.
	ErrParse = errors.NewKind("unable to parse query: %s")

	// ErrUnsupportedQueryShape is returned when the query is valid SQL but
	// is not a single SELECT statement.
	ErrUnsupportedQueryShape = errors.NewKind("unsupported query shape: %s")

	// ErrUnsupportedSyntax is returned when a part of a SELECT statement
	// cannot be represented.
	ErrUnsupportedSyntax = errors.NewKind("unsupported syntax: %s")
)

// Parse parses the given SQL sentence and returns the corresponding query.
//
// Comments, optimizer hints and locking clauses of the statement are not
// kept. The query is refused with ErrUnsupportedSyntax when printing it back
// would not give the same tree.
func Parse(ctx context.Context, query string) (*ast.Query, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "parse", opentracing.Tag{Key: "query", Value: query})
	defer span.Finish()

	s := strings.TrimSpace(query)
	if strings.HasSuffix(s, ";") {
		s = strings.TrimSpace(s[:len(s)-1])
	}

	if s == "" {
		logrus.WithField("query", query).Debug("refusing to parse empty query")
		return nil, ErrUnsupportedQueryShape.New("empty query")
	}

	q, err := parse(s)
	if err != nil {
		return nil, err
	}

	if err := checkRoundTrip(q); err != nil {
		logrus.WithField("query", query).Debugf("refusing query: %s", err)
		return nil, err
	}

	return q, nil
}

func parse(s string) (*ast.Query, error) {
	stmt, err := sqlparser.Parse(s)
	if err != nil {
		return nil, ErrParse.Wrap(err, s)
	}

	return convert(stmt)
}

// checkRoundTrip parses the printed form of q again and makes sure it
// describes the same tree, so no name or literal of the query can change
// meaning once rewritten.
func checkRoundTrip(q *ast.Query) error {
	printed := q.String()
	reparsed, err := parse(printed)
	if err != nil {
		return ErrUnsupportedSyntax.New(printed)
	}

	same, err := ast.Equal(q, reparsed)
	if err != nil {
		return err
	}

	if !same {
		return ErrUnsupportedSyntax.New(printed)
	}
	return nil
}

func convert(stmt sqlparser.Statement) (*ast.Query, error) {
	switch n := stmt.(type) {
	default:
		return nil, ErrUnsupportedQueryShape.New(fmt.Sprintf("%T", n))
	case *sqlparser.Select:
		s, err := convertSelect(n)
		if err != nil {
			return nil, err
		}
		return ast.NewQuery(s), nil
	}
}

func convertSelect(s *sqlparser.Select) (*ast.Select, error) {
	projections, err := selectExprsToItems(s.SelectExprs)
	if err != nil {
		return nil, err
	}

	from, err := tableExprsToTables(s.From)
	if err != nil {
		return nil, err
	}

	node := &ast.Select{
		Distinct:    s.Distinct != "",
		Projections: projections,
		From:        from,
	}

	if s.Where != nil {
		node.Where, err = exprToExpression(s.Where.Expr)
		if err != nil {
			return nil, err
		}
	}

	if len(s.GroupBy) > 0 {
		exprs, err := exprsToExpressions(s.GroupBy)
		if err != nil {
			return nil, err
		}
		node.GroupBy = ast.NewGroupBy(exprs...)
	}

	if s.Having != nil {
		node.Having, err = exprToExpression(s.Having.Expr)
		if err != nil {
			return nil, err
		}
	}

	if len(s.OrderBy) > 0 {
		node.OrderBy, err = orderByToOrderBy(s.OrderBy)
		if err != nil {
			return nil, err
		}
	}

	if s.Limit != nil {
		node.Limit, err = limitToLimit(s.Limit)
		if err != nil {
			return nil, err
		}
	}

	return node, nil
}

func selectExprsToItems(se sqlparser.SelectExprs) ([]*ast.SelectItem, error) {
	items := make([]*ast.SelectItem, len(se))
	for i, e := range se {
		switch e := e.(type) {
		default:
			return nil, ErrUnsupportedSyntax.New(sqlparser.String(e))
		case *sqlparser.StarExpr:
			items[i] = ast.NewSelectItem(&ast.Star{Table: tableName(e.TableName)}, "")
		case *sqlparser.AliasedExpr:
			expr, err := exprToExpression(e.Expr)
			if err != nil {
				return nil, err
			}
			items[i] = ast.NewSelectItem(expr, e.As.String())
		}
	}

	return items, nil
}

func tableExprsToTables(te sqlparser.TableExprs) ([]ast.TableExpr, error) {
	tables := make([]ast.TableExpr, len(te))
	for i, t := range te {
		table, err := tableExprToTable(t)
		if err != nil {
			return nil, err
		}
		tables[i] = table
	}

	return tables, nil
}

func tableExprToTable(te sqlparser.TableExpr) (ast.TableExpr, error) {
	t, ok := te.(*sqlparser.AliasedTableExpr)
	if !ok || t.Hints != nil {
		return ast.NewOpaqueTable(te), nil
	}

	switch e := t.Expr.(type) {
	case sqlparser.TableName:
		return ast.NewQualifiedTable(e.Qualifier.String(), e.Name.String(), t.As.String()), nil
	case *sqlparser.Subquery:
		sel, ok := e.Select.(*sqlparser.Select)
		if !ok {
			return ast.NewOpaqueTable(te), nil
		}

		s, err := convertSelect(sel)
		if err != nil {
			return nil, err
		}
		return ast.NewDerivedTable(s, t.As.String()), nil
	default:
		return ast.NewOpaqueTable(te), nil
	}
}

func tableName(t sqlparser.TableName) ast.TableName {
	return ast.TableName{Qualifier: t.Qualifier.String(), Name: t.Name.String()}
}

func orderByToOrderBy(ob sqlparser.OrderBy) (*ast.OrderBy, error) {
	items := make([]*ast.OrderItem, len(ob))
	for i, o := range ob {
		e, err := exprToExpression(o.Expr)
		if err != nil {
			return nil, err
		}
		items[i] = ast.NewOrderItem(e, o.Direction)
	}

	return ast.NewOrderBy(items...), nil
}

func limitToLimit(l *sqlparser.Limit) (*ast.Limit, error) {
	var offset ast.Expr
	if l.Offset != nil {
		var err error
		offset, err = exprToExpression(l.Offset)
		if err != nil {
			return nil, err
		}
	}

	count, err := exprToExpression(l.Rowcount)
	if err != nil {
		return nil, err
	}

	return ast.NewLimit(offset, count), nil
}

func exprsToExpressions(exprs []sqlparser.Expr) ([]ast.Expr, error) {
	result := make([]ast.Expr, len(exprs))
	for i, e := range exprs {
		expr, err := exprToExpression(e)
		if err != nil {
			return nil, err
		}
		result[i] = expr
	}

	return result, nil
}

// exprToExpression converts the expressions the rewrite passes know about
// and wraps everything else in an opaque node.
func exprToExpression(e sqlparser.Expr) (ast.Expr, error) {
	switch v := e.(type) {
	default:
		return ast.NewOpaque(e), nil
	case *sqlparser.ParenExpr:
		return exprToExpression(v.Expr)
	case *sqlparser.AndExpr:
		lhs, err := exprToExpression(v.Left)
		if err != nil {
			return nil, err
		}

		rhs, err := exprToExpression(v.Right)
		if err != nil {
			return nil, err
		}

		return ast.NewAnd(lhs, rhs), nil
	case *sqlparser.OrExpr:
		lhs, err := exprToExpression(v.Left)
		if err != nil {
			return nil, err
		}

		rhs, err := exprToExpression(v.Right)
		if err != nil {
			return nil, err
		}

		return ast.NewOr(lhs, rhs), nil
	case *sqlparser.ComparisonExpr:
		return comparisonExprToExpression(v)
	case *sqlparser.RangeCond:
		return rangeCondToExpression(v)
	case *sqlparser.ColName:
		return &ast.Identifier{Table: tableName(v.Qualifier), Name: v.Name.String()}, nil
	case *sqlparser.FuncExpr:
		return funcExprToExpression(v)
	case *sqlparser.SQLVal:
		switch v.Type {
		case sqlparser.StrVal:
			return ast.NewString(string(v.Val)), nil
		case sqlparser.IntVal, sqlparser.FloatVal:
			return ast.NewNumber(string(v.Val)), nil
		default:
			return ast.NewOpaque(e), nil
		}
	}
}

func comparisonExprToExpression(c *sqlparser.ComparisonExpr) (ast.Expr, error) {
	if c.Escape != nil {
		return ast.NewOpaque(c), nil
	}

	left, err := exprToExpression(c.Left)
	if err != nil {
		return nil, err
	}

	switch c.Operator {
	case sqlparser.InStr, sqlparser.NotInStr:
		not := c.Operator == sqlparser.NotInStr
		switch r := c.Right.(type) {
		case sqlparser.ValTuple:
			values, err := exprsToExpressions(r)
			if err != nil {
				return nil, err
			}

			in := ast.NewInList(left, values...)
			in.Not = not
			return in, nil
		case *sqlparser.Subquery:
			sel, ok := r.Select.(*sqlparser.Select)
			if !ok {
				return ast.NewOpaque(c), nil
			}

			s, err := convertSelect(sel)
			if err != nil {
				return nil, err
			}

			in := ast.NewInSubquery(left, s)
			in.Not = not
			return in, nil
		default:
			return ast.NewOpaque(c), nil
		}
	}

	right, err := exprToExpression(c.Right)
	if err != nil {
		return nil, err
	}

	return ast.NewComparison(left, c.Operator, right), nil
}

func rangeCondToExpression(r *sqlparser.RangeCond) (ast.Expr, error) {
	if r.Operator != sqlparser.BetweenStr && r.Operator != sqlparser.NotBetweenStr {
		return ast.NewOpaque(r), nil
	}

	left, err := exprToExpression(r.Left)
	if err != nil {
		return nil, err
	}

	lower, err := exprToExpression(r.From)
	if err != nil {
		return nil, err
	}

	upper, err := exprToExpression(r.To)
	if err != nil {
		return nil, err
	}

	between := ast.NewBetween(left, lower, upper)
	between.Not = r.Operator == sqlparser.NotBetweenStr
	return between, nil
}

func funcExprToExpression(f *sqlparser.FuncExpr) (ast.Expr, error) {
	args := make([]ast.Expr, len(f.Exprs))
	for i, se := range f.Exprs {
		switch e := se.(type) {
		case *sqlparser.StarExpr:
			args[i] = &ast.Star{Table: tableName(e.TableName)}
		case *sqlparser.AliasedExpr:
			if !e.As.IsEmpty() {
				return ast.NewOpaque(f), nil
			}

			arg, err := exprToExpression(e.Expr)
			if err != nil {
				return nil, err
			}
			args[i] = arg
		default:
			return ast.NewOpaque(f), nil
		}
	}

	call := ast.NewFunctionCall(f.Name.String(), args...)
	call.Qualifier = f.Qualifier.String()
	call.Distinct = f.Distinct
	return call, nil
}
