package ast

import "gopkg.in/src-d/go-vitess.v0/vt/sqlparser"

// Opaque carries a parsed expression that none of the rewrite passes
// understand. Passes leave it untouched and it is printed back as parsed.
type Opaque struct {
	Expr sqlparser.Expr
	SQL  string
}

// NewOpaque wraps a vitess expression.
func NewOpaque(e sqlparser.Expr) *Opaque {
	return &Opaque{Expr: e, SQL: sqlparser.String(e)}
}

// isPredicate reports whether the wrapped expression binds looser than a
// comparison operand.
func (o *Opaque) isPredicate() bool {
	switch o.Expr.(type) {
	case *sqlparser.AndExpr, *sqlparser.OrExpr, *sqlparser.NotExpr,
		*sqlparser.ComparisonExpr, *sqlparser.RangeCond, *sqlparser.IsExpr:
		return true
	default:
		return false
	}
}

func (o *Opaque) String() string { return o.SQL }

func (*Opaque) node()     {}
func (*Opaque) exprNode() {}

// OpaqueTable carries a FROM entry, such as a join, that is kept as parsed.
type OpaqueTable struct {
	Expr sqlparser.TableExpr
	SQL  string
}

// NewOpaqueTable wraps a vitess table expression.
func NewOpaqueTable(t sqlparser.TableExpr) *OpaqueTable {
	return &OpaqueTable{Expr: t, SQL: sqlparser.String(t)}
}

func (t *OpaqueTable) String() string { return t.SQL }

func (*OpaqueTable) node()          {}
func (*OpaqueTable) tableExprNode() {}
