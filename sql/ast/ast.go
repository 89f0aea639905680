// Package ast defines the closed set of nodes a query is represented with
// while it goes through the rewrite passes.
//
// Nodes are never modified once they are built. A pass that needs a
// different tree builds new nodes for the path it changes and shares every
// other subtree with its input.
package ast

import "strings"

// Node is implemented by every node of a query tree.
type Node interface {
	// String returns the SQL representation of the node.
	String() string
	node()
}

// Expr is a scalar or boolean expression.
type Expr interface {
	Node
	exprNode()
}

// TableExpr is an entry of a FROM clause.
type TableExpr interface {
	Node
	tableExprNode()
}

// Query is the root of a parsed statement. It always wraps exactly one
// Select.
type Query struct {
	Select *Select
}

// NewQuery creates a new Query wrapping the given select.
func NewQuery(s *Select) *Query {
	return &Query{Select: s}
}

// WithSelect returns a new query wrapping the given select.
func (q *Query) WithSelect(s *Select) *Query {
	nq := *q
	nq.Select = s
	return &nq
}

func (q *Query) String() string {
	if q == nil || q.Select == nil {
		return ""
	}
	return q.Select.String()
}

func (*Query) node() {}

func join(nodes []string, sep string) string {
	return strings.Join(nodes, sep)
}

func exprStrings(exprs []Expr) []string {
	s := make([]string, len(exprs))
	for i, e := range exprs {
		s[i] = e.String()
	}
	return s
}

// operand returns the representation of e, parenthesised when e is a
// boolean connective that would otherwise bind differently.
func operand(e Expr) string {
	switch e.(type) {
	case *And, *Or:
		return "(" + e.String() + ")"
	default:
		return e.String()
	}
}

// term returns the representation of e as the operand of a comparison,
// parenthesised unless e binds tighter than any comparison operator.
func term(e Expr) string {
	switch e := e.(type) {
	case *And, *Or, *Comparison, *Between, *InList, *InSubquery:
		return "(" + e.String() + ")"
	case *Opaque:
		if e.isPredicate() {
			return "(" + e.String() + ")"
		}
		return e.String()
	default:
		return e.String()
	}
}
