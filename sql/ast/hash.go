package ast

import (
	"fmt"

	"github.com/mitchellh/hashstructure"
)

// fingerprint is what gets hashed for every node: its kind, its own values
// and the hashes of its children, in order.
type fingerprint struct {
	Kind     string
	Fields   []interface{}
	Children []uint64
}

// Hash returns a fingerprint of the tree rooted at n. Two trees have the same
// fingerprint when they have the same node kinds, values and shape. A nil
// node hashes to zero.
func Hash(n Node) (uint64, error) {
	if isNil(n) {
		return 0, nil
	}

	fields, children := describe(n)
	fp := fingerprint{
		Kind:     fmt.Sprintf("%T", n),
		Fields:   fields,
		Children: make([]uint64, len(children)),
	}

	for i, c := range children {
		h, err := Hash(c)
		if err != nil {
			return 0, err
		}
		fp.Children[i] = h
	}

	return hashstructure.Hash(fp, nil)
}

// Equal reports whether both trees have the same fingerprint.
func Equal(a, b Node) (bool, error) {
	ha, err := Hash(a)
	if err != nil {
		return false, err
	}

	hb, err := Hash(b)
	if err != nil {
		return false, err
	}

	return ha == hb, nil
}

// describe returns the values held by n and its child nodes. Optional
// children are returned as nil and list lengths are part of the values, so
// that moving a node between lists changes the fingerprint.
func describe(n Node) ([]interface{}, []Node) {
	switch n := n.(type) {
	case *Query:
		return nil, []Node{selectNode(n.Select)}
	case *Select:
		children := []Node{n.Where, n.Having, groupByNode(n.GroupBy), orderByNode(n.OrderBy), limitNode(n.Limit)}
		for _, p := range n.Projections {
			children = append(children, p)
		}
		for _, t := range n.From {
			children = append(children, t)
		}
		return []interface{}{n.Distinct, int64(len(n.Projections)), int64(len(n.From))}, children
	case *SelectItem:
		return []interface{}{n.Alias}, []Node{n.Expr}
	case *Table:
		return []interface{}{n.Qualifier, n.Name, n.Alias}, nil
	case *DerivedTable:
		return []interface{}{n.Alias}, []Node{selectNode(n.Select)}
	case *GroupBy:
		return []interface{}{int64(len(n.Exprs))}, exprNodes(n.Exprs)
	case *OrderItem:
		return []interface{}{n.Direction}, []Node{n.Expr}
	case *OrderBy:
		children := make([]Node, len(n.Items))
		for i, item := range n.Items {
			children[i] = item
		}
		return []interface{}{int64(len(n.Items))}, children
	case *Limit:
		return nil, []Node{n.Offset, n.Count}
	case *And:
		return nil, []Node{n.Left, n.Right}
	case *Or:
		return nil, []Node{n.Left, n.Right}
	case *Comparison:
		return []interface{}{n.Operator}, []Node{n.Left, n.Right}
	case *Between:
		return []interface{}{n.Not}, []Node{n.Left, n.Lower, n.Upper}
	case *InList:
		return []interface{}{n.Not, int64(len(n.Values))}, append([]Node{n.Left}, exprNodes(n.Values)...)
	case *InSubquery:
		return []interface{}{n.Not}, []Node{n.Left, selectNode(n.Select)}
	case *Identifier:
		return []interface{}{n.Table.Qualifier, n.Table.Name, n.Name}, nil
	case *FunctionCall:
		return []interface{}{n.Qualifier, n.Name, n.Distinct, int64(len(n.Args))}, exprNodes(n.Args)
	case *Star:
		return []interface{}{n.Table.Qualifier, n.Table.Name}, nil
	case *String:
		return []interface{}{n.Value}, nil
	case *Number:
		return []interface{}{n.Value}, nil
	case *Opaque:
		return []interface{}{n.SQL}, nil
	case *OpaqueTable:
		return []interface{}{n.SQL}, nil
	default:
		panic(fmt.Sprintf("ast: unknown node %T", n))
	}
}

func exprNodes(exprs []Expr) []Node {
	nodes := make([]Node, len(exprs))
	for i, e := range exprs {
		nodes[i] = e
	}
	return nodes
}

// The helpers below keep typed nil pointers from turning into non-nil
// interface values.

func selectNode(s *Select) Node {
	if s == nil {
		return nil
	}
	return s
}

func groupByNode(g *GroupBy) Node {
	if g == nil {
		return nil
	}
	return g
}

func orderByNode(o *OrderBy) Node {
	if o == nil {
		return nil
	}
	return o
}

func limitNode(l *Limit) Node {
	if l == nil {
		return nil
	}
	return l
}

func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch n := n.(type) {
	case *Query:
		return n == nil
	case *Select:
		return n == nil
	}
	return false
}
