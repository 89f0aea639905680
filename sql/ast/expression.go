package ast

// And is the conjunction of two boolean expressions.
type And struct {
	Left  Expr
	Right Expr
}

// NewAnd creates a new And expression.
func NewAnd(left, right Expr) *And {
	return &And{Left: left, Right: right}
}

func (a *And) String() string {
	var left string
	if _, ok := a.Left.(*And); ok {
		left = a.Left.String()
	} else {
		left = operand(a.Left)
	}
	return left + " and " + operand(a.Right)
}

func (*And) node()     {}
func (*And) exprNode() {}

// Or is the disjunction of two boolean expressions.
type Or struct {
	Left  Expr
	Right Expr
}

// NewOr creates a new Or expression.
func NewOr(left, right Expr) *Or {
	return &Or{Left: left, Right: right}
}

func (o *Or) String() string {
	var left string
	switch o.Left.(type) {
	case *And, *Or:
		left = o.Left.String()
	default:
		left = operand(o.Left)
	}

	right := operand(o.Right)
	if _, ok := o.Right.(*And); ok {
		right = o.Right.String()
	}
	return left + " or " + right
}

func (*Or) node()     {}
func (*Or) exprNode() {}

// Comparison is a binary comparison such as `a = b` or `a >= b`.
type Comparison struct {
	Operator string
	Left     Expr
	Right    Expr
}

// NewComparison creates a new comparison.
func NewComparison(left Expr, operator string, right Expr) *Comparison {
	return &Comparison{Operator: operator, Left: left, Right: right}
}

func (c *Comparison) String() string {
	return term(c.Left) + " " + c.Operator + " " + term(c.Right)
}

func (*Comparison) node()     {}
func (*Comparison) exprNode() {}

// Between checks whether Left lies within the Lower and Upper bounds.
type Between struct {
	Not   bool
	Left  Expr
	Lower Expr
	Upper Expr
}

// NewBetween creates a new BETWEEN predicate.
func NewBetween(left, lower, upper Expr) *Between {
	return &Between{Left: left, Lower: lower, Upper: upper}
}

func (b *Between) String() string {
	op := " between "
	if b.Not {
		op = " not between "
	}
	return term(b.Left) + op + term(b.Lower) + " and " + term(b.Upper)
}

func (*Between) node()     {}
func (*Between) exprNode() {}

// InList checks whether Left is one of the listed values.
type InList struct {
	Not    bool
	Left   Expr
	Values []Expr
}

// NewInList creates a new IN predicate over a list of values.
func NewInList(left Expr, values ...Expr) *InList {
	return &InList{Left: left, Values: values}
}

func (i *InList) String() string {
	op := " in "
	if i.Not {
		op = " not in "
	}
	return term(i.Left) + op + "(" + join(exprStrings(i.Values), ", ") + ")"
}

func (*InList) node()     {}
func (*InList) exprNode() {}

// InSubquery checks whether Left is one of the rows returned by Select.
type InSubquery struct {
	Not    bool
	Left   Expr
	Select *Select
}

// NewInSubquery creates a new IN predicate over a subquery.
func NewInSubquery(left Expr, s *Select) *InSubquery {
	return &InSubquery{Left: left, Select: s}
}

// WithSelect returns a copy of the predicate over a different subquery.
func (i *InSubquery) WithSelect(s *Select) *InSubquery {
	ni := *i
	ni.Select = s
	return &ni
}

func (i *InSubquery) String() string {
	op := " in "
	if i.Not {
		op = " not in "
	}
	return term(i.Left) + op + "(" + i.Select.String() + ")"
}

func (*InSubquery) node()     {}
func (*InSubquery) exprNode() {}

// Identifier is a reference to a column. Table is empty for unqualified
// references.
type Identifier struct {
	Table TableName
	Name  string
}

// NewIdentifier creates a new unqualified Identifier.
func NewIdentifier(name string) *Identifier {
	return &Identifier{Name: name}
}

// NewQualifiedIdentifier creates a new Identifier qualified by a table, as
// in `t.col`.
func NewQualifiedIdentifier(table, name string) *Identifier {
	return &Identifier{Table: TableName{Name: table}, Name: name}
}

// IsQualified reports whether the reference names its table.
func (i *Identifier) IsQualified() bool {
	return !i.Table.IsEmpty()
}

func (i *Identifier) String() string {
	if !i.IsQualified() {
		return FormatName(i.Name)
	}
	return i.Table.String() + "." + FormatName(i.Name)
}

func (*Identifier) node()     {}
func (*Identifier) exprNode() {}

// FunctionCall is a call to a named function. Qualifier is the database of
// the function and is usually empty.
type FunctionCall struct {
	Qualifier string
	Name      string
	Distinct  bool
	Args      []Expr
}

// NewFunctionCall creates a new function call.
func NewFunctionCall(name string, args ...Expr) *FunctionCall {
	return &FunctionCall{Name: name, Args: args}
}

func (f *FunctionCall) String() string {
	var distinct string
	if f.Distinct {
		distinct = "distinct "
	}
	var qualifier string
	if f.Qualifier != "" {
		qualifier = FormatName(f.Qualifier) + "."
	}
	return qualifier + formatFunctionName(f.Name) + "(" + distinct + join(exprStrings(f.Args), ", ") + ")"
}

func (*FunctionCall) node()     {}
func (*FunctionCall) exprNode() {}

// Star is the `*` wildcard, optionally qualified by a table.
type Star struct {
	Table TableName
}

// NewStar creates a new wildcard. An empty table means an unqualified `*`.
func NewStar(table string) *Star {
	return &Star{Table: TableName{Name: table}}
}

func (s *Star) String() string {
	if s.Table.IsEmpty() {
		return "*"
	}
	return s.Table.String() + ".*"
}

func (*Star) node()     {}
func (*Star) exprNode() {}
