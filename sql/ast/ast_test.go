package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectString(t *testing.T) {
	testCases := []struct {
		name     string
		node     Node
		expected string
	}{
		{
			"plain select",
			NewSelect(
				[]*SelectItem{NewSelectItem(NewStar(""), "")},
				NewTable("logs", ""),
			),
			"select * from logs",
		},
		{
			"full select",
			&Select{
				Distinct: true,
				Projections: []*SelectItem{
					NewSelectItem(NewIdentifier("a"), ""),
					NewSelectItem(NewFunctionCall("count", NewStar("")), "n"),
				},
				From:    []TableExpr{NewTable("logs", "l")},
				Where:   NewComparison(NewIdentifier("a"), ">", NewNumber("1")),
				GroupBy: NewGroupBy(NewIdentifier("a")),
				OrderBy: NewOrderBy(NewOrderItem(NewIdentifier("a"), Descending)),
				Limit:   NewLimit(nil, NewNumber("10")),
			},
			"select distinct a, count(*) as n from logs as l where a > 1 group by a order by a desc limit 10",
		},
		{
			"derived table",
			NewSelect(
				[]*SelectItem{NewSelectItem(NewFunctionCall("count", NewStar("")), "count")},
				NewDerivedTable(NewSelect(
					[]*SelectItem{NewSelectItem(NewStar(""), "")},
					NewTable("logs", ""),
				), ""),
			),
			"select count(*) as count from (select * from logs)",
		},
		{
			"limit with offset",
			NewLimit(NewNumber("5"), NewNumber("10")),
			"limit 5, 10",
		},
		{
			"qualified star",
			NewStar("l"),
			"l.*",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.node.String())
		})
	}
}

func TestExpressionString(t *testing.T) {
	a := NewComparison(NewIdentifier("a"), "=", NewNumber("1"))
	b := NewComparison(NewIdentifier("b"), "=", NewNumber("2"))
	c := NewComparison(NewIdentifier("c"), "=", NewNumber("3"))

	testCases := []struct {
		name     string
		expr     Expr
		expected string
	}{
		{"left nested and", NewAnd(NewAnd(a, b), c), "a = 1 and b = 2 and c = 3"},
		{"right nested and", NewAnd(a, NewAnd(b, c)), "a = 1 and (b = 2 and c = 3)"},
		{"or under and", NewAnd(NewOr(a, b), c), "(a = 1 or b = 2) and c = 3"},
		{"and under or", NewOr(NewAnd(a, b), c), "a = 1 and b = 2 or c = 3"},
		{"right nested or", NewOr(a, NewOr(b, c)), "a = 1 or (b = 2 or c = 3)"},
		{
			"between",
			NewBetween(NewIdentifier("timestamp"), NewFunctionCall("now"), NewNumber("2")),
			"`timestamp` between now() and 2",
		},
		{
			"not between",
			&Between{Not: true, Left: NewIdentifier("x"), Lower: NewNumber("1"), Upper: NewNumber("2")},
			"x not between 1 and 2",
		},
		{
			"in list",
			NewInList(NewIdentifier("organization"), NewString("A"), NewString("B")),
			"organization in ('A', 'B')",
		},
		{
			"not in subquery",
			&InSubquery{
				Not:  true,
				Left: NewIdentifier("id"),
				Select: NewSelect(
					[]*SelectItem{NewSelectItem(NewIdentifier("id"), "")},
					NewTable("events", ""),
				),
			},
			"id not in (select id from events)",
		},
		{
			"comparison operand",
			NewComparison(NewComparison(NewIdentifier("a"), "=", NewNumber("1")), "=", NewNumber("0")),
			"(a = 1) = 0",
		},
		{
			"in list over comparison",
			NewInList(NewComparison(NewIdentifier("a"), "=", NewNumber("1")), NewNumber("1")),
			"(a = 1) in (1)",
		},
		{
			"function call",
			NewFunctionCall("date_add", NewString("Day"), NewNumber("-7"), NewFunctionCall("now")),
			"date_add('Day', -7, now())",
		},
		{
			"distinct function call",
			&FunctionCall{Name: "count", Distinct: true, Args: []Expr{NewIdentifier("a")}},
			"count(distinct a)",
		},
		{
			"keyword function name",
			NewFunctionCall("date", NewIdentifier("timestamp")),
			"date(`timestamp`)",
		},
		{
			"quoted function name",
			&FunctionCall{Qualifier: "db", Name: "f) or (1", Args: []Expr{NewIdentifier("a")}},
			"db.`f) or (1`(a)",
		},
		{
			"quoted identifier",
			NewComparison(NewIdentifier("1 = 1 or 1"), "=", NewNumber("1")),
			"`1 = 1 or 1` = 1",
		},
		{
			"qualified identifier",
			NewQualifiedIdentifier("from", "select"),
			"`from`.`select`",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.expr.String())
		})
	}
}

func TestQuoteString(t *testing.T) {
	require := require.New(t)

	require.Equal("'acme'", QuoteString("acme"))
	require.Equal(`'o\'brien'`, QuoteString("o'brien"))
	require.Equal(`'x\\'`, QuoteString(`x\`))
	require.Equal(`'a\nb'`, QuoteString("a\nb"))
	require.Equal("''", QuoteString(""))

	require.Equal("acme", UnquoteString("'acme'"))
	require.Equal("o'brien", UnquoteString("'o''brien'"))
	require.Equal("o'brien", UnquoteString(`'o\'brien'`))
	require.Equal(`x\`, UnquoteString(`'x\\'`))
	require.Equal("a\nb", UnquoteString(`'a\nb'`))
	require.Equal("", UnquoteString("''"))
	require.Equal("x", UnquoteString("x"))

	s := NewString("o'brien")
	require.Equal(`'o\'brien'`, s.Value)
	require.Equal("o'brien", s.Unquoted())

	for _, raw := range []string{`x\`, `\'`, "it's", "tab\there", `%_\%`} {
		require.Equal(raw, UnquoteString(QuoteString(raw)), raw)
	}
}

func TestFormatName(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
	}{
		{"logs", "logs"},
		{"organization", "organization"},
		{"type", "type"},
		{"timestamp", "`timestamp`"},
		{"date", "`date`"},
		{"from", "`from`"},
		{"1 = 1 or 1", "`1 = 1 or 1`"},
		{"a`b", "`a``b`"},
		{"_a1", "_a1"},
		{"1a", "`1a`"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, FormatName(tt.name))
		})
	}
}

func TestSelectItemValue(t *testing.T) {
	require := require.New(t)

	require.Equal("*", NewSelectItem(NewStar(""), "").Value())
	require.True(NewSelectItem(NewStar("l"), "").IsWildcard())
	require.Equal("timestamp", NewSelectItem(NewIdentifier("timestamp"), "").Value())
	require.Equal("ts", NewSelectItem(NewIdentifier("ts"), "timestamp").Value())
	require.Equal("total", NewSelectItem(NewFunctionCall("count", NewStar("")), "total").Value())
	require.Equal("", NewSelectItem(NewFunctionCall("now"), "").Value())
	require.Equal("timestamp", NewSelectItem(NewQualifiedIdentifier("l", "timestamp"), "").Value())
	require.Equal("from", NewSelectItem(NewFunctionCall("now"), "from").Value())
	require.Equal("now() as `from`", NewSelectItem(NewFunctionCall("now"), "from").String())
	require.False(NewSelectItem(NewIdentifier("a"), "").IsWildcard())
}

func TestWithDoesNotMutate(t *testing.T) {
	require := require.New(t)

	where := NewComparison(NewIdentifier("a"), "=", NewNumber("1"))
	s := NewSelect([]*SelectItem{NewSelectItem(NewStar(""), "")}, NewTable("logs", ""))

	filtered := s.WithWhere(where)
	require.Nil(s.Where)
	require.Equal(where, filtered.Where)

	ordered := filtered.WithOrderBy(NewOrderBy(NewOrderItem(NewIdentifier("a"), Ascending)))
	require.Nil(filtered.OrderBy)
	require.Equal("select * from logs where a = 1 order by a asc", ordered.String())

	projected := ordered.WithProjections(NewSelectItem(NewIdentifier("a"), ""))
	require.Equal("select * from logs where a = 1 order by a asc", ordered.String())
	require.Equal("select a from logs where a = 1 order by a asc", projected.String())
}

func TestHash(t *testing.T) {
	require := require.New(t)

	build := func(value string) *Query {
		return NewQuery(NewSelect(
			[]*SelectItem{NewSelectItem(NewStar(""), "")},
			NewTable("logs", ""),
		).WithWhere(NewComparison(NewIdentifier("organization"), "=", NewString(value))))
	}

	h1, err := Hash(build("acme"))
	require.NoError(err)
	h2, err := Hash(build("acme"))
	require.NoError(err)
	require.Equal(h1, h2)

	eq, err := Equal(build("acme"), build("globex"))
	require.NoError(err)
	require.False(eq)

	eq, err = Equal(build("acme"), build("acme"))
	require.NoError(err)
	require.True(eq)
}

func TestHashNodeKinds(t *testing.T) {
	a := NewComparison(NewIdentifier("a"), "=", NewNumber("1"))
	b := NewComparison(NewIdentifier("b"), "=", NewNumber("2"))

	testCases := []struct {
		name  string
		left  Node
		right Node
	}{
		{"and or", NewAnd(a, b), NewOr(a, b)},
		{"string number", NewString("1"), NewNumber("1")},
		{"not between", NewBetween(a, b, b), &Between{Not: true, Left: a, Lower: b, Upper: b}},
		{"in list values", NewInList(NewIdentifier("a"), NewNumber("1"), NewNumber("2")), NewInList(NewIdentifier("a"), NewNumber("1"))},
		{"qualified identifier", NewIdentifier("a"), NewQualifiedIdentifier("t", "a")},
		{"swapped operands", NewAnd(a, b), NewAnd(b, a)},
		{
			"where and having",
			NewSelect(nil, NewTable("logs", "")).WithWhere(a),
			&Select{From: []TableExpr{NewTable("logs", "")}, Having: a},
		},
		{
			"table qualifier",
			NewTable("logs", ""),
			NewQualifiedTable("db", "logs", ""),
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			eq, err := Equal(tt.left, tt.right)
			require.NoError(err)
			require.False(eq)

			eq, err = Equal(tt.left, tt.left)
			require.NoError(err)
			require.True(eq)
		})
	}
}

func TestQueryWithSelect(t *testing.T) {
	require := require.New(t)

	q := NewQuery(NewSelect([]*SelectItem{NewSelectItem(NewStar(""), "")}, NewTable("logs", "")))
	nq := q.WithSelect(NewSelect([]*SelectItem{NewSelectItem(NewStar(""), "")}, NewTable("events", "")))

	require.Equal("select * from logs", q.String())
	require.Equal("select * from events", nq.String())
	require.NotSame(q, nq)
}

func TestQueryString(t *testing.T) {
	var q *Query
	require.Equal(t, "", q.String())
	require.Equal(t, "", NewQuery(nil).String())
}
