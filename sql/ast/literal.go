package ast

import (
	"strings"

	"gopkg.in/src-d/go-vitess.v0/sqltypes"
	"gopkg.in/src-d/go-vitess.v0/vt/sqlparser"
)

// String is a string literal. Value holds the literal as written in SQL,
// surrounding quotes included.
type String struct {
	Value string
}

// NewString creates a string literal for the raw value, quoting it.
func NewString(raw string) *String {
	return &String{Value: QuoteString(raw)}
}

// Unquoted returns the raw value of the literal.
func (s *String) Unquoted() string {
	return UnquoteString(s.Value)
}

func (s *String) String() string { return s.Value }

func (*String) node()     {}
func (*String) exprNode() {}

// QuoteString wraps a raw value in single quotes, escaping quotes,
// backslashes and control characters with a backslash.
func QuoteString(raw string) string {
	return sqlparser.String(sqlparser.NewStrVal([]byte(raw)))
}

// UnquoteString strips the surrounding quotes of a quoted literal and
// decodes its backslash escapes and doubled quotes.
func UnquoteString(quoted string) string {
	if len(quoted) < 2 {
		return quoted
	}

	delim := quoted[0]
	body := quoted[1 : len(quoted)-1]

	var buf strings.Builder
	for i := 0; i < len(body); i++ {
		ch := body[i]
		switch {
		case ch == '\\' && i+1 < len(body):
			i++
			if decoded := sqltypes.SQLDecodeMap[body[i]]; decoded != sqltypes.DontEscape {
				buf.WriteByte(decoded)
			} else {
				buf.WriteByte(body[i])
			}
		case ch == delim && i+1 < len(body) && body[i+1] == delim:
			i++
			buf.WriteByte(ch)
		default:
			buf.WriteByte(ch)
		}
	}
	return buf.String()
}

// Number is a numeric literal, kept as written.
type Number struct {
	Value string
}

// NewNumber creates a numeric literal.
func NewNumber(value string) *Number {
	return &Number{Value: value}
}

func (n *Number) String() string { return n.Value }

func (*Number) node()     {}
func (*Number) exprNode() {}
