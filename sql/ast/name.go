package ast

import (
	"strings"

	"gopkg.in/src-d/go-vitess.v0/vt/sqlparser"
)

// FormatName returns the SQL form of an identifier. Keywords and names that
// are not plain identifiers are backquoted.
func FormatName(name string) string {
	return sqlparser.String(sqlparser.NewColIdent(name))
}

// formatFunctionName returns the SQL form of a function name. Plain names
// are printed as is, even when they are keywords such as `date` or `count`.
func formatFunctionName(name string) string {
	if isPlainName(name) {
		return name
	}
	return "`" + strings.Replace(name, "`", "``", -1) + "`"
}

func isPlainName(name string) bool {
	if name == "" {
		return false
	}

	for i, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// TableName is a possibly qualified table name, as in `db.logs`.
type TableName struct {
	Qualifier string
	Name      string
}

// IsEmpty reports whether the name is unset.
func (t TableName) IsEmpty() bool {
	return t.Name == ""
}

func (t TableName) String() string {
	if t.IsEmpty() {
		return ""
	}
	if t.Qualifier == "" {
		return FormatName(t.Name)
	}
	return FormatName(t.Qualifier) + "." + FormatName(t.Name)
}
