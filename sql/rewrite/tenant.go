package rewrite

import (
	"strings"

	"github.com/tenantql/go-sql-rewriter/sql/ast"
)

// tenantIDs is the result of walking a filter for tenant identifiers.
// A pinned result comes from an equality on the tenant column and replaces
// whatever its siblings found.
type tenantIDs struct {
	ids    []string
	pinned bool
}

func (l tenantIDs) and(r tenantIDs) tenantIDs {
	switch {
	case r.pinned:
		return r
	case l.pinned:
		return l
	}

	ids := make([]string, 0, len(l.ids)+len(r.ids))
	ids = append(ids, l.ids...)
	ids = append(ids, r.ids...)
	return tenantIDs{ids: ids}
}

// ExtractTenantIDs returns the tenant identifiers the filter of the select
// restricts the query to, unquoted. An equality on the tenant column
// overrides any identifiers found elsewhere in the filter.
func ExtractTenantIDs(sel *ast.Select) []string {
	if sel == nil || sel.Where == nil {
		return nil
	}

	return tenantIDsIn(sel.Where).ids
}

func tenantIDsIn(e ast.Expr) tenantIDs {
	switch e := e.(type) {
	case *ast.And:
		return tenantIDsIn(e.Left).and(tenantIDsIn(e.Right))
	case *ast.InSubquery:
		if e.Select == nil || e.Select.Where == nil {
			return tenantIDs{}
		}
		return tenantIDsIn(e.Select.Where)
	case *ast.Comparison:
		if e.Operator != "=" || !isColumn(e.Left, TenantColumn) {
			return tenantIDs{}
		}

		v, ok := literalValue(e.Right)
		if !ok {
			return tenantIDs{}
		}
		return tenantIDs{ids: []string{v}, pinned: true}
	case *ast.InList:
		if e.Not || !isColumn(e.Left, TenantColumn) {
			return tenantIDs{}
		}

		var ids []string
		for _, v := range e.Values {
			if s, ok := literalValue(v); ok {
				ids = append(ids, s)
			}
		}
		return tenantIDs{ids: ids}
	default:
		return tenantIDs{}
	}
}

func literalValue(e ast.Expr) (string, bool) {
	switch e := e.(type) {
	case *ast.String:
		return e.Unquoted(), true
	case *ast.Number:
		return e.Value, true
	default:
		return "", false
	}
}

// TenantPredicate builds `organization IN ('id1', ...)` for the given raw
// identifiers.
func TenantPredicate(ids []string) ast.Expr {
	values := make([]ast.Expr, len(ids))
	for i, id := range ids {
		values[i] = ast.NewString(id)
	}
	return ast.NewInList(ast.NewIdentifier(TenantColumn), values...)
}

// InjectTenantScope returns a copy of the select whose filter, and the filter
// of every subquery reachable through AND branches of it, is restricted to
// the given tenants. Applying it twice adds the restriction twice.
func InjectTenantScope(sel *ast.Select, ids []string) *ast.Select {
	return sel.WithWhere(Conjoin(scopeSubqueries(sel.Where, ids), TenantPredicate(ids)))
}

func scopeSubqueries(e ast.Expr, ids []string) ast.Expr {
	switch e := e.(type) {
	case *ast.And:
		return ast.NewAnd(scopeSubqueries(e.Left, ids), scopeSubqueries(e.Right, ids))
	case *ast.InSubquery:
		if e.Select == nil {
			return e
		}
		return e.WithSelect(InjectTenantScope(e.Select, ids))
	default:
		return e
	}
}

// SplitTenantIDs splits a comma separated list of tenant identifiers,
// trimming the spaces around each one. Empty entries are kept.
func SplitTenantIDs(csv string) []string {
	ids := strings.Split(csv, ",")
	for i, id := range ids {
		ids[i] = strings.TrimSpace(id)
	}
	return ids
}
