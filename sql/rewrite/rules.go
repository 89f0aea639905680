package rewrite

import (
	"context"

	"github.com/tenantql/go-sql-rewriter/sql/ast"
)

// Names of the rules built in this package.
const (
	TenantScopeRuleName   = "tenant_scope"
	TimeWindowRuleName    = "time_window"
	PartitionDateRuleName = "partition_date"
	DefaultOrderRuleName  = "default_order"
	CountRuleName         = "count"
	CategoryCountRuleName = "category_count"
	HistogramRuleName     = "histogram"
	ProjectionsRuleName   = "replace_projections"
)

func selectRule(name string, fn func(*ast.Select) *ast.Select) Rule {
	return Rule{
		Name: name,
		Apply: func(ctx context.Context, r *Rewriter, q *ast.Query) (*ast.Query, error) {
			return q.WithSelect(fn(q.Select)), nil
		},
	}
}

// TenantScopeRule restricts the query to the given tenants.
func TenantScopeRule(ids []string) Rule {
	return Rule{
		Name: TenantScopeRuleName,
		Apply: func(ctx context.Context, r *Rewriter, q *ast.Query) (*ast.Query, error) {
			r.Log("scoping query to tenants %v", ids)
			return q.WithSelect(InjectTenantScope(q.Select, ids)), nil
		},
	}
}

// TimeWindowRule bounds the timestamp of the query with the given window.
func TimeWindowRule(w TimeWindow) Rule {
	return Rule{
		Name: TimeWindowRuleName,
		Apply: func(ctx context.Context, r *Rewriter, q *ast.Query) (*ast.Query, error) {
			r.Log("bounding query to %d days, upper bound %q", w.LowerBoundInDays, w.UpperBoundDate)
			return q.WithSelect(w.AddBounds(q.Select)), nil
		},
	}
}

// PartitionDateRule mirrors timestamp predicates onto the date column.
var PartitionDateRule = selectRule(PartitionDateRuleName, MirrorDates)

// DefaultOrderRule sorts the query by descending timestamp unless it is
// already sorted. It is idempotent.
var DefaultOrderRule = selectRule(DefaultOrderRuleName, EnsureDefaultOrder)

// CountRule turns the query into a row count.
var CountRule = selectRule(CountRuleName, WrapAsAggregate)

// CategoryCountRule turns the query into a row count per category.
var CategoryCountRule = selectRule(CategoryCountRuleName, WrapAsCategoryCount)

// HistogramRule turns the query into the given histogram.
func HistogramRule(h Histogram) Rule {
	return selectRule(HistogramRuleName, func(sel *ast.Select) *ast.Select {
		return BuildHistogram(sel, h)
	})
}

// ProjectionsRule replaces the projections of the query.
func ProjectionsRule(items ...*ast.SelectItem) Rule {
	return selectRule(ProjectionsRuleName, func(sel *ast.Select) *ast.Select {
		return ReplaceProjections(sel, items...)
	})
}
