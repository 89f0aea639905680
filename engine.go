// Package rewriter rewrites SELECT statements for a multi-tenant log store:
// it scopes them to tenants, bounds their time range, mirrors timestamp
// filters onto the date partition column and reshapes their results.
package rewriter // import "github.com/tenantql/go-sql-rewriter"

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/tenantql/go-sql-rewriter/sql/ast"
	"github.com/tenantql/go-sql-rewriter/sql/parse"
	"github.com/tenantql/go-sql-rewriter/sql/rewrite"
)

// Engine parses and rewrites queries. It is safe for concurrent use.
type Engine struct {
	Config *Config
	logger *logrus.Entry
}

// New creates a new Engine with the given configuration. A nil config means
// DefaultConfig.
func New(cfg *Config) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	l := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		l.SetLevel(lvl)
	}

	return &Engine{
		Config: cfg,
		logger: logrus.NewEntry(l).WithField("component", "rewriter"),
	}
}

// NewDefault creates a new Engine with the default configuration.
func NewDefault() *Engine {
	return New(nil)
}

// Parse parses a single SELECT statement.
func (e *Engine) Parse(ctx context.Context, query string) (*ast.Query, error) {
	q, err := parse.Parse(ctx, query)
	if err != nil {
		e.logger.WithError(err).Debug("unable to parse query")
		return nil, err
	}
	return q, nil
}

// Query returns the SQL text of the query.
func (e *Engine) Query(q *ast.Query) string {
	return q.String()
}

// Rewrite applies the given rules to the query, in order, and returns the
// resulting query. The given query is not modified.
func (e *Engine) Rewrite(ctx context.Context, q *ast.Query, rules ...rewrite.Rule) (*ast.Query, error) {
	return e.builder().AddRules(rules...).Build().Rewrite(ctx, q)
}

func (e *Engine) builder() *rewrite.Builder {
	b := rewrite.NewBuilder().
		WithLogger(e.logger).
		WithMaxIterations(e.Config.MaxIterations)
	if e.Config.Debug {
		b = b.WithDebug()
	}
	return b
}

func (e *Engine) rewriteString(ctx context.Context, q *ast.Query, rules ...rewrite.Rule) (string, error) {
	result, err := e.Rewrite(ctx, q, rules...)
	if err != nil {
		return "", err
	}
	return result.String(), nil
}

// GetOrganizations returns the tenants the query is restricted to.
func (e *Engine) GetOrganizations(q *ast.Query) []string {
	if q == nil || q.Select == nil {
		return nil
	}
	return rewrite.ExtractTenantIDs(q.Select)
}

// AddOrganizations restricts the query, and its subqueries, to the tenants
// in the comma separated list.
func (e *Engine) AddOrganizations(ctx context.Context, q *ast.Query, tenantIDs string) (*ast.Query, error) {
	return e.Rewrite(ctx, q, rewrite.TenantScopeRule(rewrite.SplitTenantIDs(tenantIDs)))
}

// AddTimestampBounds bounds the timestamp of the query to the given window
// wherever the query does not bound it already.
func (e *Engine) AddTimestampBounds(ctx context.Context, q *ast.Query, lowerBoundInDays int, upperBoundDate string) (string, error) {
	return e.rewriteString(ctx, q, rewrite.TimeWindowRule(rewrite.TimeWindow{
		LowerBoundInDays: lowerBoundInDays,
		UpperBoundDate:   upperBoundDate,
	}))
}

// AddDefaultTimestampBounds is AddTimestampBounds with the configured
// window.
func (e *Engine) AddDefaultTimestampBounds(ctx context.Context, q *ast.Query) (string, error) {
	return e.rewriteString(ctx, q, rewrite.TimeWindowRule(e.DefaultTimeWindow()))
}

// AddLogDate pairs every timestamp predicate of the query with the same
// predicate on the date partition column.
func (e *Engine) AddLogDate(ctx context.Context, q *ast.Query) (string, error) {
	return e.rewriteString(ctx, q, rewrite.PartitionDateRule)
}

// CheckAndAddOrderClause sorts the query by descending timestamp if it is
// not sorted.
func (e *Engine) CheckAndAddOrderClause(ctx context.Context, q *ast.Query) (string, error) {
	r := e.builder().
		AddFixedPointRule(rewrite.DefaultOrderRule.Name, rewrite.DefaultOrderRule.Apply).
		Build()

	result, err := r.Rewrite(ctx, q)
	if err != nil {
		return "", err
	}
	return result.String(), nil
}

// GetCountQuery returns a query counting the rows of q.
func (e *Engine) GetCountQuery(ctx context.Context, q *ast.Query) (*ast.Query, error) {
	return e.Rewrite(ctx, q, rewrite.CountRule)
}

// GetCategoryCountsQuery returns a query counting the rows of q per
// category.
func (e *Engine) GetCategoryCountsQuery(ctx context.Context, q *ast.Query) (*ast.Query, error) {
	return e.Rewrite(ctx, q, rewrite.CategoryCountRule)
}

// GetHistogram returns a query computing a numeric histogram of binField
// over the rows of q. A non positive number of bins or an empty field fall
// back to the configured histogram.
func (e *Engine) GetHistogram(ctx context.Context, q *ast.Query, numberOfBins int, binField string, weight interface{}) (*ast.Query, error) {
	h := e.DefaultHistogram()
	if numberOfBins > 0 {
		h.Bins = numberOfBins
	}
	if binField != "" {
		h.Field = binField
	}
	h.Weight = weight

	return e.Rewrite(ctx, q, rewrite.HistogramRule(h))
}

// QueryReturnsTimestamp reports whether the query returns the timestamp
// column.
func (e *Engine) QueryReturnsTimestamp(q *ast.Query) bool {
	return returnsField(q, rewrite.TimestampColumn)
}

// QueryReturnsCategory reports whether the query returns the category
// column.
func (e *Engine) QueryReturnsCategory(q *ast.Query) bool {
	return returnsField(q, rewrite.CategoryColumn)
}

func returnsField(q *ast.Query, name string) bool {
	if q == nil || q.Select == nil {
		return false
	}
	return rewrite.FieldIsProjected(q.Select, name)
}

// DefaultTimeWindow returns the configured time window.
func (e *Engine) DefaultTimeWindow() rewrite.TimeWindow {
	return e.Config.timeWindow()
}

// DefaultHistogram returns the configured histogram.
func (e *Engine) DefaultHistogram() rewrite.Histogram {
	return e.Config.histogram()
}
