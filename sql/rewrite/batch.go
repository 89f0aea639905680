package rewrite

import (
	"context"

	opentracing "github.com/opentracing/opentracing-go"

	"github.com/tenantql/go-sql-rewriter/sql/ast"
)

// RuleFunc is the function to be applied in a rule.
type RuleFunc func(context.Context, *Rewriter, *ast.Query) (*ast.Query, error)

// Rule to transform queries.
type Rule struct {
	// Name of the rule.
	Name string
	// Apply transforms a query.
	Apply RuleFunc
}

// Batch executes a set of rules a specific number of times.
// When this number of times is reached, the actual query
// and ErrMaxRewriteIterations is returned.
type Batch struct {
	Desc       string
	Iterations int
	Rules      []Rule
}

// Eval executes the rules of the batch. With more than one iteration the
// rules are applied again until the query stops changing. If the max number
// of iterations is reached, this method returns the actual processed query
// and ErrMaxRewriteIterations.
func (b *Batch) Eval(ctx context.Context, r *Rewriter, q *ast.Query) (*ast.Query, error) {
	if b.Iterations == 0 {
		return q, nil
	}

	prev := q
	cur, err := b.evalOnce(ctx, r, q)
	if err != nil {
		return nil, err
	}

	if b.Iterations == 1 {
		return cur, nil
	}

	for i := 1; ; {
		same, err := ast.Equal(prev, cur)
		if err != nil {
			return nil, err
		}

		if same {
			return cur, nil
		}

		if i >= b.Iterations {
			return cur, ErrMaxRewriteIterations.New(b.Iterations)
		}

		prev = cur
		cur, err = b.evalOnce(ctx, r, cur)
		if err != nil {
			return nil, err
		}
		i++
	}
}

func (b *Batch) evalOnce(ctx context.Context, r *Rewriter, q *ast.Query) (*ast.Query, error) {
	result := q
	for _, rule := range b.Rules {
		span, ctx := opentracing.StartSpanFromContext(ctx, rule.Name)
		r.Log("applying rule %s", rule.Name)

		var err error
		result, err = rule.Apply(ctx, r, result)
		span.Finish()
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}
