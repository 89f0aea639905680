package rewrite

import (
	"context"
	"os"
	"strings"

	"github.com/google/uuid"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/tenantql/go-sql-rewriter/sql/ast"
)

const debugRewriterKey = "DEBUG_REWRITER"

// DefaultMaxIterations is the number of times a fixed point batch is applied
// before giving up.
const DefaultMaxIterations = 100

var (
	// ErrMaxRewriteIterations is returned when a fixed point batch does not
	// converge.
	ErrMaxRewriteIterations = errors.NewKind("exceeded max rewrite iterations (%d)")

	// ErrUnsupportedQueryShape is returned when the query given to the
	// rewriter does not wrap a select.
	ErrUnsupportedQueryShape = errors.NewKind("unsupported query shape: %s")
)

// Builder provides an easy way to generate a Rewriter with custom rules and
// options.
type Builder struct {
	batches       []*Batch
	debug         bool
	maxIterations int
	logger        *logrus.Entry
}

// NewBuilder creates a new Builder without rules.
func NewBuilder() *Builder {
	return &Builder{maxIterations: DefaultMaxIterations}
}

// WithDebug activates debug on the Rewriter.
func (b *Builder) WithDebug() *Builder {
	b.debug = true
	return b
}

// WithMaxIterations sets the iteration limit of the fixed point rules added
// after it.
func (b *Builder) WithMaxIterations(n int) *Builder {
	b.maxIterations = n
	return b
}

// WithLogger sets the entry the rewriter logs with.
func (b *Builder) WithLogger(l *logrus.Entry) *Builder {
	b.logger = l
	return b
}

// AddRule adds a rule applied once, after the rules already added.
func (b *Builder) AddRule(name string, fn RuleFunc) *Builder {
	b.batches = append(b.batches, &Batch{
		Desc:       name,
		Iterations: 1,
		Rules:      []Rule{{name, fn}},
	})
	return b
}

// AddFixedPointRule adds a rule applied until the query stops changing.
func (b *Builder) AddFixedPointRule(name string, fn RuleFunc) *Builder {
	b.batches = append(b.batches, &Batch{
		Desc:       name,
		Iterations: b.maxIterations,
		Rules:      []Rule{{name, fn}},
	})
	return b
}

// AddRules adds the given rules, each of them applied once.
func (b *Builder) AddRules(rules ...Rule) *Builder {
	for _, r := range rules {
		b.AddRule(r.Name, r.Apply)
	}
	return b
}

// Build creates a new Rewriter using all previous data set to the Builder.
func (b *Builder) Build() *Rewriter {
	_, debug := os.LookupEnv(debugRewriterKey)

	logger := b.logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Rewriter{
		Debug:    debug || b.debug,
		Batches:  b.batches,
		debugCtx: make([]string, 0),
		logger:   logger,
	}
}

// Rewriter applies batches of rules to a query.
type Rewriter struct {
	// Whether to log various debugging messages
	Debug bool
	// Batches of Rules to apply.
	Batches  []*Batch
	debugCtx []string
	logger   *logrus.Entry
}

// Log prints an INFO message with the given message and args if the
// rewriter is in debug mode.
func (r *Rewriter) Log(msg string, args ...interface{}) {
	if r != nil && r.Debug {
		if len(r.debugCtx) > 0 {
			ctx := strings.Join(r.debugCtx, "/")
			r.logger.Infof("%s: "+msg, append([]interface{}{ctx}, args...)...)
		} else {
			r.logger.Infof(msg, args...)
		}
	}
}

// PushDebugContext pushes the given context string onto the context stack,
// to use when logging debug messages.
func (r *Rewriter) PushDebugContext(msg string) {
	if r != nil {
		r.debugCtx = append(r.debugCtx, msg)
	}
}

// PopDebugContext pops a context message off the context stack.
func (r *Rewriter) PopDebugContext() {
	if r != nil && len(r.debugCtx) > 0 {
		r.debugCtx = r.debugCtx[:len(r.debugCtx)-1]
	}
}

// Rewrite applies every batch to the query, in order. The given query is
// never modified.
func (r *Rewriter) Rewrite(ctx context.Context, q *ast.Query) (*ast.Query, error) {
	if q == nil {
		return nil, ErrUnsupportedQueryShape.New("nil query")
	}

	if q.Select == nil {
		return nil, ErrUnsupportedQueryShape.New("query without select")
	}

	span, ctx := opentracing.StartSpanFromContext(ctx, "rewrite", opentracing.Tags{
		"query": q.String(),
	})
	defer span.Finish()

	// Debug context and log fields are scoped to this run.
	run := &Rewriter{
		Debug:    r.Debug,
		Batches:  r.Batches,
		debugCtx: make([]string, 0),
		logger:   r.logger.WithField("rewriteID", uuid.NewString()),
	}

	run.Log("starting rewrite of query: %s", q)

	cur := q
	for _, batch := range run.Batches {
		run.PushDebugContext(batch.Desc)
		next, err := batch.Eval(ctx, run, cur)
		run.PopDebugContext()
		if err != nil {
			run.logger.WithError(err).Warn("rewrite failed")
			return nil, err
		}
		cur = next
	}

	run.Log("rewritten query: %s", cur)
	return cur, nil
}
