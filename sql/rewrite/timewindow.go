package rewrite

import (
	"strings"

	"github.com/spf13/cast"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/tenantql/go-sql-rewriter/sql/ast"
)

// ErrInvalidTimeWindow is returned when a time window cannot be built from
// the given bounds.
var ErrInvalidTimeWindow = errors.NewKind("invalid time window: %s")

// OpenUpperBound is the upper bound date meaning "up to now".
const OpenUpperBound = "0"

// TimeWindow is the default time range applied to queries that do not fully
// constrain the timestamp column.
type TimeWindow struct {
	// LowerBoundInDays is added to now() to get the lower bound, so it is
	// usually negative.
	LowerBoundInDays int
	// UpperBoundDate is an ISO-8601 timestamp, or OpenUpperBound.
	UpperBoundDate string
}

// ParseTimeWindow builds a TimeWindow from loosely typed values, such as the
// ones decoded from a request.
func ParseTimeWindow(lower, upper interface{}) (TimeWindow, error) {
	days, err := cast.ToIntE(lower)
	if err != nil {
		return TimeWindow{}, ErrInvalidTimeWindow.Wrap(err, "lower bound")
	}

	var date string
	if upper != nil {
		date, err = cast.ToStringE(upper)
		if err != nil {
			return TimeWindow{}, ErrInvalidTimeWindow.Wrap(err, "upper bound")
		}
	}

	return TimeWindow{LowerBoundInDays: days, UpperBoundDate: date}, nil
}

// IsOpen reports whether the window extends up to now().
func (w TimeWindow) IsOpen() bool {
	return w.UpperBoundDate == "" || w.UpperBoundDate == OpenUpperBound
}

func (w TimeWindow) lower() ast.Expr {
	return ast.NewFunctionCall(
		"date_add",
		ast.NewString("Day"),
		ast.NewNumber(cast.ToString(w.LowerBoundInDays)),
		ast.NewFunctionCall("now"),
	)
}

func (w TimeWindow) upper() ast.Expr {
	if w.IsOpen() {
		return ast.NewFunctionCall("now")
	}
	return ast.NewFunctionCall("from_iso8601_timestamp", ast.NewString(w.UpperBoundDate))
}

func (w TimeWindow) upperPredicate() ast.Expr {
	op := "<="
	if w.IsOpen() {
		op = "<"
	}
	return ast.NewComparison(ast.NewIdentifier(TimestampColumn), op, w.upper())
}

func (w TimeWindow) lowerPredicate() ast.Expr {
	return ast.NewComparison(ast.NewIdentifier(TimestampColumn), ">", w.lower())
}

func (w TimeWindow) betweenPredicate() ast.Expr {
	return ast.NewBetween(ast.NewIdentifier(TimestampColumn), w.lower(), w.upper())
}

// BoundStatus tells which bounds a filter already puts on the timestamp
// column.
type BoundStatus struct {
	HasUpperBound bool
	HasLowerBound bool
	HasBothBounds bool
}

func (s BoundStatus) merge(o BoundStatus) BoundStatus {
	return BoundStatus{
		HasUpperBound: s.HasUpperBound || o.HasUpperBound,
		HasLowerBound: s.HasLowerBound || o.HasLowerBound,
		HasBothBounds: s.HasBothBounds || o.HasBothBounds,
	}
}

// AddBounds returns a copy of the select whose filter is bounded by the
// window on both sides.
func (w TimeWindow) AddBounds(sel *ast.Select) *ast.Select {
	return sel.WithWhere(w.InjectBounds(sel.Where))
}

// InjectBounds completes the bounds the expression puts on the timestamp
// column with the ones of the window. Disjunctions and subqueries are
// bounded on their own.
func (w TimeWindow) InjectBounds(e ast.Expr) ast.Expr {
	e, status := w.classify(e)
	switch {
	case status.HasBothBounds:
		return e
	case !status.HasLowerBound && !status.HasUpperBound:
		return Conjoin(e, w.betweenPredicate())
	case !status.HasUpperBound:
		return Conjoin(e, w.upperPredicate())
	case !status.HasLowerBound:
		return Conjoin(e, w.lowerPredicate())
	default:
		return e
	}
}

func (w TimeWindow) classify(e ast.Expr) (ast.Expr, BoundStatus) {
	switch e := e.(type) {
	case *ast.And:
		left, ls := w.classify(e.Left)
		right, rs := w.classify(e.Right)
		return ast.NewAnd(left, right), ls.merge(rs)
	case *ast.Or:
		return ast.NewOr(w.InjectBounds(e.Left), w.InjectBounds(e.Right)), BoundStatus{}
	case *ast.InSubquery:
		if e.Select == nil {
			return e, BoundStatus{}
		}
		return e.WithSelect(w.AddBounds(e.Select)), BoundStatus{}
	case *ast.Comparison:
		if !isColumn(e.Left, TimestampColumn) {
			return e, BoundStatus{}
		}

		switch {
		case strings.Contains(e.Operator, ">"):
			return e, BoundStatus{HasLowerBound: true}
		case strings.Contains(e.Operator, "<"):
			return e, BoundStatus{HasUpperBound: true}
		case e.Operator == "=":
			return e, BoundStatus{HasBothBounds: true}
		default:
			return e, BoundStatus{}
		}
	case *ast.Between:
		if !isColumn(e.Left, TimestampColumn) {
			return e, BoundStatus{}
		}
		return e, BoundStatus{HasBothBounds: true}
	default:
		return e, BoundStatus{}
	}
}
