package sheet

import (
	"log/slog"

	"github.com/katalvlaran/gridcalc/formula"
	"github.com/katalvlaran/gridcalc/position"
)

// Formula is the evaluator contract a formula cell delegates to.
// *formula.Formula implements it.
type Formula interface {
	// Evaluate computes the formula; the result is a number or an error Value.
	Evaluate(lookup formula.Lookup) formula.Value
	// ReferencedCells lists read positions, ascending and de-duplicated.
	ReferencedCells() []position.Position
	// Expression renders the canonical text (without the leading '=').
	Expression() string
}

// ParseFunc turns formula text (without the leading '=') into a Formula.
type ParseFunc func(expression string) (Formula, error)

// Option configures a Sheet at construction time.
type Option func(*Sheet)

// WithLogger routes the sheet's debug events to l. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sheet) {
		if l != nil {
			s.logger = l.With(slog.String("component", "sheet"))
		}
	}
}

// WithParser replaces the default formula.Parse. A nil parser is ignored.
func WithParser(p ParseFunc) Option {
	return func(s *Sheet) {
		if p != nil {
			s.parse = p
		}
	}
}

// parseFormula adapts formula.Parse to ParseFunc without leaking a typed nil.
func parseFormula(expression string) (Formula, error) {
	f, err := formula.Parse(expression)
	if err != nil {
		return nil, err
	}

	return f, nil
}
