package sheet

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/katalvlaran/gridcalc/formula"
	"github.com/katalvlaran/gridcalc/position"
)

const (
	// FormulaSign starts a formula when followed by at least one character.
	FormulaSign = '='
	// EscapeSign at the start of a literal forces it to be read as text.
	EscapeSign = '\''
)

// content is the closed set of cell states: emptyContent, literalContent
// and *formulaContent.
type content interface {
	isContent()
}

type emptyContent struct{}

type literalContent struct {
	text string
}

type formulaContent struct {
	formula Formula
	cache   *float64 // nil until a numeric result has been computed
}

func (emptyContent) isContent()    {}
func (literalContent) isContent()  {}
func (*formulaContent) isContent() {}

// Cell is one live cell of a Sheet. Obtain cells from Sheet.Cell; never
// construct them directly.
type Cell struct {
	sheet    *Sheet // nil once removed from storage
	pos      position.Position
	content  content
	outgoing map[position.Position]struct{} // cells this formula reads
	incoming map[position.Position]struct{} // cells whose formulas read this one
}

func newCell(s *Sheet, pos position.Position) *Cell {
	return &Cell{
		sheet:    s,
		pos:      pos,
		content:  emptyContent{},
		outgoing: make(map[position.Position]struct{}),
		incoming: make(map[position.Position]struct{}),
	}
}

// Position returns the cell's address.
func (c *Cell) Position() position.Position { return c.pos }

// Set replaces the cell's content.
//
//   - ""               → Empty
//   - "=" + expression → Formula (a lone "=" is a literal)
//   - anything else    → Literal
//
// A failed formula write (ErrFormulaSyntax, ErrInvalidPosition,
// ErrCircularDependency) leaves content, edges and cache untouched.
func (c *Cell) Set(text string) error {
	if c.sheet == nil {
		return fmt.Errorf("%w: %s", ErrDetachedCell, c.pos)
	}

	switch {
	case text == "":
		c.replace(emptyContent{}, nil)
	case len(text) > 1 && text[0] == FormulaSign:
		return c.setFormula(text[1:])
	default:
		c.replace(literalContent{text: text}, nil)
	}

	return nil
}

// Clear resets the cell to Empty, dropping its outgoing edges and
// invalidating its dependents. The cell stays in the sheet.
func (c *Cell) Clear() {
	if c.sheet == nil {
		return
	}
	c.replace(emptyContent{}, nil)
}

// setFormula runs the formula transition: parse, bounds check, cycle check,
// then commit. Nothing is mutated before the commit.
func (c *Cell) setFormula(expression string) error {
	s := c.sheet

	// 1) Parse.
	f, err := s.parse(expression)
	if err != nil {
		s.logger.Debug("formula rejected", slog.String("cell", c.pos.String()), slog.String("reason", "syntax"))
		return fmt.Errorf("%w: %s: %w", ErrFormulaSyntax, c.pos, err)
	}

	// 2) Every reference must lie within the sheet.
	refs := f.ReferencedCells()
	for _, ref := range refs {
		if !ref.IsValid() {
			s.logger.Debug("formula rejected", slog.String("cell", c.pos.String()), slog.String("reason", "position"))
			return fmt.Errorf("%w: %s references a cell outside the sheet", ErrInvalidPosition, c.pos)
		}
	}

	// 3) Reject anything that would reach back to this cell.
	if s.closesCycle(c.pos, refs) {
		s.logger.Debug("formula rejected", slog.String("cell", c.pos.String()), slog.String("reason", "cycle"))
		return fmt.Errorf("%w: %s", ErrCircularDependency, c.pos)
	}

	// 4) Commit.
	c.replace(&formulaContent{formula: f}, refs)

	return nil
}

// replace swaps in ct, rewires outgoing edges to refs and invalidates every
// transitive dependent, whatever the previous content was.
func (c *Cell) replace(ct content, refs []position.Position) {
	s := c.sheet
	s.unlink(c)
	c.content = ct
	s.link(c, refs)
	s.invalidateDependents(c)
}

// Value returns the cell's current value.
//
//   - Empty   → ""
//   - Literal → text after a leading EscapeSign; a number when the text is
//     all decimal digits; the raw text otherwise
//   - Formula → the cached number, or a fresh evaluation. Numeric results
//     are cached, error results are not.
func (c *Cell) Value() formula.Value {
	switch ct := c.content.(type) {
	case literalContent:
		return literalValue(ct.text)

	case *formulaContent:
		if ct.cache != nil {
			return formula.NumberValue(*ct.cache)
		}
		v := ct.formula.Evaluate(c.sheet.lookup)
		if n, ok := v.Number(); ok {
			ct.cache = &n
		}
		return v
	}

	return formula.StringValue("")
}

// Text returns the cell's text: "" for Empty, the stored text for Literal
// (escape sign included) and "=" plus the canonical expression for Formula.
func (c *Cell) Text() string {
	switch ct := c.content.(type) {
	case literalContent:
		return ct.text
	case *formulaContent:
		return string(FormulaSign) + ct.formula.Expression()
	}

	return ""
}

// ReferencedCells returns the positions read by the cell's formula,
// ascending and without duplicates; nil for Empty and Literal cells.
func (c *Cell) ReferencedCells() []position.Position {
	if ct, ok := c.content.(*formulaContent); ok {
		return slices.Clone(ct.formula.ReferencedCells())
	}

	return nil
}

// Dependents returns the positions of cells whose formulas read this cell,
// ascending.
func (c *Cell) Dependents() []position.Position {
	return sortedKeys(c.incoming)
}

// IsReferenced reports whether any formula reads this cell.
func (c *Cell) IsReferenced() bool {
	return len(c.incoming) > 0
}

// IsEmpty reports whether the cell holds no content.
func (c *Cell) IsEmpty() bool {
	_, ok := c.content.(emptyContent)
	return ok
}

// literalValue derives a literal's value from its text.
func literalValue(text string) formula.Value {
	if text != "" && text[0] == EscapeSign {
		return formula.StringValue(text[1:])
	}
	if isDigits(text) {
		if n, err := strconv.ParseFloat(text, 64); err == nil {
			return formula.NumberValue(n)
		}
	}

	return formula.StringValue(text)
}

// isDigits reports whether s is non-empty and consists of ASCII digits only.
// Signs, decimal points and exponents do not qualify.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

func sortedKeys(set map[position.Position]struct{}) []position.Position {
	if len(set) == 0 {
		return nil
	}
	out := make([]position.Position, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	slices.SortFunc(out, position.Compare)

	return out
}
