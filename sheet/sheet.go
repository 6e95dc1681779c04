package sheet

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/katalvlaran/gridcalc/position"
)

// Sheet owns every live cell and the bounding box of the occupied area.
// The zero value is not usable; call New.
type Sheet struct {
	// cells[col][row] is the live cell at that position.
	cells map[int]map[int]*Cell
	count int

	// Bounding box of live cells; -1 when the sheet is empty.
	maxRow int
	maxCol int

	parse  ParseFunc
	logger *slog.Logger
}

// New creates an empty Sheet. By default formulas are parsed with
// formula.Parse and debug events are discarded.
// Complexity: O(1).
func New(opts ...Option) *Sheet {
	s := &Sheet{
		cells:  make(map[int]map[int]*Cell),
		maxRow: -1,
		maxCol: -1,
		parse:  parseFormula,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SetCell writes text into the cell at pos, creating the cell if needed.
// See Cell.Set for how text is interpreted. On error the sheet is left
// unchanged, including its bounding box.
func (s *Sheet) SetCell(pos position.Position, text string) error {
	if !pos.IsValid() {
		return fmt.Errorf("%w: %v", ErrInvalidPosition, pos)
	}

	c := s.get(pos)
	created := c == nil
	if created {
		c = s.materialize(pos)
	}

	if err := c.Set(text); err != nil {
		// A cell created only for this write is rolled back.
		if created && !c.IsReferenced() {
			s.remove(c)
		}
		return err
	}

	return nil
}

// Cell returns the live cell at pos, or nil when nothing was ever
// materialized there. It never creates cells.
func (s *Sheet) Cell(pos position.Position) (*Cell, error) {
	if !pos.IsValid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPosition, pos)
	}

	return s.get(pos), nil
}

// ClearCell empties the cell at pos. Absent cells are a no-op.
//
// A cell that other formulas still read is reset to Empty and stays live,
// since its incoming edges carry invalidation and cycle checks for those
// formulas. Any other cell is excised from its neighbours' edge sets and
// removed; the bounding box is recomputed when the cell lay on its edge.
func (s *Sheet) ClearCell(pos position.Position) error {
	if !pos.IsValid() {
		return fmt.Errorf("%w: %v", ErrInvalidPosition, pos)
	}

	c := s.get(pos)
	if c == nil {
		return nil
	}

	c.Clear()
	if c.IsReferenced() {
		s.logger.Debug("cell kept as empty", slog.String("cell", pos.String()), slog.Int("dependents", len(c.incoming)))
		return nil
	}
	s.remove(c)

	return nil
}

// PrintableSize returns the size of the minimal rectangle anchored at A1
// that covers every live cell; {0, 0} for an empty sheet.
func (s *Sheet) PrintableSize() position.Size {
	return position.Size{Rows: s.maxRow + 1, Cols: s.maxCol + 1}
}

// Len returns the number of live cells.
func (s *Sheet) Len() int {
	return s.count
}

// All yields every live cell in (Row, Col) order. The sheet must not be
// mutated during iteration.
func (s *Sheet) All() iter.Seq2[position.Position, *Cell] {
	return func(yield func(position.Position, *Cell) bool) {
		positions := make([]position.Position, 0, s.count)
		for col, rows := range s.cells {
			for row := range rows {
				positions = append(positions, position.Position{Row: row, Col: col})
			}
		}
		slices.SortFunc(positions, position.Compare)

		for _, p := range positions {
			if !yield(p, s.get(p)) {
				return
			}
		}
	}
}

// get returns the live cell at pos or nil. pos must be valid.
func (s *Sheet) get(pos position.Position) *Cell {
	return s.cells[pos.Col][pos.Row]
}

// cellPtr returns the cell at pos, materializing an Empty one if absent.
func (s *Sheet) cellPtr(pos position.Position) *Cell {
	if c := s.get(pos); c != nil {
		return c
	}

	return s.materialize(pos)
}

// materialize stores a new Empty cell at pos and grows the bounding box.
func (s *Sheet) materialize(pos position.Position) *Cell {
	rows, ok := s.cells[pos.Col]
	if !ok {
		rows = make(map[int]*Cell)
		s.cells[pos.Col] = rows
	}
	c := newCell(s, pos)
	rows[pos.Row] = c
	s.count++

	s.maxRow = max(s.maxRow, pos.Row)
	s.maxCol = max(s.maxCol, pos.Col)

	return c
}

// remove drops c from storage. c must not be referenced by any formula.
//
// Steps:
//  1. Excise any remaining outgoing edges from the targets' incoming sets.
//  2. Delete the storage slot (and the column when it becomes empty).
//  3. Detach c so stale handles cannot write into the graph.
//  4. Rescan the bounding box if c lay on its edge.
func (s *Sheet) remove(c *Cell) {
	// 1) Excise.
	s.unlink(c)

	// 2) Storage.
	rows := s.cells[c.pos.Col]
	delete(rows, c.pos.Row)
	if len(rows) == 0 {
		delete(s.cells, c.pos.Col)
	}
	s.count--

	// 3) Detach.
	c.sheet = nil
	s.logger.Debug("cell removed", slog.String("cell", c.pos.String()))

	// 4) Bounding box.
	if c.pos.Row == s.maxRow || c.pos.Col == s.maxCol {
		s.recomputeBounds()
	}
}

// recomputeBounds rescans all live cells. Complexity: O(V).
func (s *Sheet) recomputeBounds() {
	s.maxRow, s.maxCol = -1, -1
	for col, rows := range s.cells {
		s.maxCol = max(s.maxCol, col)
		for row := range rows {
			s.maxRow = max(s.maxRow, row)
		}
	}
}
