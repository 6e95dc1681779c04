package sheet_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gridcalc/formula"
	"github.com/katalvlaran/gridcalc/position"
	"github.com/katalvlaran/gridcalc/sheet"
)

// pos parses an A1 reference or fails the test.
func pos(t *testing.T, ref string) position.Position {
	t.Helper()
	p, err := position.Parse(ref)
	require.NoError(t, err)

	return p
}

func set(t *testing.T, s *sheet.Sheet, ref, text string) {
	t.Helper()
	require.NoError(t, s.SetCell(pos(t, ref), text), "SetCell(%s, %q)", ref, text)
}

func cell(t *testing.T, s *sheet.Sheet, ref string) *sheet.Cell {
	t.Helper()
	c, err := s.Cell(pos(t, ref))
	require.NoError(t, err)

	return c
}

func value(t *testing.T, s *sheet.Sheet, ref string) formula.Value {
	t.Helper()
	c := cell(t, s, ref)
	require.NotNil(t, c, "cell %s is absent", ref)

	return c.Value()
}

// TestSheet_RecomputesThroughDependency covers A1=5, B1=A1*2, then A1=7.
func TestSheet_RecomputesThroughDependency(t *testing.T) {
	s := sheet.New()
	set(t, s, "A1", "5")
	set(t, s, "B1", "=A1*2")
	assert.Equal(t, formula.NumberValue(10), value(t, s, "B1"))

	set(t, s, "A1", "7")
	assert.Equal(t, formula.NumberValue(14), value(t, s, "B1"))
}

// TestSheet_CircularDependencyRejected covers A1=B1 followed by B1=A1.
func TestSheet_CircularDependencyRejected(t *testing.T) {
	s := sheet.New()
	set(t, s, "A1", "=B1")

	err := s.SetCell(pos(t, "B1"), "=A1")
	assert.ErrorIs(t, err, sheet.ErrCircularDependency)

	b1 := cell(t, s, "B1")
	require.NotNil(t, b1, "B1 is materialized by A1's reference")
	assert.True(t, b1.IsEmpty())
	assert.Equal(t, "", b1.Text())
	assert.Empty(t, b1.ReferencedCells())
	assert.Equal(t, []position.Position{pos(t, "A1")}, b1.Dependents())
}

// TestSheet_RejectedCycleLeavesCellUnchanged checks content, value and edges.
func TestSheet_RejectedCycleLeavesCellUnchanged(t *testing.T) {
	s := sheet.New()
	set(t, s, "B1", "=C1+1")
	set(t, s, "C1", "4")
	set(t, s, "A1", "=B1")
	set(t, s, "D1", "=A1*2")
	require.Equal(t, formula.NumberValue(10), value(t, s, "D1"))

	before := cell(t, s, "B1")
	text, val := before.Text(), before.Value()
	refs, deps := before.ReferencedCells(), before.Dependents()

	err := s.SetCell(pos(t, "B1"), "=D1+C1")
	require.ErrorIs(t, err, sheet.ErrCircularDependency)

	after := cell(t, s, "B1")
	assert.Same(t, before, after)
	assert.Equal(t, text, after.Text())
	assert.Equal(t, val, after.Value())
	assert.Equal(t, refs, after.ReferencedCells())
	assert.Equal(t, deps, after.Dependents())
	assert.Equal(t, []position.Position{pos(t, "B1")}, cell(t, s, "C1").Dependents())
	assert.Nil(t, cell(t, s, "D1").Dependents())
}

// TestSheet_SelfReference rejects A1=A1 and rolls back the new cell.
func TestSheet_SelfReference(t *testing.T) {
	s := sheet.New()
	err := s.SetCell(pos(t, "C3"), "=C3+1")
	assert.ErrorIs(t, err, sheet.ErrCircularDependency)
	assert.Nil(t, cell(t, s, "C3"))
	assert.Equal(t, position.Size{}, s.PrintableSize())
	assert.Zero(t, s.Len())
}

// TestSheet_DiamondIsNotACycle checks shared dependencies are accepted.
func TestSheet_DiamondIsNotACycle(t *testing.T) {
	s := sheet.New()
	set(t, s, "A1", "1")
	set(t, s, "B1", "=A1+1")
	set(t, s, "C1", "=A1+2")
	set(t, s, "D1", "=B1+C1")
	set(t, s, "E1", "=B1+C1+D1")
	assert.Equal(t, formula.NumberValue(10), value(t, s, "E1"))
}

// TestSheet_DivisionByZero keeps the formula text while the value is an error.
func TestSheet_DivisionByZero(t *testing.T) {
	s := sheet.New()
	set(t, s, "A1", "0")
	set(t, s, "B1", "=10 / A1")

	b1 := cell(t, s, "B1")
	assert.Equal(t, "#DIV/0!", b1.Value().String())
	assert.Equal(t, "=10/A1", b1.Text())

	// Errors are not cached: fixing the input fixes the result.
	set(t, s, "A1", "4")
	assert.Equal(t, formula.NumberValue(2.5), b1.Value())
}

// TestSheet_UnwrittenReferenceIsZero materializes the target as Empty.
func TestSheet_UnwrittenReferenceIsZero(t *testing.T) {
	s := sheet.New()
	set(t, s, "A1", "=Z9+1")
	assert.Equal(t, formula.NumberValue(1), value(t, s, "A1"))

	z9 := cell(t, s, "Z9")
	require.NotNil(t, z9)
	assert.True(t, z9.IsEmpty())
	assert.True(t, z9.IsReferenced())
	assert.Equal(t, position.Size{Rows: 9, Cols: 26}, s.PrintableSize())
}

// TestSheet_Literals covers the literal value heuristic.
func TestSheet_Literals(t *testing.T) {
	cases := []struct {
		text string
		want formula.Value
	}{
		{"123", formula.NumberValue(123)},
		{"007", formula.NumberValue(7)},
		{"'123", formula.StringValue("123")},
		{"'", formula.StringValue("")},
		{"12.5", formula.StringValue("12.5")},
		{"-5", formula.StringValue("-5")},
		{"1e3", formula.StringValue("1e3")},
		{"hello", formula.StringValue("hello")},
		{"=", formula.StringValue("=")},
		{"'=1+2", formula.StringValue("=1+2")},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			s := sheet.New()
			set(t, s, "A1", tc.text)
			c := cell(t, s, "A1")
			assert.Equal(t, tc.want, c.Value())
			assert.Equal(t, tc.text, c.Text())
			assert.Nil(t, c.ReferencedCells())
		})
	}
}

// TestSheet_EmptyText sets a cell to Empty.
func TestSheet_EmptyText(t *testing.T) {
	s := sheet.New()
	set(t, s, "A1", "=1+2")
	set(t, s, "A1", "")

	c := cell(t, s, "A1")
	require.NotNil(t, c)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, formula.StringValue(""), c.Value())
	assert.Equal(t, "", c.Text())
}

// TestSheet_CanonicalText renders formulas without the original spacing.
func TestSheet_CanonicalText(t *testing.T) {
	s := sheet.New()
	set(t, s, "A1", "=  (1 + 2) * ((B2))")
	c := cell(t, s, "A1")
	assert.Equal(t, "=(1+2)*B2", c.Text())
	assert.Equal(t, []position.Position{pos(t, "B2")}, c.ReferencedCells())
}

// TestSheet_SyntaxErrorKeepsContent rejects malformed formulas.
func TestSheet_SyntaxErrorKeepsContent(t *testing.T) {
	s := sheet.New()
	set(t, s, "A1", "=1+2")

	err := s.SetCell(pos(t, "A1"), "=1+")
	assert.ErrorIs(t, err, sheet.ErrFormulaSyntax)
	assert.ErrorIs(t, err, formula.ErrSyntax)
	assert.Equal(t, "=1+2", cell(t, s, "A1").Text())
	assert.Equal(t, formula.NumberValue(3), value(t, s, "A1"))

	// A fresh cell is not left behind by a failed write.
	err = s.SetCell(pos(t, "Z100"), "=*")
	assert.ErrorIs(t, err, sheet.ErrFormulaSyntax)
	assert.Nil(t, cell(t, s, "Z100"))
	assert.Equal(t, position.Size{Rows: 1, Cols: 1}, s.PrintableSize())
}

// TestSheet_InvalidPositions covers out-of-bounds targets and references.
func TestSheet_InvalidPositions(t *testing.T) {
	s := sheet.New()
	bad := position.Position{Row: position.MaxRows, Col: 0}

	assert.ErrorIs(t, s.SetCell(bad, "1"), sheet.ErrInvalidPosition)
	assert.ErrorIs(t, s.ClearCell(bad), sheet.ErrInvalidPosition)
	_, err := s.Cell(bad)
	assert.ErrorIs(t, err, sheet.ErrInvalidPosition)

	err = s.SetCell(pos(t, "A1"), "=ZZZZ1+1")
	assert.ErrorIs(t, err, sheet.ErrInvalidPosition)
	assert.Nil(t, cell(t, s, "A1"))
}

// TestSheet_TransitiveInvalidation propagates through a chain of formulas.
func TestSheet_TransitiveInvalidation(t *testing.T) {
	s := sheet.New()
	set(t, s, "A1", "1")
	set(t, s, "B1", "=A1+1")
	set(t, s, "C1", "=B1+1")
	set(t, s, "D1", "=C1+1")
	require.Equal(t, formula.NumberValue(4), value(t, s, "D1"))

	set(t, s, "A1", "10")
	assert.Equal(t, formula.NumberValue(13), value(t, s, "D1"))

	// Replacing a middle formula invalidates only what is downstream.
	set(t, s, "B1", "=A1*3")
	assert.Equal(t, formula.NumberValue(32), value(t, s, "D1"))

	// Turning a formula into a literal also invalidates dependents.
	set(t, s, "C1", "100")
	assert.Equal(t, formula.NumberValue(101), value(t, s, "D1"))
	assert.Nil(t, cell(t, s, "B1").Dependents())
}

// TestSheet_StringOperands converts referenced text.
func TestSheet_StringOperands(t *testing.T) {
	s := sheet.New()
	set(t, s, "A1", "'12")
	set(t, s, "A2", "abc")
	set(t, s, "B1", "=A1+1")
	set(t, s, "B2", "=A2+1")
	set(t, s, "B3", "=B2+1")

	assert.Equal(t, formula.NumberValue(13), value(t, s, "B1"))
	assert.Equal(t, "#VALUE!", value(t, s, "B2").String())
	assert.Equal(t, "#VALUE!", value(t, s, "B3").String())
}

// TestSheet_ClearCellShrinksBounds removes the only edge cell.
func TestSheet_ClearCellShrinksBounds(t *testing.T) {
	s := sheet.New()
	set(t, s, "A1", "1")
	set(t, s, "B2", "2")
	set(t, s, "D5", "3")
	require.Equal(t, position.Size{Rows: 5, Cols: 4}, s.PrintableSize())

	require.NoError(t, s.ClearCell(pos(t, "D5")))
	assert.Equal(t, position.Size{Rows: 2, Cols: 2}, s.PrintableSize())

	// Interior cells leave the box alone.
	set(t, s, "C3", "x")
	require.NoError(t, s.ClearCell(pos(t, "B2")))
	assert.Equal(t, position.Size{Rows: 3, Cols: 3}, s.PrintableSize())

	require.NoError(t, s.ClearCell(pos(t, "C3")))
	require.NoError(t, s.ClearCell(pos(t, "A1")))
	assert.Equal(t, position.Size{}, s.PrintableSize())
	assert.Zero(t, s.Len())

	// Clearing an absent cell is a no-op.
	assert.NoError(t, s.ClearCell(pos(t, "H8")))
}

// TestSheet_ClearReferencedCell keeps the node so the edge keeps working.
func TestSheet_ClearReferencedCell(t *testing.T) {
	s := sheet.New()
	set(t, s, "A1", "5")
	set(t, s, "B1", "=A1*2")
	require.Equal(t, formula.NumberValue(10), value(t, s, "B1"))

	require.NoError(t, s.ClearCell(pos(t, "A1")))
	a1 := cell(t, s, "A1")
	require.NotNil(t, a1)
	assert.True(t, a1.IsEmpty())
	assert.Equal(t, formula.NumberValue(0), value(t, s, "B1"))

	set(t, s, "A1", "3")
	assert.Equal(t, formula.NumberValue(6), value(t, s, "B1"))

	// The edge is still there for cycle detection as well.
	assert.ErrorIs(t, s.SetCell(pos(t, "A1"), "=B1"), sheet.ErrCircularDependency)
}

// TestSheet_ClearFormulaCellExcisesEdges removes the cell from its targets.
func TestSheet_ClearFormulaCellExcisesEdges(t *testing.T) {
	s := sheet.New()
	set(t, s, "A1", "=B1+C1")
	a1 := cell(t, s, "A1")

	require.NoError(t, s.ClearCell(pos(t, "A1")))
	assert.Nil(t, cell(t, s, "A1"))
	assert.False(t, cell(t, s, "B1").IsReferenced())
	assert.False(t, cell(t, s, "C1").IsReferenced())

	// Stale handles cannot write into the graph.
	assert.ErrorIs(t, a1.Set("1"), sheet.ErrDetachedCell)

	// The former targets may now read the position freely.
	set(t, s, "B1", "=A1")
	assert.Equal(t, formula.NumberValue(0), value(t, s, "B1"))
}

// TestSheet_FormulaToLiteralDropsEdges allows the reverse reference afterwards.
func TestSheet_FormulaToLiteralDropsEdges(t *testing.T) {
	s := sheet.New()
	set(t, s, "A1", "=B1")
	set(t, s, "A1", "7")
	assert.False(t, cell(t, s, "B1").IsReferenced())

	set(t, s, "B1", "=A1")
	assert.Equal(t, formula.NumberValue(7), value(t, s, "B1"))
}

// TestSheet_CellSetDirectly mutates through the *Cell handle.
func TestSheet_CellSetDirectly(t *testing.T) {
	s := sheet.New()
	set(t, s, "A1", "2")
	set(t, s, "B1", "=A1+A1")
	require.Equal(t, formula.NumberValue(4), value(t, s, "B1"))

	a1 := cell(t, s, "A1")
	require.NoError(t, a1.Set("=3*3"))
	assert.Equal(t, formula.NumberValue(18), value(t, s, "B1"))

	a1.Clear()
	assert.Equal(t, formula.NumberValue(0), value(t, s, "B1"))
	assert.ErrorIs(t, a1.Set("=B1"), sheet.ErrCircularDependency)
}

// TestSheet_Print renders values and texts of the printable rectangle.
func TestSheet_Print(t *testing.T) {
	s := sheet.New()
	set(t, s, "A1", "2")
	set(t, s, "B1", "=A1*3")
	set(t, s, "A2", "'text")
	set(t, s, "C2", "=1/0")

	var values, texts bytes.Buffer
	require.NoError(t, s.PrintValues(&values))
	require.NoError(t, s.PrintTexts(&texts))

	assert.Equal(t, "2\t6\t\ntext\t\t#DIV/0!\n", values.String())
	assert.Equal(t, "2\t=A1*3\t\n'text\t\t=1/0\n", texts.String())

	var empty bytes.Buffer
	require.NoError(t, sheet.New().PrintValues(&empty))
	assert.Empty(t, empty.String())
}

// TestSheet_All iterates live cells in row-major order.
func TestSheet_All(t *testing.T) {
	s := sheet.New()
	set(t, s, "B2", "1")
	set(t, s, "A2", "2")
	set(t, s, "C1", "=D1")

	var got []string
	for p, c := range s.All() {
		got = append(got, p.String()+":"+c.Text())
	}
	assert.Equal(t, []string{"C1:=D1", "D1:", "A2:2", "B2:1"}, got)
	assert.Equal(t, 4, s.Len())

	// Early break stops the iteration.
	n := 0
	for range s.All() {
		n++
		break
	}
	assert.Equal(t, 1, n)
}
