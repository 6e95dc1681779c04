package sheetio

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/katalvlaran/gridcalc/position"
	"github.com/katalvlaran/gridcalc/sheet"
)

// DefaultSheetName is the worksheet used when none is named.
const DefaultSheetName = "Sheet1"

// ReadXLSX builds a sheet from one worksheet of a workbook. An empty
// sheetName selects the active worksheet. Cells holding a formula are read
// as "=" plus the formula; other cells as their raw value.
func ReadXLSX(r io.Reader, sheetName string, opts ...sheet.Option) (*sheet.Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("sheetio: open xlsx: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(f.GetActiveSheetIndex())
	}
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("sheetio: read xlsx: %w", err)
	}

	s := sheet.New(opts...)
	for rowIdx, row := range rows {
		for colIdx, raw := range row {
			p := position.Position{Row: rowIdx, Col: colIdx}
			name, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, fmt.Errorf("sheetio: cell %s: %w", cellName(p), err)
			}

			// 1) Formulas take precedence over cached values.
			text := raw
			expr, err := f.GetCellFormula(sheetName, name)
			if err != nil {
				return nil, fmt.Errorf("sheetio: formula %s: %w", name, err)
			}
			if expr != "" {
				text = string(sheet.FormulaSign) + expr
			}

			// 2) Replay.
			if text == "" {
				continue
			}
			if err := replay(s, p, text); err != nil {
				return nil, err
			}
		}
	}

	return s, nil
}

// WriteXLSX writes s into a new single-sheet workbook. Formula cells become
// worksheet formulas, numeric literals numbers and everything else strings.
func WriteXLSX(w io.Writer, s *sheet.Sheet, sheetName string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	if sheetName != DefaultSheetName {
		if err := f.SetSheetName(DefaultSheetName, sheetName); err != nil {
			return fmt.Errorf("sheetio: rename sheet: %w", err)
		}
	}

	for p, c := range s.All() {
		if err := writeXLSXCell(f, sheetName, p, c); err != nil {
			return fmt.Errorf("sheetio: cell %s: %w", p, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("sheetio: write xlsx: %w", err)
	}

	return nil
}

func writeXLSXCell(f *excelize.File, sheetName string, p position.Position, c *sheet.Cell) error {
	name := p.String()
	text := c.Text()
	switch {
	case text == "":
		return nil
	case isFormulaText(text):
		return f.SetCellFormula(sheetName, name, text[1:])
	}

	// Only literals whose text survives a number round trip are numeric.
	if n, ok := c.Value().Number(); ok && strconv.FormatFloat(n, 'g', -1, 64) == text {
		return f.SetCellFloat(sheetName, name, n, -1, 64)
	}

	return f.SetCellStr(sheetName, name, text)
}

// isFormulaText reports whether text reads back as a formula.
func isFormulaText(text string) bool {
	return len(text) > 1 && text[0] == sheet.FormulaSign
}
