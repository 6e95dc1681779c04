package sheetio

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/katalvlaran/gridcalc/position"
	"github.com/katalvlaran/gridcalc/sheet"
)

// ReadCSV builds a sheet from CSV records; record i, field j is the text of
// the cell at (i, j). Ragged records are accepted.
func ReadCSV(r io.Reader, opts ...sheet.Option) (*sheet.Sheet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	s := sheet.New(opts...)
	for row := 0; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			return s, nil
		}
		if err != nil {
			return nil, fmt.Errorf("sheetio: read csv: %w", err)
		}
		for col, text := range record {
			if text == "" {
				continue
			}
			if err := replay(s, position.Position{Row: row, Col: col}, text); err != nil {
				return nil, err
			}
		}
	}
}

// WriteCSV writes the printable rectangle of s, one record per row, using
// cell texts. An empty sheet produces no records.
func WriteCSV(w io.Writer, s *sheet.Sheet) error {
	cw := csv.NewWriter(w)
	size := s.PrintableSize()
	record := make([]string, size.Cols)
	for row := 0; row < size.Rows; row++ {
		for col := range record {
			record[col] = ""
			c, _ := s.Cell(position.Position{Row: row, Col: col})
			if c != nil {
				record[col] = c.Text()
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("sheetio: write csv: %w", err)
		}
	}
	cw.Flush()

	return cw.Error()
}

func replay(s *sheet.Sheet, p position.Position, text string) error {
	if err := s.SetCell(p, text); err != nil {
		return fmt.Errorf("sheetio: cell %s: %w", cellName(p), err)
	}

	return nil
}

// cellName renders p for messages, including positions beyond the bounds.
func cellName(p position.Position) string {
	if p.IsValid() {
		return p.String()
	}

	return fmt.Sprintf("R%dC%d", p.Row+1, p.Col+1)
}
