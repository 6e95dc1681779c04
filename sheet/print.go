package sheet

import (
	"bufio"
	"io"

	"github.com/katalvlaran/gridcalc/position"
)

// PrintValues writes the printable rectangle row by row: cell values
// separated by tabs, each row terminated by a newline. Absent cells print
// as empty strings.
func (s *Sheet) PrintValues(w io.Writer) error {
	return s.print(w, func(c *Cell) string { return c.Value().String() })
}

// PrintTexts is PrintValues for cell texts.
func (s *Sheet) PrintTexts(w io.Writer) error {
	return s.print(w, (*Cell).Text)
}

func (s *Sheet) print(w io.Writer, render func(*Cell) string) error {
	bw := bufio.NewWriter(w)
	size := s.PrintableSize()
	for row := 0; row < size.Rows; row++ {
		for col := 0; col < size.Cols; col++ {
			if col > 0 {
				bw.WriteByte('\t')
			}
			if c := s.get(position.Position{Row: row, Col: col}); c != nil {
				bw.WriteString(render(c))
			}
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}
