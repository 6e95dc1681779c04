// Package position defines the zero-based (row, column) address of a cell,
// the sheet-wide bounds every address must respect, and the A1 notation
// used by formulas, files and the HTTP surface.
//
// Ordering:
//
//   - Positions are ordered by Row, then Col. Every sorted list and every
//     persistence key in this module uses that order.
//
// Errors:
//
//   - ErrInvalid  the text is not an A1 reference or lies outside the bounds.
package position

import (
	"errors"
	"fmt"
	"strconv"
)

// Sheet-wide bounds. A position is valid iff 0 <= Row < MaxRows and
// 0 <= Col < MaxCols.
const (
	MaxRows = 16384
	MaxCols = 16384

	// letters in the base-26 column alphabet.
	letters = 26
	// maxColLetters is the longest column name that can be in bounds ("XFD").
	maxColLetters = 3
	// maxRowDigits is the longest row number that can be in bounds ("16384").
	maxRowDigits = 5
)

// ErrInvalid indicates malformed or out-of-bounds A1 text.
var ErrInvalid = errors.New("position: invalid cell reference")

// Position is a zero-based cell address.
type Position struct {
	Row int
	Col int
}

// None is the canonical invalid position.
var None = Position{Row: -1, Col: -1}

// Size is the extent of a rectangle anchored at A1.
type Size struct {
	Rows int
	Cols int
}

// IsValid reports whether p lies within the sheet bounds.
// Complexity: O(1).
func (p Position) IsValid() bool {
	return p.Row >= 0 && p.Row < MaxRows && p.Col >= 0 && p.Col < MaxCols
}

// Compare orders positions by Row, then Col. It returns -1, 0 or +1 and is
// suitable for slices.SortFunc.
func Compare(a, b Position) int {
	switch {
	case a.Row < b.Row:
		return -1
	case a.Row > b.Row:
		return 1
	case a.Col < b.Col:
		return -1
	case a.Col > b.Col:
		return 1
	}

	return 0
}

// Less reports whether p sorts before q.
func (p Position) Less(q Position) bool {
	return Compare(p, q) < 0
}

// String renders p in A1 notation ("A1", "AB12"). Invalid positions render
// as the empty string.
func (p Position) String() string {
	if !p.IsValid() {
		return ""
	}

	return ColumnName(p.Col) + strconv.Itoa(p.Row+1)
}

// ColumnName converts a zero-based column index to letters: 0 -> A,
// 25 -> Z, 26 -> AA. Negative indexes yield "".
func ColumnName(col int) string {
	if col < 0 {
		return ""
	}
	var buf [8]byte
	i := len(buf)
	for n := col + 1; n > 0; n = (n - 1) / letters {
		i--
		buf[i] = byte('A' + (n-1)%letters)
	}

	return string(buf[i:])
}

// Parse converts A1 text into a Position.
// Only upper-case column letters are accepted and the row number must be
// at least 1. Malformed or out-of-bounds text yields ErrInvalid.
func Parse(s string) (Position, error) {
	p, ok := parse(s)
	if !ok {
		return None, fmt.Errorf("%w: %q", ErrInvalid, s)
	}

	return p, nil
}

// IsReference reports whether s has the lexical shape of an A1 reference
// (upper-case letters followed by digits), regardless of bounds.
func IsReference(s string) bool {
	i := 0
	for i < len(s) && isUpper(s[i]) {
		i++
	}
	if i == 0 || i == len(s) {
		return false
	}
	for j := i; j < len(s); j++ {
		if !isDigit(s[j]) {
			return false
		}
	}

	return true
}

func parse(s string) (Position, bool) {
	if !IsReference(s) {
		return None, false
	}

	// 1) Split into the letter and digit runs.
	i := 0
	for isUpper(s[i]) {
		i++
	}
	colPart, rowPart := s[:i], s[i:]
	if len(colPart) > maxColLetters || len(rowPart) > maxRowDigits {
		return None, false
	}

	// 2) Base-26 column, one-based while accumulating.
	col := 0
	for j := 0; j < len(colPart); j++ {
		col = col*letters + int(colPart[j]-'A') + 1
	}

	// 3) One-based row number.
	row, err := strconv.Atoi(rowPart)
	if err != nil || row < 1 {
		return None, false
	}

	p := Position{Row: row - 1, Col: col - 1}
	if !p.IsValid() {
		return None, false
	}

	return p, true
}

func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }
