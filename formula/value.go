package formula

import (
	"strconv"

	"github.com/katalvlaran/gridcalc/position"
)

// Category classifies a computational error.
type Category uint8

const (
	CategoryRef   Category = iota + 1 // #REF! - reference could not be resolved
	CategoryValue                     // #VALUE! - operand is not a number
	CategoryDiv0                      // #DIV/0! - division by zero or non-finite result
)

// categoryTokens maps each category to its display token.
var categoryTokens = map[Category]string{
	CategoryRef:   "#REF!",
	CategoryValue: "#VALUE!",
	CategoryDiv0:  "#DIV/0!",
}

// String returns the display token of c.
func (c Category) String() string {
	if tok, ok := categoryTokens[c]; ok {
		return tok
	}

	return "#ERROR!"
}

// Error is a computational error carried inside a Value.
// It also satisfies the error interface so it can flow through a Lookup.
type Error struct {
	category Category
}

// NewError returns an Error of category c.
func NewError(c Category) Error {
	return Error{category: c}
}

// Category returns the error's category.
func (e Error) Category() Category { return e.category }

// String returns the display token, e.g. "#DIV/0!".
func (e Error) String() string { return e.category.String() }

func (e Error) Error() string { return e.category.String() }

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindString Kind = iota
	KindNumber
	KindError
)

// Value is the result of reading a cell: a string, a float64 or an Error.
// The zero Value is the empty string. Values are comparable with ==.
type Value struct {
	kind   Kind
	text   string
	number float64
	err    Error
}

// StringValue wraps s.
func StringValue(s string) Value { return Value{kind: KindString, text: s} }

// NumberValue wraps f.
func NumberValue(f float64) Value { return Value{kind: KindNumber, number: f} }

// ErrorValue wraps e.
func ErrorValue(e Error) Value { return Value{kind: KindError, err: e} }

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// Text returns the string variant.
func (v Value) Text() (string, bool) { return v.text, v.kind == KindString }

// Number returns the numeric variant.
func (v Value) Number() (float64, bool) { return v.number, v.kind == KindNumber }

// Err returns the error variant.
func (v Value) Err() (Error, bool) { return v.err, v.kind == KindError }

// String renders v for display: strings verbatim, numbers in Go's shortest
// representation, errors as their token.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.number, 'g', -1, 64)
	case KindError:
		return v.err.String()
	default:
		return v.text
	}
}

// Lookup resolves a referenced position to the current value of that cell.
// A non-nil error makes the referencing formula evaluate to #REF!.
type Lookup func(pos position.Position) (Value, error)
