package formula_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/gridcalc/formula"
)

// TestValue_Variants checks accessors report exactly one variant.
func TestValue_Variants(t *testing.T) {
	s := formula.StringValue("hi")
	txt, ok := s.Text()
	assert.True(t, ok)
	assert.Equal(t, "hi", txt)
	_, ok = s.Number()
	assert.False(t, ok)

	n := formula.NumberValue(2.5)
	assert.Equal(t, formula.KindNumber, n.Kind())
	_, ok = n.Err()
	assert.False(t, ok)

	e := formula.ErrorValue(formula.NewError(formula.CategoryRef))
	got, ok := e.Err()
	assert.True(t, ok)
	assert.Equal(t, formula.CategoryRef, got.Category())

	var zero formula.Value
	assert.Equal(t, formula.StringValue(""), zero)
}

// TestValue_String renders display text.
func TestValue_String(t *testing.T) {
	assert.Equal(t, "abc", formula.StringValue("abc").String())
	assert.Equal(t, "10", formula.NumberValue(10).String())
	assert.Equal(t, "0.1", formula.NumberValue(0.1).String())
	assert.Equal(t, "#DIV/0!", formula.ErrorValue(formula.NewError(formula.CategoryDiv0)).String())
	assert.Equal(t, "#VALUE!", formula.NewError(formula.CategoryValue).Error())
	assert.Equal(t, "#ERROR!", formula.Category(0).String())
}
