package formula

import (
	"math"
	"strconv"
	"strings"

	"github.com/katalvlaran/gridcalc/position"
)

// node is one vertex of the narrowed expression tree.
type node interface {
	eval(lookup Lookup) (float64, *Error)
}

type (
	numberNode float64

	refNode struct {
		pos  position.Position // position.None when out of bounds
		text string            // original token, kept for rendering
	}

	unaryNode struct {
		op byte
		x  node
	}

	binaryNode struct {
		op   byte
		l, r node
	}
)

var (
	unaryOps  = map[string]byte{"+": '+', "-": '-'}
	binaryOps = map[string]byte{"+": '+', "-": '-', "*": '*', "/": '/'}
)

// Operator precedence used when rendering.
const (
	precAdd = iota
	precMul
	precUnary
	precAtom
)

func (n numberNode) eval(Lookup) (float64, *Error) {
	return float64(n), nil
}

func (n refNode) eval(lookup Lookup) (float64, *Error) {
	if !n.pos.IsValid() || lookup == nil {
		return 0, errPtr(CategoryRef)
	}
	v, err := lookup(n.pos)
	if err != nil {
		return 0, errPtr(CategoryRef)
	}

	return toNumber(v)
}

func (n unaryNode) eval(lookup Lookup) (float64, *Error) {
	x, ferr := n.x.eval(lookup)
	if ferr != nil {
		return 0, ferr
	}
	if n.op == '-' {
		return -x, nil
	}

	return x, nil
}

func (n binaryNode) eval(lookup Lookup) (float64, *Error) {
	l, ferr := n.l.eval(lookup)
	if ferr != nil {
		return 0, ferr
	}
	r, ferr := n.r.eval(lookup)
	if ferr != nil {
		return 0, ferr
	}

	var res float64
	switch n.op {
	case '+':
		res = l + r
	case '-':
		res = l - r
	case '*':
		res = l * r
	case '/':
		if r == 0 {
			return 0, errPtr(CategoryDiv0)
		}
		res = l / r
	}
	// Overflow to ±Inf is reported like a division by zero.
	if math.IsInf(res, 0) || math.IsNaN(res) {
		return 0, errPtr(CategoryDiv0)
	}

	return res, nil
}

// toNumber converts a referenced cell's value into an operand.
func toNumber(v Value) (float64, *Error) {
	switch v.Kind() {
	case KindNumber:
		f, _ := v.Number()
		return f, nil
	case KindError:
		e, _ := v.Err()
		return 0, &e
	}

	s, _ := v.Text()
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, errPtr(CategoryValue)
	}

	return f, nil
}

func errPtr(c Category) *Error {
	e := NewError(c)
	return &e
}

func write(sb *strings.Builder, n node) {
	switch n := n.(type) {
	case numberNode:
		sb.WriteString(strconv.FormatFloat(float64(n), 'g', -1, 64))

	case refNode:
		if n.pos.IsValid() {
			sb.WriteString(n.pos.String())
		} else {
			sb.WriteString(n.text)
		}

	case unaryNode:
		sb.WriteByte(n.op)
		// -(-x) rather than --x.
		writeOperand(sb, n.x, precedence(n.x) <= precUnary)

	case binaryNode:
		p := precedence(n)
		writeOperand(sb, n.l, precedence(n.l) < p)
		sb.WriteByte(n.op)
		// a-(b-c) and a/(b*c) keep their parentheses; a+(b-c) does not need them.
		rp := precedence(n.r)
		writeOperand(sb, n.r, rp < p || rp == precUnary || (rp == p && (n.op == '-' || n.op == '/')))
	}
}

func writeOperand(sb *strings.Builder, n node, parens bool) {
	if parens {
		sb.WriteByte('(')
	}
	write(sb, n)
	if parens {
		sb.WriteByte(')')
	}
}

func precedence(n node) int {
	switch n := n.(type) {
	case binaryNode:
		if n.op == '+' || n.op == '-' {
			return precAdd
		}
		return precMul
	case unaryNode:
		return precUnary
	}

	return precAtom
}
