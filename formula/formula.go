package formula

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"

	"github.com/katalvlaran/gridcalc/position"
)

// ErrSyntax indicates a malformed or unsupported expression.
var ErrSyntax = errors.New("formula: syntax error")

// Formula is a parsed, immutable expression.
type Formula struct {
	root node
	refs []position.Position
}

// Parse parses expression (the text after '=') into a Formula.
//
// Steps:
//  1. Run the expr parser to obtain a generic AST.
//  2. Narrow the AST to the supported arithmetic subset.
//  3. Collect, sort and de-duplicate the referenced positions.
//
// Returns ErrSyntax (wrapped with the parser's message) on failure.
// Complexity: O(n) in the length of the expression.
func Parse(expression string) (*Formula, error) {
	// 1) Generic parse.
	tree, err := parser.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	// 2) Narrow to the arithmetic subset.
	root, err := convert(tree.Node)
	if err != nil {
		return nil, err
	}

	// 3) References in (Row, Col) order without duplicates.
	var refs []position.Position
	collectRefs(root, &refs)
	slices.SortFunc(refs, position.Compare)
	refs = slices.Compact(refs)

	return &Formula{root: root, refs: refs}, nil
}

// ReferencedCells returns the positions read by f, ascending and without
// duplicates. Cell tokens that fall outside the sheet bounds are reported as
// position.None so callers can reject them. The slice must not be modified.
func (f *Formula) ReferencedCells() []position.Position {
	return f.refs
}

// Expression renders f canonically: no whitespace, minimal parentheses.
func (f *Formula) Expression() string {
	var sb strings.Builder
	write(&sb, f.root)

	return sb.String()
}

// Evaluate computes f, resolving references through lookup.
// The result is a number Value or an error Value.
func (f *Formula) Evaluate(lookup Lookup) Value {
	v, ferr := f.root.eval(lookup)
	if ferr != nil {
		return ErrorValue(*ferr)
	}

	return NumberValue(v)
}

// convert maps an expr AST node onto the supported node set.
func convert(n ast.Node) (node, error) {
	switch n := n.(type) {
	case *ast.IntegerNode:
		return numberNode(float64(n.Value)), nil

	case *ast.FloatNode:
		return numberNode(n.Value), nil

	case *ast.IdentifierNode:
		if !position.IsReference(n.Value) {
			return nil, fmt.Errorf("%w: unknown identifier %q", ErrSyntax, n.Value)
		}
		pos, err := position.Parse(n.Value)
		if err != nil {
			pos = position.None
		}

		return refNode{pos: pos, text: n.Value}, nil

	case *ast.UnaryNode:
		op, ok := unaryOps[n.Operator]
		if !ok {
			return nil, fmt.Errorf("%w: unsupported operator %q", ErrSyntax, n.Operator)
		}
		x, err := convert(n.Node)
		if err != nil {
			return nil, err
		}

		return unaryNode{op: op, x: x}, nil

	case *ast.BinaryNode:
		op, ok := binaryOps[n.Operator]
		if !ok {
			return nil, fmt.Errorf("%w: unsupported operator %q", ErrSyntax, n.Operator)
		}
		l, err := convert(n.Left)
		if err != nil {
			return nil, err
		}
		r, err := convert(n.Right)
		if err != nil {
			return nil, err
		}

		return binaryNode{op: op, l: l, r: r}, nil
	}

	return nil, fmt.Errorf("%w: unsupported expression %T", ErrSyntax, n)
}

func collectRefs(n node, out *[]position.Position) {
	switch n := n.(type) {
	case refNode:
		*out = append(*out, n.pos)
	case unaryNode:
		collectRefs(n.x, out)
	case binaryNode:
		collectRefs(n.l, out)
		collectRefs(n.r, out)
	}
}
