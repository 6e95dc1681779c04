// Package formula is the expression evaluator consumed by package sheet.
// It turns the text after a cell's leading '=' into an evaluable tree,
// lists the cells the tree reads, evaluates it against a lookup callback and
// renders it back to canonical text.
//
// What:
//
//   - Parse: tokenizing and parsing are delegated to the expr-lang/expr
//     parser; the resulting AST is then narrowed to spreadsheet arithmetic:
//     numeric literals, A1 cell references, unary + and -, binary + - * /
//     and parentheses. Any other construct is a syntax error.
//   - Evaluate: walks the tree with a Lookup. Computational failures are
//     ordinary Values of kind error (#REF!, #VALUE!, #DIV/0!), never Go
//     errors.
//   - ReferencedCells: sorted, de-duplicated positions read by the formula.
//   - Expression: canonical text with minimal parentheses and no spaces.
//
// Conversions applied to referenced values:
//
//   - number       used as is
//   - ""           0
//   - numeric text parsed as float64
//   - other text   #VALUE!
//   - error value  propagated unchanged
//   - lookup error #REF!
//
// Errors:
//
//   - ErrSyntax  the expression is malformed or uses unsupported syntax.
package formula
