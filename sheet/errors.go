package sheet

import "errors"

// Sentinel errors for sheet operations.
var (
	// ErrInvalidPosition indicates a position outside the sheet bounds,
	// either as a write target or as a formula reference.
	ErrInvalidPosition = errors.New("sheet: invalid position")

	// ErrFormulaSyntax indicates formula text that could not be parsed.
	ErrFormulaSyntax = errors.New("sheet: formula syntax error")

	// ErrCircularDependency indicates a formula that would make a cell
	// depend on itself, directly or transitively.
	ErrCircularDependency = errors.New("sheet: circular dependency")

	// ErrDetachedCell indicates a write through a *Cell that has been
	// removed from its sheet by ClearCell.
	ErrDetachedCell = errors.New("sheet: cell is detached")
)
