// Package sheetio imports and exports sheets as CSV and XLSX.
//
// Both formats carry cell texts, not values: a formula cell is written as
// its canonical "=" text (CSV) or as a worksheet formula (XLSX), and reading
// replays texts into a new Sheet in (Row, Col) order. Empty fields are
// skipped on read.
//
// Errors:
//
//   - ErrUnsupportedFormat  Load/Save with an unknown file extension.
//   - Replay failures wrap the sheet error (ErrFormulaSyntax,
//     ErrCircularDependency, ErrInvalidPosition) together with the A1
//     address of the offending cell.
package sheetio
