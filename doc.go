// Package gridcalc is a spreadsheet engine: a sparse grid of cells holding
// text, numbers or arithmetic formulas that read other cells, with results
// cached lazily and recomputed only after something they read has changed.
//
// Packages:
//
//   - position  zero-based (row, column) addresses, bounds and A1 notation.
//   - formula   parsing, canonical rendering and evaluation of formulas.
//   - sheet     cells, the bidirectional dependency graph, cycle rejection
//     and cache invalidation. This is the core; everything else is a surface
//     around it.
//   - store     bbolt persistence, one bucket per sheet.
//   - sheetio   CSV and XLSX import/export.
//   - api       an HTTP server for one sheet, built on gin.
//
// The gridcalc command (cmd/gridcalc) prints, converts, imports and serves
// sheets.
//
// Quick start:
//
//	s := sheet.New()
//	a1, _ := position.Parse("A1")
//	b1, _ := position.Parse("B1")
//	_ = s.SetCell(a1, "5")
//	_ = s.SetCell(b1, "=A1*2")
//	_ = s.PrintValues(os.Stdout) // 5	10
//
// Guarantees:
//
//   - A write that would make a cell depend on itself is rejected with
//     sheet.ErrCircularDependency and changes nothing.
//   - Every read returns the value a full recomputation would produce.
//   - A Sheet is not safe for concurrent use; api.Server serializes access.
package gridcalc
