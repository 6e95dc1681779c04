// Package sheet is the computational core of the spreadsheet: a sparse grid
// of cells whose formulas may read other cells, with lazily cached results
// and edit-time rejection of circular references.
//
// What:
//
//   - Cell: a closed three-state content machine (Empty, Literal, Formula)
//     plus two edge sets: outgoing (cells its formula reads) and incoming
//     (cells whose formulas read it). Edges are position keys, never
//     pointers; only the Sheet owns cells.
//   - Sheet: a column → row index of live cells, the bounding box used for
//     printing, and the graph maintenance performed on every write.
//
// Invariants after every completed mutation:
//
//   - Edge symmetry: B ∈ outgoing(A) ⇔ A ∈ incoming(B).
//   - Acyclicity: the outgoing relation over live cells has no cycle.
//   - Every edge endpoint is a live cell. A position first seen as a
//     reference is materialized as an Empty cell.
//   - The bounding box is the minimal rectangle covering all live cells.
//   - A cached formula result never depends on a changed cell: any content
//     change clears the caches of all transitive dependents.
//
// Errors:
//
//   - ErrInvalidPosition     the target or a referenced position is out of bounds.
//   - ErrFormulaSyntax       the formula text does not parse (wraps formula.ErrSyntax).
//   - ErrCircularDependency  the formula would close a reference cycle.
//   - ErrDetachedCell        the *Cell was removed from its sheet.
//
// Rejected writes leave the sheet exactly as it was. Computational failures
// (#DIV/0!, #REF!, #VALUE!) are values, never errors, and are never cached.
//
// Concurrency: a Sheet is not safe for concurrent use; callers serialize.
//
// Complexity:
//
//   - SetCell with a formula: O(V+E) for cycle detection, O(k) edge updates.
//   - Value on a cached formula: O(1); uncached: one evaluation per stale cell.
//   - ClearCell on the bounding-box edge: O(V) rescan.
//   - EvaluationOrder / Recalculate: one DFS over all cells and edges;
//     Recalculate then evaluates each stale formula once, inputs first.
package sheet
