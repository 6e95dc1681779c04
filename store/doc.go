// Package store persists sheets in a bbolt database file.
//
// What:
//
//   - Each sheet lives in its own bucket, named after the sheet.
//   - Keys are 8 bytes: big-endian uint32 row then uint32 column, so a
//     cursor walks cells in (Row, Col) order.
//   - Values are the cell texts exactly as Cell.Text returns them. Values
//     are recomputed on Load by replaying those texts into a new Sheet.
//   - Every live cell is saved, including Empty ones, so a loaded sheet has
//     the same printable size as the saved one.
//
// Errors:
//
//   - ErrSheetNotFound  no bucket with that name.
//   - ErrInvalidName    empty sheet name.
//   - ErrCorruptRecord  a stored key or text could not be replayed.
//
// Concurrency:
//
//   - A Store is safe for concurrent use; bbolt serializes writers. The
//     *sheet.Sheet passed to Save must not be mutated during the call.
package store
