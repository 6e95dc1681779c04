// Package api exposes one sheet over HTTP with gin.
//
// Routes:
//
//	PUT    /cells/:ref   body {"text": "..."}  → 200 cell
//	GET    /cells/:ref                          → 200 cell, 404 when absent
//	DELETE /cells/:ref                          → 204
//	GET    /sheet?view=values|texts             → 200 sheet
//	GET    /healthcheck                         → 200 "health"
//
// A cell is rendered as {"ref", "text", "value", "kind"}; kind is one of
// "string", "number" or "error". The sheet response carries the printable
// size, every live cell and a rows×cols table of values or texts.
//
// Status codes: malformed references, bodies and formulas are 400, a write
// that would close a cycle is 409, a failed save is 500.
//
// A Server serializes all requests with a mutex: reading a value may fill
// caches, so even GETs mutate the sheet. When a store is configured every
// successful mutation saves the whole sheet.
package api
