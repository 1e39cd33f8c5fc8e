// Package defect defines the typed violations a validation run can
// produce and the result value that carries them.
//
// Categories form a closed set; consumers switch over them
// exhaustively so that adding a category is a compile-time-visible
// change everywhere it matters. A defect is data, not control flow:
// only encoding and I/O categories ever halt a run.
package defect
