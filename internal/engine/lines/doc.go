// Package lines implements line-level editing commands.
//
// A line is a top-level block of the document. Commands in this package
// operate on the block range covered by the selection: they move, copy
// and delete whole blocks, select words and their further occurrences,
// and widen the selection progressively from block to paragraph group to
// the whole document.
//
// All commands follow the state.Command contract. They report false when
// inapplicable and dispatch exactly one transaction otherwise.
package lines
