// Package history provides undo/redo for the editor as a state plugin.
//
// Every content-changing transaction is recorded as an Entry holding the
// steps that revert it and the selection to restore. Transactions that
// carry the state.MetaAddToHistory metadata set to false are not
// recorded; instead the pending entries are mapped through them so undo
// still applies to the right content.
//
// # Grouping
//
// Consecutive transactions merge into one entry when they share a
// non-nil MetaGroup value, or when they come from the same UI event
// (state.MetaUIEvent) within the group delay:
//
//	tr.SetMeta(history.MetaGroup, macroID)
//
// Undo and Redo are ordinary commands and dispatch a single transaction.
package history
