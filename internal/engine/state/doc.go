// Package state holds the editor state, transactions, plugins and the
// command protocol.
//
// An EditorState is an immutable snapshot: a document, a selection, the
// stored marks for a collapsed cursor and the state of each plugin. Edits
// are made by building a Transaction from a state and applying it, which
// produces the next state. Plugins are reducers that derive their next
// value from the transaction and the old and new states.
//
// A Command is a function of a state and an optional dispatch sink. With a
// nil dispatch it only reports whether it would apply. With a dispatch it
// builds at most one transaction, passes it to dispatch and reports true.
package state
