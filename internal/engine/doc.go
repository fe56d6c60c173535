// Package engine provides the note editing engine for Inkwell.
//
// The engine package serves as the main facade, combining the immutable
// document model, transactions, commands and overlays into a single API
// that a host shell drives with command identifiers.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - model: immutable document tree with flat integer positions
//   - schema: the note vocabulary of node and mark types
//   - transform: steps, step maps and composable mappings
//   - state: selections, transactions, plugins and the command contract
//   - commands: mark toggling and queries, Enter, typing
//   - lines: move, copy and delete of block ranges, word and occurrence
//     selection, progressive select-all
//   - decoration, search, activeline: derived overlays
//   - history: undo and redo as a state plugin
//
// # Thread Safety
//
// All Engine operations are safe for concurrent use. Commands run one at a
// time under a write lock; each dispatches at most one transaction.
// Queries take a read lock and return immutable values.
//
// # Basic Usage
//
//	e := engine.New(engine.WithContent("<p>one</p><p>two</p>"))
//
//	// Move the first line below the second
//	e.SetSelection(1, 1)
//	ok, err := e.Run(engine.CmdMoveLineDown)
//
//	// ok is false when a command does not apply; that is not an error
//	ok, _ = e.Run(engine.CmdMoveLineDown)
//
//	e.Undo()
//
// # Persistence
//
// Content changes are delivered to OnContentChange listeners on the next
// frame. With the default TickScheduler the host calls Tick from its event
// loop; several edits within one frame produce one delivery, and markup
// identical to the last delivery is not sent again:
//
//	e.OnContentChange(func(markup string) { save(markup) })
//	e.InsertText("a")
//	e.InsertText("b")
//	e.Tick() // save called once
//
// # Macros
//
// Macro groups every transaction dispatched by fn into one undo step:
//
//	e.Macro(func() error {
//	    e.Run(engine.CmdCopyLineDown)
//	    _, err := e.Run(engine.CmdToggleBold)
//	    return err
//	})
//
// # Read-Only Mode
//
// A read-only engine still moves the selection and searches, but commands
// that change the document fail with ErrReadOnly:
//
//	e := engine.New(engine.WithContent("<p>x</p>"), engine.WithReadOnly())
//	_, err := e.Run(engine.CmdDeleteLine) // err == engine.ErrReadOnly
//
// # Error Handling
//
//   - ErrUnknownCommand: no command registered under the identifier
//   - ErrDuplicateCommand: Register with an identifier already in use
//   - ErrOffsetOutOfRange: selection positions outside the document
//   - ErrReadOnly: content change on a read-only engine
//
// Malformed initial markup is not an error: the engine logs a warning and
// opens an empty document.
package engine
