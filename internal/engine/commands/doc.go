// Package commands implements the editing commands of the note editor:
// mark toggling and queries, clear-formatting, the Enter chain and basic
// selection and deletion commands.
//
// Every command follows the state.Command contract. Commands that depend
// on a node or mark type missing from the schema report false.
package commands
