package engine

import (
	"fmt"
	"maps"
	"slices"

	"github.com/dshills/inkwell/internal/engine/commands"
	"github.com/dshills/inkwell/internal/engine/history"
	"github.com/dshills/inkwell/internal/engine/lines"
	"github.com/dshills/inkwell/internal/engine/schema"
	"github.com/dshills/inkwell/internal/engine/search"
	"github.com/dshills/inkwell/internal/engine/state"
)

// Command identifiers.
const (
	CmdToggleBold               = "toggleBold"
	CmdToggleItalic             = "toggleItalic"
	CmdToggleCode               = "toggleCode"
	CmdToggleUnderline          = "toggleUnderline"
	CmdToggleStrikethrough      = "toggleStrikethrough"
	CmdClearFormatting          = "clearFormatting"
	CmdMoveLineUp               = "moveLineUp"
	CmdMoveLineDown             = "moveLineDown"
	CmdCopyLineUp               = "copyLineUp"
	CmdCopyLineDown             = "copyLineDown"
	CmdDeleteLine               = "deleteLine"
	CmdSelectWord               = "selectWord"
	CmdSelectNextOccurrence     = "selectNextOccurrence"
	CmdSelectPreviousOccurrence = "selectPreviousOccurrence"
	CmdSmartSelectAll           = "smartSelectAll"
	CmdEnter                    = "enter"
	CmdUndo                     = "undo"
	CmdRedo                     = "redo"
	CmdSearchNext               = "searchNext"
	CmdSearchPrev               = "searchPrev"
	CmdSearchClose              = "searchClose"
	CmdSelectAll                = "selectAll"
	CmdDeleteSelection          = "deleteSelection"
)

var markToggles = []struct {
	id   string
	mark string
}{
	{CmdToggleBold, schema.Bold},
	{CmdToggleItalic, schema.Italic},
	{CmdToggleCode, schema.Code},
	{CmdToggleUnderline, schema.Underline},
	{CmdToggleStrikethrough, schema.Strikethrough},
}

// defaultCommands builds the command table for the engine's schema. Mark
// toggles whose mark type is missing are left out.
func (e *Engine) defaultCommands() map[string]state.Command {
	cmds := map[string]state.Command{
		CmdClearFormatting:          commands.ClearFormatting(),
		CmdMoveLineUp:               lines.MoveLineUp(),
		CmdMoveLineDown:             lines.MoveLineDown(),
		CmdCopyLineUp:               lines.CopyLineUp(),
		CmdCopyLineDown:             lines.CopyLineDown(),
		CmdDeleteLine:               lines.DeleteLine(),
		CmdSelectWord:               lines.SelectWord(),
		CmdSelectNextOccurrence:     lines.SelectNextOccurrence(),
		CmdSelectPreviousOccurrence: lines.SelectPreviousOccurrence(),
		CmdSmartSelectAll:           e.smart.Command(),
		CmdEnter:                    commands.Enter(),
		CmdUndo:                     history.Undo(),
		CmdRedo:                     history.Redo(),
		CmdSearchNext:               search.NextMatch(),
		CmdSearchPrev:               search.PrevMatch(),
		CmdSearchClose:              search.Close(),
		CmdSelectAll:                commands.SelectAll,
		CmdDeleteSelection:          commands.DeleteSelection,
	}
	for _, t := range markToggles {
		if e.schema.MarkType(t.mark) != nil {
			cmds[t.id] = commands.ToggleMark(t.mark, nil)
		}
	}
	return cmds
}

// Register adds a command under id.
func (e *Engine) Register(id string, cmd state.Command) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.commands[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, id)
	}
	e.commands[id] = cmd
	return nil
}

// HasCommand reports whether id is registered.
func (e *Engine) HasCommand(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	_, ok := e.commands[id]
	return ok
}

// Commands returns the registered command identifiers in sorted order.
func (e *Engine) Commands() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return slices.Sorted(maps.Keys(e.commands))
}

func (e *Engine) command(id string) (state.Command, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	cmd, ok := e.commands[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, id)
	}
	return cmd, nil
}
