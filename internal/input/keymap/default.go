package keymap

// defaultBindings are the built-in key bindings.
var defaultBindings = map[string]string{
	// Formatting
	"Mod-b":       "toggleBold",
	"Mod-i":       "toggleItalic",
	"Mod-e":       "toggleCode",
	"Mod-u":       "toggleUnderline",
	"Mod-Shift-x": "toggleStrikethrough",
	"Mod-\\":      "clearFormatting",

	// Lines
	"Alt-ArrowUp":         "moveLineUp",
	"Alt-ArrowDown":       "moveLineDown",
	"Shift-Alt-ArrowUp":   "copyLineUp",
	"Shift-Alt-ArrowDown": "copyLineDown",
	"Mod-Shift-k":         "deleteLine",

	// Selection
	"Mod-d":       "selectWord",
	"Mod-Shift-d": "selectPreviousOccurrence",
	"Mod-a":       "smartSelectAll",
	"Backspace":   "deleteSelection",
	"Delete":      "deleteSelection",

	// Editing
	"Enter":       "enter",
	"Mod-z":       "undo",
	"Mod-Shift-z": "redo",
	"Mod-y":       "redo",

	// Search
	"F3":       "searchNext",
	"Mod-g":    "searchNext",
	"Shift-F3": "searchPrev",
	"Escape":   "searchClose",
}
