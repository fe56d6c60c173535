package state

// Dispatch receives the transaction built by a command.
type Dispatch func(tr *Transaction)

// Command is an editing operation. A nil dispatch asks only whether the
// command applies. A command that returns false has no side effects.
type Command func(s *EditorState, dispatch Dispatch) bool

// Chain returns a command that runs cmds in order and stops at the first
// one that applies.
func Chain(cmds ...Command) Command {
	return func(s *EditorState, dispatch Dispatch) bool {
		for _, cmd := range cmds {
			if cmd(s, dispatch) {
				return true
			}
		}
		return false
	}
}

// CanRun reports whether cmd applies to s without dispatching.
func CanRun(cmd Command, s *EditorState) bool {
	return cmd(s, nil)
}

// Run applies cmd to s and returns the resulting state. It returns s and
// false when the command does not apply.
func Run(cmd Command, s *EditorState) (*EditorState, bool) {
	next := s
	ok := cmd(s, func(tr *Transaction) {
		next = s.Apply(tr)
	})
	return next, ok
}
