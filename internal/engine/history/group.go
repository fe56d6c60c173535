package history

import (
	"time"

	"github.com/dshills/inkwell/internal/engine/state"
)

// MetaGroup is the metadata key that groups transactions into one undo
// entry. Consecutive recorded transactions with the same non-nil value
// merge.
const MetaGroup = "historyGroup"

// DefaultGroupDelay is how close consecutive transactions from the same
// UI event must be to merge.
const DefaultGroupDelay = 500 * time.Millisecond

// canGroup reports whether tr continues the newest entry of s.
func canGroup(s *State, tr *state.Transaction, event string, group any, delay time.Duration) bool {
	if len(s.undo) == 0 || s.lastTime.IsZero() {
		return false
	}
	if group != nil {
		return group == s.lastGroup
	}
	if s.lastGroup != nil || event == "" || event != s.lastEvent || delay <= 0 {
		return false
	}
	elapsed := tr.Time.Sub(s.lastTime)
	return elapsed >= 0 && elapsed < delay
}
