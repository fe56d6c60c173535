package transform

import (
	"fmt"
	"strings"
)

// Mappable is anything that maps positions.
type Mappable interface {
	// Map maps pos. assoc < 0 keeps a position at an insertion point
	// before the inserted content; assoc > 0 moves it after.
	Map(pos, assoc int) int

	// MapResult maps pos and reports whether surrounding content was
	// deleted.
	MapResult(pos, assoc int) MapResult
}

// MapResult is the result of mapping a position with deletion info.
type MapResult struct {
	Pos int

	// Deleted reports that the content on the assoc side of the position
	// was deleted.
	Deleted bool

	// DeletedBefore and DeletedAfter report deletion of the content
	// directly before or after the position.
	DeletedBefore bool
	DeletedAfter  bool

	// DeletedAcross reports that the position was inside a deleted range.
	DeletedAcross bool
}

// StepMap describes the position changes made by one step as a list of
// replaced ranges: start, old size and new size.
type StepMap struct {
	ranges   []int
	inverted bool
}

// EmptyStepMap maps every position to itself.
var EmptyStepMap = &StepMap{}

// NewStepMap creates a map from flat (start, oldSize, newSize) triples.
func NewStepMap(ranges ...int) *StepMap {
	if len(ranges)%3 != 0 {
		panic(fmt.Sprintf("transform: step map ranges must be triples, got %d values", len(ranges)))
	}
	if len(ranges) == 0 {
		return EmptyStepMap
	}
	return &StepMap{ranges: ranges}
}

// Map implements Mappable.
func (m *StepMap) Map(pos, assoc int) int {
	return m.mapPos(pos, assoc).Pos
}

// MapResult implements Mappable.
func (m *StepMap) MapResult(pos, assoc int) MapResult {
	return m.mapPos(pos, assoc)
}

func (m *StepMap) indexes() (oldIndex, newIndex int) {
	if m.inverted {
		return 2, 1
	}
	return 1, 2
}

func (m *StepMap) mapPos(pos, assoc int) MapResult {
	diff := 0
	oldIndex, newIndex := m.indexes()
	for i := 0; i < len(m.ranges); i += 3 {
		start := m.ranges[i]
		if m.inverted {
			start -= diff
		}
		if start > pos {
			break
		}
		oldSize, newSize := m.ranges[i+oldIndex], m.ranges[i+newIndex]
		end := start + oldSize
		if pos <= end {
			side := assoc
			if oldSize > 0 {
				switch pos {
				case start:
					side = -1
				case end:
					side = 1
				}
			}
			res := MapResult{Pos: start + diff}
			if side >= 0 {
				res.Pos += newSize
			}
			if oldSize > 0 {
				res.DeletedBefore = pos != start
				res.DeletedAfter = pos != end
				res.DeletedAcross = pos != start && pos != end
			}
			if assoc < 0 {
				res.Deleted = oldSize > 0 && pos != start
			} else {
				res.Deleted = oldSize > 0 && pos != end
			}
			return res
		}
		diff += newSize - oldSize
	}
	return MapResult{Pos: pos + diff}
}

// ForEach calls fn for each changed range with old and new coordinates.
func (m *StepMap) ForEach(fn func(oldStart, oldEnd, newStart, newEnd int)) {
	oldIndex, newIndex := m.indexes()
	diff := 0
	for i := 0; i < len(m.ranges); i += 3 {
		start := m.ranges[i]
		oldStart := start
		if m.inverted {
			oldStart = start - diff
		}
		newStart := oldStart + diff
		oldSize, newSize := m.ranges[i+oldIndex], m.ranges[i+newIndex]
		fn(oldStart, oldStart+oldSize, newStart, newStart+newSize)
		diff += newSize - oldSize
	}
}

// SizeDelta returns the change in document size produced by the map.
func (m *StepMap) SizeDelta() int {
	oldIndex, newIndex := m.indexes()
	d := 0
	for i := 0; i < len(m.ranges); i += 3 {
		d += m.ranges[i+newIndex] - m.ranges[i+oldIndex]
	}
	return d
}

// Invert returns the map that undoes this one.
func (m *StepMap) Invert() *StepMap {
	if len(m.ranges) == 0 {
		return m
	}
	return &StepMap{ranges: m.ranges, inverted: !m.inverted}
}

func (m *StepMap) String() string {
	var b strings.Builder
	if m.inverted {
		b.WriteString("-")
	}
	b.WriteString("[")
	for i, r := range m.ranges {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "%d", r)
	}
	b.WriteString("]")
	return b.String()
}
