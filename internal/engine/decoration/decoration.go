// Package decoration provides derived visual overlays for a document.
//
// Decorations are never part of the saved document. A Set is an immutable
// sorted collection that can be carried across a transaction by mapping it
// through the transaction's position mapping, dropping decorations whose
// content was deleted.
package decoration

import (
	"fmt"
	"slices"
	"sort"

	"github.com/dshills/inkwell/internal/engine/transform"
)

// Type is the kind of decoration.
type Type uint8

const (
	// TypeInline styles a range of inline content.
	TypeInline Type = iota

	// TypeNode styles a whole node; From and To are the node boundaries.
	TypeNode
)

// String returns the string representation of the decoration type.
func (t Type) String() string {
	switch t {
	case TypeInline:
		return "inline"
	case TypeNode:
		return "node"
	default:
		return "unknown"
	}
}

// Priority orders decorations that cover the same range. Higher priority
// decorations render on top.
type Priority uint8

const (
	PriorityLow    Priority = 50
	PriorityNormal Priority = 100
	PriorityHigh   Priority = 150
)

// Decoration is a styled range.
type Decoration struct {
	From     int
	To       int
	Type     Type
	Class    string
	Priority Priority

	// Attrs holds extra presentation attributes.
	Attrs map[string]string
}

// Inline creates an inline decoration over [from, to).
func Inline(from, to int, class string) Decoration {
	return Decoration{From: from, To: to, Type: TypeInline, Class: class, Priority: PriorityNormal}
}

// Node creates a node decoration for the node spanning [from, to).
func Node(from, to int, class string) Decoration {
	return Decoration{From: from, To: to, Type: TypeNode, Class: class, Priority: PriorityNormal}
}

// WithPriority returns a copy with priority p.
func (d Decoration) WithPriority(p Priority) Decoration {
	d.Priority = p
	return d
}

func (d Decoration) String() string {
	return fmt.Sprintf("%s[%d,%d)%s", d.Type, d.From, d.To, d.Class)
}

// Map maps the decoration through m. ok is false when the decoration's
// content was deleted.
func (d Decoration) Map(m transform.Mappable) (Decoration, bool) {
	switch d.Type {
	case TypeNode:
		from, to := m.MapResult(d.From, 1), m.MapResult(d.To, -1)
		if from.Deleted || to.Deleted || to.Pos <= from.Pos {
			return d, false
		}
		d.From, d.To = from.Pos, to.Pos
	default:
		from, to := m.Map(d.From, 1), m.Map(d.To, -1)
		if from >= to {
			return d, false
		}
		d.From, d.To = from, to
	}
	return d, true
}

// Set is an immutable, sorted collection of decorations.
type Set struct {
	decos []Decoration
}

// Empty is the set with no decorations.
var Empty = &Set{}

// NewSet creates a set from decorations. Empty ranges are dropped.
func NewSet(decos ...Decoration) *Set {
	out := make([]Decoration, 0, len(decos))
	for _, d := range decos {
		if d.To > d.From {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return Empty
	}
	sortDecorations(out)
	return &Set{decos: out}
}

func sortDecorations(decos []Decoration) {
	sort.SliceStable(decos, func(i, j int) bool {
		if decos[i].From != decos[j].From {
			return decos[i].From < decos[j].From
		}
		if decos[i].To != decos[j].To {
			return decos[i].To < decos[j].To
		}
		return decos[i].Priority < decos[j].Priority
	})
}

// Len returns the number of decorations.
func (s *Set) Len() int { return len(s.decos) }

// All returns the decorations in document order.
func (s *Set) All() []Decoration { return slices.Clone(s.decos) }

// Find returns decorations overlapping [from, to]. A nil filter accepts
// all.
func (s *Set) Find(from, to int, filter func(Decoration) bool) []Decoration {
	var out []Decoration
	for _, d := range s.decos {
		if d.From > to {
			break
		}
		if d.To < from {
			continue
		}
		if filter == nil || filter(d) {
			out = append(out, d)
		}
	}
	return out
}

// Add returns a set with decos added.
func (s *Set) Add(decos ...Decoration) *Set {
	return NewSet(append(slices.Clone(s.decos), decos...)...)
}

// Remove returns a set without decorations for which drop returns true.
func (s *Set) Remove(drop func(Decoration) bool) *Set {
	return NewSet(slices.DeleteFunc(slices.Clone(s.decos), drop)...)
}

// Map maps every decoration through m, dropping deleted ones.
func (s *Set) Map(m transform.Mappable) *Set {
	if len(s.decos) == 0 {
		return s
	}
	out := make([]Decoration, 0, len(s.decos))
	for _, d := range s.decos {
		if md, ok := d.Map(m); ok {
			out = append(out, md)
		}
	}
	return NewSet(out...)
}

// Merge combines several sets.
func Merge(sets ...*Set) *Set {
	var all []Decoration
	for _, s := range sets {
		if s != nil {
			all = append(all, s.decos...)
		}
	}
	return NewSet(all...)
}
