package model

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// MarkType describes one kind of mark in a Schema.
type MarkType struct {
	Name   string
	Rank   int
	Schema *Schema
	Spec   *MarkSpec
}

// Create builds a mark of this type, filling attribute defaults.
// Missing required attributes are left nil.
func (mt *MarkType) Create(attrs map[string]any) *Mark {
	computed := make(map[string]any, len(mt.Spec.Attrs))
	for name, spec := range mt.Spec.Attrs {
		if v, ok := attrs[name]; ok {
			computed[name] = v
		} else {
			computed[name] = spec.Default
		}
	}
	if len(computed) == 0 {
		computed = nil
	}
	return &Mark{typ: mt, attrs: computed}
}

// Inclusive reports whether the mark extends to text typed at its end.
func (mt *MarkType) Inclusive() bool {
	return mt.Spec.Inclusive == nil || *mt.Spec.Inclusive
}

// Excludes reports whether marks of this type exclude marks of other.
// A mark type only excludes itself, so a text node holds at most one mark
// of each type.
func (mt *MarkType) Excludes(other *MarkType) bool {
	return mt == other
}

// IsInSet returns the mark of this type in the set, or nil.
func (mt *MarkType) IsInSet(set []*Mark) *Mark {
	for _, m := range set {
		if m.typ == mt {
			return m
		}
	}
	return nil
}

// RemoveFromSet returns the set without marks of this type.
func (mt *MarkType) RemoveFromSet(set []*Mark) []*Mark {
	var out []*Mark
	for _, m := range set {
		if m.typ != mt {
			out = append(out, m)
		}
	}
	return out
}

// String returns the type name.
func (mt *MarkType) String() string { return mt.Name }

// Mark is an attributed annotation attached to inline content. Marks are
// immutable values.
type Mark struct {
	typ   *MarkType
	attrs map[string]any
}

// Type returns the mark type.
func (m *Mark) Type() *MarkType { return m.typ }

// Attrs returns the mark attributes. Callers must not modify the map.
func (m *Mark) Attrs() map[string]any { return m.attrs }

// Attr returns a single attribute value.
func (m *Mark) Attr(name string) any { return m.attrs[name] }

// AttrString returns an attribute as a string, or "" when absent.
func (m *Mark) AttrString(name string) string {
	s, _ := m.attrs[name].(string)
	return s
}

// Eq reports whether two marks have the same type and attributes.
func (m *Mark) Eq(other *Mark) bool {
	if m == other {
		return true
	}
	return m.typ == other.typ && attrsEqual(m.attrs, other.attrs)
}

// AddToSet returns a new set with this mark added in rank order, replacing
// any mark it excludes. The input set is not modified.
func (m *Mark) AddToSet(set []*Mark) []*Mark {
	var out []*Mark
	placed := false
	for _, other := range set {
		if m.Eq(other) {
			return set
		}
		if m.typ.Excludes(other.typ) {
			continue
		}
		if !placed && other.typ.Rank > m.typ.Rank {
			out = append(out, m)
			placed = true
		}
		out = append(out, other)
	}
	if !placed {
		out = append(out, m)
	}
	return out
}

// RemoveFromSet returns the set without this mark.
func (m *Mark) RemoveFromSet(set []*Mark) []*Mark {
	for i, other := range set {
		if m.Eq(other) {
			out := make([]*Mark, 0, len(set)-1)
			out = append(out, set[:i]...)
			return append(out, set[i+1:]...)
		}
	}
	return set
}

// IsInSet reports whether an equal mark is in the set.
func (m *Mark) IsInSet(set []*Mark) bool {
	for _, other := range set {
		if m.Eq(other) {
			return true
		}
	}
	return false
}

func (m *Mark) String() string {
	if len(m.attrs) == 0 {
		return m.typ.Name
	}
	keys := make([]string, 0, len(m.attrs))
	for k := range m.attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, m.attrs[k]))
	}
	return m.typ.Name + "(" + strings.Join(parts, ",") + ")"
}

// MarkSetFrom builds a sorted mark set from marks in any order.
func MarkSetFrom(marks ...*Mark) []*Mark {
	var set []*Mark
	for _, m := range marks {
		if m != nil {
			set = m.AddToSet(set)
		}
	}
	return set
}

// SameMarkSet reports whether two sorted mark sets are equal.
func SameMarkSet(a, b []*Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Eq(b[i]) {
			return false
		}
	}
	return true
}

func attrsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !reflect.DeepEqual(av, bv) {
			return false
		}
	}
	return true
}
