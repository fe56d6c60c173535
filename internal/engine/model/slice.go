package model

// Slice is a piece cut out of a document. OpenStart and OpenEnd give the
// depth at which the content on each side is open (cut through).
type Slice struct {
	Content   *Fragment
	OpenStart int
	OpenEnd   int
}

// EmptySlice is the slice with no content.
var EmptySlice = &Slice{Content: EmptyFragment}

// NewSlice creates a slice.
func NewSlice(content *Fragment, openStart, openEnd int) *Slice {
	if content == nil {
		content = EmptyFragment
	}
	return &Slice{Content: content, OpenStart: openStart, OpenEnd: openEnd}
}

// Size returns the number of positions the slice adds when inserted.
func (s *Slice) Size() int {
	return s.Content.Size() - s.OpenStart - s.OpenEnd
}

// Eq reports structural equality.
func (s *Slice) Eq(other *Slice) bool {
	return s.OpenStart == other.OpenStart && s.OpenEnd == other.OpenEnd && s.Content.Eq(other.Content)
}
