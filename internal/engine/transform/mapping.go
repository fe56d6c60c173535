package transform

import (
	"fmt"

	"github.com/dshills/inkwell/internal/engine/model"
)

// Mapping is a pipeline of step maps. It records the size of the document
// it maps from so that stale positions are caught instead of silently
// producing wrong results. A size of -1 disables the check.
type Mapping struct {
	maps    []*StepMap
	srcSize int
	dstSize int
}

// NewMapping returns an empty mapping over a document of content size
// srcSize.
func NewMapping(srcSize int) *Mapping {
	return &Mapping{srcSize: srcSize, dstSize: srcSize}
}

// Maps returns the step maps in order.
func (m *Mapping) Maps() []*StepMap { return m.maps }

// SourceSize returns the content size of the document mapped from.
func (m *Mapping) SourceSize() int { return m.srcSize }

// TargetSize returns the content size of the document mapped to.
func (m *Mapping) TargetSize() int { return m.dstSize }

// AppendMap adds a step map to the end of the pipeline.
func (m *Mapping) AppendMap(sm *StepMap) {
	m.maps = append(m.maps, sm)
	if m.dstSize >= 0 {
		m.dstSize += sm.SizeDelta()
	}
}

// AppendMapping adds all maps of other. other must map from the document
// this mapping maps to.
func (m *Mapping) AppendMapping(other *Mapping) error {
	if m.dstSize >= 0 && other.srcSize >= 0 && m.dstSize != other.srcSize {
		return fmt.Errorf("%w: target size %d, next source size %d", ErrMappingMismatch, m.dstSize, other.srcSize)
	}
	for _, sm := range other.maps {
		m.AppendMap(sm)
	}
	return nil
}

// Slice returns a mapping of the maps in [from, len).
func (m *Mapping) Slice(from int) *Mapping {
	out := &Mapping{srcSize: -1, dstSize: -1}
	out.maps = append(out.maps, m.maps[from:]...)
	return out
}

// Compose returns a mapping equivalent to applying a then b.
func Compose(a, b *Mapping) (*Mapping, error) {
	out := &Mapping{srcSize: a.srcSize, dstSize: a.srcSize}
	out.maps = make([]*StepMap, 0, len(a.maps)+len(b.maps))
	for _, sm := range a.maps {
		out.AppendMap(sm)
	}
	if err := out.AppendMapping(b); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Mapping) check(pos int) {
	if pos < 0 || (m.srcSize >= 0 && pos > m.srcSize) {
		model.PanicRange("mapping position %d outside source document of size %d", pos, m.srcSize)
	}
}

// Map implements Mappable.
func (m *Mapping) Map(pos, assoc int) int {
	m.check(pos)
	for _, sm := range m.maps {
		pos = sm.Map(pos, assoc)
	}
	return pos
}

// MapResult implements Mappable. Deletion flags accumulate across maps.
func (m *Mapping) MapResult(pos, assoc int) MapResult {
	m.check(pos)
	var res MapResult
	for _, sm := range m.maps {
		r := sm.MapResult(pos, assoc)
		pos = r.Pos
		res.Deleted = res.Deleted || r.Deleted
		res.DeletedBefore = res.DeletedBefore || r.DeletedBefore
		res.DeletedAfter = res.DeletedAfter || r.DeletedAfter
		res.DeletedAcross = res.DeletedAcross || r.DeletedAcross
	}
	res.Pos = pos
	return res
}

// Invert returns a mapping that maps positions back.
func (m *Mapping) Invert() *Mapping {
	out := &Mapping{srcSize: m.dstSize, dstSize: m.dstSize}
	for i := len(m.maps) - 1; i >= 0; i-- {
		out.AppendMap(m.maps[i].Invert())
	}
	return out
}
