// Package transform implements document steps and position mapping.
//
// A Step is an atomic, invertible change to a document. Applying a step
// yields a new document and a StepMap describing how positions moved. A
// Transform accumulates steps and the Mapping they produce, so positions
// computed against the starting document can be carried forward:
//
//	tr := transform.New(doc)
//	if err := tr.Delete(3, 8); err != nil {
//		return err
//	}
//	newPos := tr.Mapping().Map(oldPos, 1)
//
// Mappings compose. Mapping a position through the composition of two
// mappings equals mapping it through each in turn. Mapping a position that
// lies outside the source document panics with a *model.RangeError.
package transform
