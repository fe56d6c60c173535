// Package markup converts between persisted note markup and documents.
//
// Persisted notes are HTML fragments. The parser sanitizes its input with a
// user-generated-content policy, walks the resulting tree and maps known
// elements onto the note vocabulary. Elements it does not know degrade to
// plain paragraphs so a note always opens. The serializer renders a
// document back into the same element set, nesting marks in rank order.
package markup
