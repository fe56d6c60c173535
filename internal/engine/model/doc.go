// Package model implements the immutable document tree used by the note
// editor engine.
//
// A document is a tree of Nodes. Branch nodes hold their children in a
// Fragment; text nodes hold a run of characters plus an ordered set of
// Marks. Every edit builds new nodes along the changed path and shares all
// untouched subtrees with the previous version of the document.
//
// # Positions
//
// Locations are addressed by a single integer in a flat coordinate space.
// A branch node occupies 1 (open) + content size + 1 (close) positions, a
// leaf node occupies 1 and a text node occupies one position per character
// (rune). Position 0 is the start of the root node's content and
// doc.Content().Size() is its end.
//
//	<p>One</p><p>Two</p>
//	0  1   4  5  6   9  10
//
// Resolve turns a position into a ResolvedPos carrying the ancestor chain
// and the offset into the innermost parent.
//
// # Schema
//
// Node and mark types come from a Schema built from NodeSpec and MarkSpec
// values. A node type declares a content expression ("block+", "inline*",
// "paragraph block*"), the marks it allows and its attribute defaults.
//
// # Errors
//
// Structural failures while replacing content are returned as
// *ReplaceError. Resolving a position outside the document is a programming
// error and panics with a *RangeError.
package model
