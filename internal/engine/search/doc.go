// Package search provides the incremental search overlay.
//
// The overlay is a state plugin. Its value is a *State holding the query,
// the ordered matches and the current match index, plus the decorations
// that highlight them. Queries and navigation arrive as transaction
// metadata under Key; the commands in this package build those
// transactions.
//
// Matching is case-insensitive, runs over every text run of the document
// and counts overlapping matches: after a match at i the scan resumes at
// i+1. Any content change while a query is active triggers a full rescan.
package search
