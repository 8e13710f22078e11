// Package chunker splits normalized document text into overlapping,
// sentence-boundary-aware windows sized for retrieval.
//
// Windows prefer to end just after a sentence terminator when one falls in
// the last 30% of the window; otherwise the cut is hard and may land
// mid-sentence. Adjacent windows overlap by a configurable number of
// characters so that context spanning a cut is retrievable from either side.
package chunker
