// Package structure turns extracted legal text into a Chương/Điều/Khoản/Điểm
// tree.
//
// The pipeline has three stages, each independently testable:
//
//   - NormalizeLines cleans raw extracted text into logical lines
//   - Classify tags one line as a heading, a continuation or a blank
//   - Parse drives a small state machine over the classified lines
//
// Ordinal helpers (RomanToInt, ToOrdinal, LetterRank) convert heading labels
// into comparable integers for sort keys.
//
// Parsing is lossy by design: lines before the first article (letterhead,
// national motto, preamble) are dropped, and nothing here ever returns an
// error for malformed input.
package structure
