// Package extractors turns documents on disk into plain text for the
// structural parser.
//
// Each file format has its own subpackage:
//
//   - pdf: pdftotext (poppler) with a pure-Go fallback reader
//   - plaintext: UTF-8 text files read as-is
//
// Registry dispatches on the file extension and implements
// driven.TextExtractor.
package extractors
