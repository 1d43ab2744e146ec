// Package trace defines the call-lifecycle trace record, the writers that
// persist records to NDJSON, CSV, or SQLite, and the reader that loads a
// trace back for browsing.
//
// A trace file is newline-delimited JSON, UTF-8, one record per line.
// Records are append-only; the only cross-record structure is the per-thread
// call depth, which grows by one on entering a call and shrinks by one after
// the matching return is written.
package trace
