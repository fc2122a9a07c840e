// Package logtail reads the tail of qbzctl's own JSON log for the log pane.
//
// # Reading
//
// Read keeps a ring buffer of maxLines while scanning the file once, so
// memory stays O(maxLines) however large the log grows. Blank lines are
// skipped. A missing file is treated as empty.
//
// # Decoding
//
// Parse decodes one line written by package logging. The time, level,
// logger and message keys become Entry fields; everything else except
// caller and stacktrace lands in Fields. Lines that are not JSON objects
// (a panic trace, say) are kept verbatim in Raw.
//
// Entry.String renders a compact single line:
//
//	10:15:30 WARN [engine.scheduler.push] – push channel closed error=EOF
package logtail
