// Package engine drives a scan of one Rust source file end to end.
//
// A scan:
//
//  1. parses the file with the tree-sitter frontend (syntax/rustsrc)
//  2. locates program modules by attribute, or one module by name
//  3. turns each module's handlers into instructions (internal/compiler),
//     either fail-fast or collecting every diagnostic
//  4. checks each program against the IR schema (internal/schema)
//  5. optionally appends the programs to the scan history (internal/store)
//
// Programs come back in source order and instructions in declaration order,
// whatever the worker count.
//
// # Drift
//
// Drift rescans a file and compares each program's content hash with the
// latest recorded scan of that program. Hashes are computed over canonical
// JSON, so a rescan of unchanged source never reports drift.
package engine
