// Package store keeps an append-only history of program scans in SQLite.
//
// Each row records one scanned program: where it came from, its
// content-addressed hash, and the canonical JSON of its instructions.
//
//   - Rescanning unchanged source inserts nothing: UNIQUE(source, program_hash)
//     with ON CONFLICT DO NOTHING. A rescan of an older version only advances
//     that row's last_seen_seq.
//   - Ordering uses seq INTEGER (logical clock), never timestamps.
//   - ListScans orders by seq ASC, id ASC COLLATE BINARY; LatestScan by
//     last_seen_seq.
//
// Hashes and canonical JSON come from internal/ir.
package store
