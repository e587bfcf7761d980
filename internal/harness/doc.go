// Package harness runs scan scenarios: YAML files naming a Rust source and
// the assertions its scan must satisfy.
//
// # Scenario Format
//
//	name: counter_basic
//	description: "Counter scans into two instructions"
//	source: ../src/counter.rs   # relative to the scenario file
//	module: counter             # optional; default scans every #[program]
//	mode: fail_fast             # or collect_all
//	workers: 1                  # optional
//	assertions:
//	  - type: program_count
//	    count: 1
//	  - type: instruction
//	    program: counter
//	    name: initialize
//	    context_ident: Initialize
//	    args: [start]
//	  - type: instruction_order
//	    program: counter
//	    names: [initialize, increment]
//	  - type: error_kind
//	    kind: UnsupportedParameterPattern
//	  - type: diagnostic
//	    field: tupled
//	    kind: UnsupportedParameterPattern
//
// # Assertion Types
//
//   - program_count: the scan produced exactly count programs
//   - instruction: a program has the named instruction; context_ident and
//     args (names, in order) are checked when given
//   - instruction_order: the program's instructions are exactly names
//   - error_kind: the scan failed with a compile error of kind
//   - diagnostic: collect-all mode reported kind for the handler field
//
// # Golden Snapshots
//
// RunWithGolden stores the canonical JSON of the scan outcome under
// testdata/golden/{name}.golden. Snapshots never contain hashes or file
// paths, so they survive moving the fixtures.
package harness
