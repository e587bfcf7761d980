package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/anchorix/internal/ir"
	"github.com/roach88/anchorix/internal/testutil"
)

// createTestStore creates a new store in a temp dir with sequential IDs.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithIDGenerator(testutil.NewSequenceIDs("")))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestProgram builds a program with one initialize instruction per
// argument name given.
func createTestProgram(name string, argNames ...string) ir.Program {
	args := make([]ir.Arg, len(argNames))
	for i, n := range argNames {
		args[i] = ir.Arg{Name: n, Type: testutil.Named("u64")}
	}
	return ir.Program{
		Name: name,
		Instructions: []ir.Instruction{{
			Name:         "initialize",
			Context:      ir.Arg{Name: "ctx", Type: testutil.Ctx("Initialize")},
			ContextIdent: "Initialize",
			Args:         args,
		}},
	}
}
