package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/anchorix/internal/ir"
)

func TestWriteScan(t *testing.T) {
	s := createTestStore(t)
	p := createTestProgram("counter", "amount")

	scan, inserted, err := s.WriteScan(t.Context(), "programs/counter/src/lib.rs", p)
	require.NoError(t, err)
	assert.True(t, inserted)

	assert.Equal(t, "scan-1", scan.ID)
	assert.Equal(t, int64(1), scan.Seq)
	assert.Equal(t, int64(1), scan.LastSeenSeq)
	assert.Equal(t, "programs/counter/src/lib.rs", scan.Source)
	assert.Equal(t, "counter", scan.Program)
	assert.Equal(t, ir.MustProgramHash(p), scan.ProgramHash)
	assert.Equal(t, 1, scan.InstructionCount)
	assert.Equal(t,
		`[{"args":[{"name":"amount","type":"u64"}],"context":{"name":"ctx","type":"Context<Initialize>"},"context_ident":"Initialize","name":"initialize"}]`,
		scan.Instructions)
	assert.Equal(t, ir.CompilerVersion, scan.CompilerVersion)
	assert.Equal(t, ir.IRVersion, scan.IRVersion)
}

func TestWriteScan_Idempotent(t *testing.T) {
	s := createTestStore(t)
	p := createTestProgram("counter")

	first, inserted, err := s.WriteScan(t.Context(), "lib.rs", p)
	require.NoError(t, err)
	require.True(t, inserted)

	again, inserted, err := s.WriteScan(t.Context(), "lib.rs", p)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, first, again)

	scans, err := s.ListScans(t.Context(), "")
	require.NoError(t, err)
	assert.Len(t, scans, 1)
}

func TestWriteScan_SeqIsMonotonic(t *testing.T) {
	s := createTestStore(t)

	var seqs []int64
	for _, p := range []ir.Program{
		createTestProgram("counter"),
		createTestProgram("counter", "amount"),
		createTestProgram("vault"),
	} {
		scan, inserted, err := s.WriteScan(t.Context(), "lib.rs", p)
		require.NoError(t, err)
		require.True(t, inserted)
		seqs = append(seqs, scan.Seq)
	}
	assert.Equal(t, []int64{1, 2, 3}, seqs)
}

func TestWriteScan_SameProgramDifferentSource(t *testing.T) {
	s := createTestStore(t)
	p := createTestProgram("counter")

	_, inserted, err := s.WriteScan(t.Context(), "a/lib.rs", p)
	require.NoError(t, err)
	require.True(t, inserted)

	_, inserted, err = s.WriteScan(t.Context(), "b/lib.rs", p)
	require.NoError(t, err)
	assert.True(t, inserted)
}

func TestWriteScan_CancelledContext(t *testing.T) {
	s := createTestStore(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, _, err := s.WriteScan(ctx, "lib.rs", createTestProgram("counter"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestWriteScan_RevertBecomesLatest(t *testing.T) {
	s := createTestStore(t)
	a := createTestProgram("counter")
	b := createTestProgram("counter", "amount")

	first, _, err := s.WriteScan(t.Context(), "lib.rs", a)
	require.NoError(t, err)
	_, _, err = s.WriteScan(t.Context(), "lib.rs", b)
	require.NoError(t, err)

	reverted, inserted, err := s.WriteScan(t.Context(), "lib.rs", a)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, first.ID, reverted.ID)
	assert.Equal(t, int64(1), reverted.Seq)
	assert.Equal(t, int64(3), reverted.LastSeenSeq)

	latest, err := s.LatestScan(t.Context(), "counter")
	require.NoError(t, err)
	assert.Equal(t, reverted, latest)

	// The clock moved past the revert.
	next, inserted, err := s.WriteScan(t.Context(), "lib.rs", createTestProgram("vault"))
	require.NoError(t, err)
	require.True(t, inserted)
	assert.Equal(t, int64(4), next.Seq)

	scans, err := s.ListScans(t.Context(), "counter")
	require.NoError(t, err)
	assert.Len(t, scans, 2)
}
