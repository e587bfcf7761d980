package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/anchorix/internal/testutil"
)

func TestProgramHashDeterminism(t *testing.T) {
	h1, err := ProgramHash(counterProgram())
	require.NoError(t, err)
	h2, err := ProgramHash(counterProgram())
	require.NoError(t, err)

	assert.Equal(t, h1, h2, "ProgramHash must be deterministic")
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestProgramHashChangesWithInput(t *testing.T) {
	base := MustProgramHash(counterProgram())

	renamed := counterProgram()
	renamed.Name = "counter_v2"

	retyped := counterProgram()
	retyped.Instructions[0].Args[0].Type = testutil.Named("u32")

	reordered := counterProgram()
	reordered.Instructions[0], reordered.Instructions[1] = reordered.Instructions[1], reordered.Instructions[0]

	assert.NotEqual(t, base, MustProgramHash(renamed), "program name is part of identity")
	assert.NotEqual(t, base, MustProgramHash(retyped), "argument types are part of identity")
	assert.NotEqual(t, base, MustProgramHash(reordered), "instruction order is part of identity")
}

func TestProgramHashIgnoresRawSyntax(t *testing.T) {
	withRaw := counterProgram()
	withRaw.Instructions[0].Raw = testutil.Fn("initialize")

	assert.Equal(t, MustProgramHash(counterProgram()), MustProgramHash(withRaw))
}

func TestInstructionHashDomainSeparation(t *testing.T) {
	ix := counterProgram().Instructions[0]
	ixHash, err := InstructionHash(ix)
	require.NoError(t, err)

	single := Program{Name: "counter", Instructions: []Instruction{ix}}
	assert.NotEqual(t, ixHash, MustProgramHash(single))
	assert.Equal(t, hashWithDomain(DomainInstruction, mustCanonical(t, ix.CanonicalMap())), ixHash)
}

func mustCanonical(t *testing.T, v any) []byte {
	t.Helper()
	data, err := MarshalCanonical(v)
	require.NoError(t, err)
	return data
}
