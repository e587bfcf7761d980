package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/anchorix/internal/compiler"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return s
}

func TestRun_Scenarios(t *testing.T) {
	for _, name := range []string{"counter_basic", "broken_fail_fast", "broken_collect_all", "multi_parallel"} {
		t.Run(name, func(t *testing.T) {
			result, err := Run(t.Context(), loadTestScenario(t, name))
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
		})
	}
}

func TestRunWithGolden(t *testing.T) {
	for _, name := range []string{"counter_basic", "broken_fail_fast", "broken_collect_all"} {
		t.Run(name, func(t *testing.T) {
			result, err := RunWithGolden(t, loadTestScenario(t, name))
			require.NoError(t, err)
			assert.True(t, result.Pass)
		})
	}
}

func TestRun_FailingAssertions(t *testing.T) {
	s := loadTestScenario(t, "counter_basic")
	s.Assertions = []Assertion{
		{Type: AssertProgramCount, Count: 2},
		{Type: AssertInstruction, Program: "counter", Name: "initialize", ContextIdent: "Init"},
		{Type: AssertErrorKind, Kind: string(compiler.EmptyParameterList)},
	}

	result, err := Run(t.Context(), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "Expected: 2 program(s)")
	assert.Contains(t, result.Errors[1], "Actual: context_ident Initialize")
	assert.Contains(t, result.Errors[2], "Actual: scan succeeded")
}

func TestRun_MissingSource(t *testing.T) {
	s := loadTestScenario(t, "counter_basic")
	s.Source = filepath.Join(t.TempDir(), "gone.rs")

	_, err := Run(t.Context(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read source")
}

func TestRun_ModuleRestriction(t *testing.T) {
	s := loadTestScenario(t, "multi_parallel")
	s.Module = "registry"
	s.Assertions = []Assertion{
		{Type: AssertProgramCount, Count: 1},
		{Type: AssertInstructionOrder, Program: "registry", Names: []string{"register"}},
	}

	result, err := Run(t.Context(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}
