package harness

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/anchorix/internal/compiler"
	"github.com/roach88/anchorix/internal/ir"
	"github.com/roach88/anchorix/internal/testutil"
)

func testOutcome() *Outcome {
	return &Outcome{
		Programs: []*ir.Program{{
			Name: "vault",
			Instructions: []ir.Instruction{
				{
					Name:         "deposit",
					Context:      ir.Arg{Name: "ctx", Type: testutil.Ctx("Deposit")},
					ContextIdent: "Deposit",
					Args:         []ir.Arg{{Name: "amount", Type: testutil.Named("u64")}},
				},
				{
					Name:         "close",
					Context:      ir.Arg{Name: "ctx", Type: testutil.Ctx("Close")},
					ContextIdent: "Close",
					Args:         []ir.Arg{},
				},
			},
		}},
	}
}

func TestEvaluateAssertions_Pass(t *testing.T) {
	errs := EvaluateAssertions(testOutcome(), []Assertion{
		{Type: AssertProgramCount, Count: 1},
		{Type: AssertInstruction, Program: "vault", Name: "deposit", ContextIdent: "Deposit", Args: []string{"amount"}},
		{Type: AssertInstruction, Program: "vault", Name: "close", Args: []string{}},
		{Type: AssertInstruction, Program: "vault", Name: "close"},
		{Type: AssertInstructionOrder, Program: "vault", Names: []string{"deposit", "close"}},
	})
	assert.Empty(t, errs)
}

func TestEvaluateAssertions_Failures(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		want      string
	}{
		{"program count", Assertion{Type: AssertProgramCount, Count: 0}, "Actual: 1 program(s)"},
		{"unknown program", Assertion{Type: AssertInstruction, Program: "bank", Name: "deposit"}, "program bank not found"},
		{"unknown instruction", Assertion{Type: AssertInstruction, Program: "vault", Name: "withdraw"}, "instruction not found"},
		{"args mismatch", Assertion{Type: AssertInstruction, Program: "vault", Name: "deposit", Args: []string{}}, "args [amount]"},
		{"order", Assertion{Type: AssertInstructionOrder, Program: "vault", Names: []string{"close", "deposit"}}, "Actual: vault: [deposit close]"},
		{"error kind on success", Assertion{Type: AssertErrorKind, Kind: "EmptyParameterList"}, "scan succeeded"},
		{"diagnostic", Assertion{Type: AssertDiagnostic, Field: "deposit", Kind: "EmptyParameterList"}, "0 diagnostic(s)"},
		{"unknown type", Assertion{Type: "final_state"}, `unknown assertion type "final_state"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(testOutcome(), []Assertion{tt.assertion})
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], tt.want)
		})
	}
}

func TestEvaluateAssertions_ErrorKind(t *testing.T) {
	o := &Outcome{Err: &compiler.CompileError{Kind: compiler.ReceiverParameterNotAllowed, Message: "expected a typed argument not self"}}

	assert.Empty(t, EvaluateAssertions(o, []Assertion{
		{Type: AssertErrorKind, Kind: "ReceiverParameterNotAllowed"},
		{Type: AssertProgramCount, Count: 0},
	}))

	errs := EvaluateAssertions(o, []Assertion{{Type: AssertErrorKind, Kind: "EmptyParameterList"}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `kind "ReceiverParameterNotAllowed"`)

	o.Err = errors.New("boom")
	errs = EvaluateAssertions(o, []Assertion{{Type: AssertErrorKind, Kind: "EmptyParameterList"}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "boom")
}

func TestEvaluateAssertions_Diagnostic(t *testing.T) {
	o := &Outcome{Diagnostics: []compiler.ValidationError{
		{Field: "bare", Kind: compiler.EmptyParameterList, Code: compiler.ErrCodeEmptyParameterList},
	}}
	assert.Empty(t, EvaluateAssertions(o, []Assertion{{Type: AssertDiagnostic, Field: "bare", Kind: "EmptyParameterList"}}))
}

func TestAssertionError_IncludesOutcome(t *testing.T) {
	errs := EvaluateAssertions(testOutcome(), []Assertion{{Type: AssertProgramCount, Count: 3}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Assertion failed: program_count")
	assert.Contains(t, errs[0], "vault::deposit(amount) ctx=Deposit")
	assert.Contains(t, errs[0], "vault::close() ctx=Close")
}

func TestSnapshot_OmitsEmptySections(t *testing.T) {
	data, err := Snapshot("empty", &Outcome{})
	require.NoError(t, err)
	assert.Equal(t, `{"programs":[],"scenario_name":"empty"}`, string(data))
}

func TestSnapshot_UnknownError(t *testing.T) {
	data, err := Snapshot("x", &Outcome{Err: errors.New("disk on fire")})
	require.NoError(t, err)
	assert.Equal(t, `{"error":{"message":"disk on fire"},"programs":[],"scenario_name":"x"}`, string(data))
}
