package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/anchorix/internal/compiler"
	"github.com/roach88/anchorix/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes the scan outcome to help debug the failure.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Outcome  *Outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Outcome == nil {
		return buf.String()
	}
	fmt.Fprintf(&buf, "\nScan outcome:\n")
	if e.Outcome.Err != nil {
		fmt.Fprintf(&buf, "  error: %v\n", e.Outcome.Err)
	}
	for _, p := range e.Outcome.Programs {
		for _, ix := range p.Instructions {
			fmt.Fprintf(&buf, "  %s::%s(%s) ctx=%s\n", p.Name, ix.Name, strings.Join(argNames(ix.Args), ", "), ix.ContextIdent)
		}
	}
	for _, d := range e.Outcome.Diagnostics {
		fmt.Fprintf(&buf, "  %s\n", d.Error())
	}
	return buf.String()
}

func assertProgramCount(o *Outcome, a Assertion) error {
	if len(o.Programs) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertProgramCount,
		Expected: fmt.Sprintf("%d program(s)", a.Count),
		Actual:   fmt.Sprintf("%d program(s)", len(o.Programs)),
		Outcome:  o,
	}
}

func assertInstruction(o *Outcome, a Assertion) error {
	fail := func(actual string) error {
		return &AssertionError{
			Type:     AssertInstruction,
			Expected: describeInstruction(a),
			Actual:   actual,
			Outcome:  o,
		}
	}

	p := o.program(a.Program)
	if p == nil {
		return fail(fmt.Sprintf("program %s not found", a.Program))
	}
	for _, ix := range p.Instructions {
		if ix.Name != a.Name {
			continue
		}
		if a.ContextIdent != "" && ix.ContextIdent != a.ContextIdent {
			return fail(fmt.Sprintf("context_ident %s", ix.ContextIdent))
		}
		if a.Args != nil && !slices.Equal(argNames(ix.Args), a.Args) {
			return fail(fmt.Sprintf("args %v", argNames(ix.Args)))
		}
		return nil
	}
	return fail("instruction not found")
}

func assertInstructionOrder(o *Outcome, a Assertion) error {
	var actual []string
	if p := o.program(a.Program); p != nil {
		for _, ix := range p.Instructions {
			actual = append(actual, ix.Name)
		}
	}
	want := a.Names
	if want == nil {
		want = []string{}
	}
	if actual == nil {
		actual = []string{}
	}
	if slices.Equal(actual, want) {
		return nil
	}
	return &AssertionError{
		Type:     AssertInstructionOrder,
		Expected: fmt.Sprintf("%s: %v", a.Program, want),
		Actual:   fmt.Sprintf("%s: %v", a.Program, actual),
		Outcome:  o,
	}
}

func assertErrorKind(o *Outcome, a Assertion) error {
	got := compiler.KindOf(o.Err)
	if o.Err != nil && string(got) == a.Kind {
		return nil
	}
	actual := "scan succeeded"
	if o.Err != nil {
		actual = fmt.Sprintf("kind %q: %v", got, o.Err)
	}
	return &AssertionError{
		Type:     AssertErrorKind,
		Expected: fmt.Sprintf("scan error of kind %s", a.Kind),
		Actual:   actual,
		Outcome:  o,
	}
}

func assertDiagnostic(o *Outcome, a Assertion) error {
	for _, d := range o.Diagnostics {
		if d.Field == a.Field && string(d.Kind) == a.Kind {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertDiagnostic,
		Expected: fmt.Sprintf("%s for %s", a.Kind, a.Field),
		Actual:   fmt.Sprintf("%d diagnostic(s), none matching", len(o.Diagnostics)),
		Outcome:  o,
	}
}

// EvaluateAssertions checks every assertion and returns one message per
// failure, in assertion order.
func EvaluateAssertions(o *Outcome, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertProgramCount:
			err = assertProgramCount(o, assertion)
		case AssertInstruction:
			err = assertInstruction(o, assertion)
		case AssertInstructionOrder:
			err = assertInstructionOrder(o, assertion)
		case AssertErrorKind:
			err = assertErrorKind(o, assertion)
		case AssertDiagnostic:
			err = assertDiagnostic(o, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

func describeInstruction(a Assertion) string {
	desc := fmt.Sprintf("%s::%s", a.Program, a.Name)
	if a.ContextIdent != "" {
		desc += " ctx=" + a.ContextIdent
	}
	if a.Args != nil {
		desc += fmt.Sprintf(" args=%v", a.Args)
	}
	return desc
}

func argNames(args []ir.Arg) []string {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.Name
	}
	return names
}
