package harness

import (
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/anchorix/internal/compiler"
	"github.com/roach88/anchorix/internal/engine"
	"github.com/roach88/anchorix/internal/ir"
	"github.com/roach88/anchorix/internal/syntax/rustsrc"
)

// Snapshot returns the canonical JSON of a scenario outcome. It is what
// golden files hold.
func Snapshot(name string, o *Outcome) ([]byte, error) {
	programs := make([]any, len(o.Programs))
	for i, p := range o.Programs {
		programs[i] = p.CanonicalMap()
	}
	snap := map[string]any{
		"scenario_name": name,
		"programs":      programs,
	}

	if len(o.Diagnostics) > 0 {
		diags := make([]any, len(o.Diagnostics))
		for i, d := range o.Diagnostics {
			diags[i] = map[string]any{
				"field":   d.Field,
				"kind":    string(d.Kind),
				"code":    d.Code,
				"message": d.Message,
				"line":    d.Line,
				"column":  d.Column,
			}
		}
		snap["diagnostics"] = diags
	}
	if o.Err != nil {
		snap["error"] = snapshotError(o.Err)
	}

	return ir.MarshalCanonical(snap)
}

// snapshotError keeps the parts of a scan error that do not depend on
// where the fixture lives.
func snapshotError(err error) map[string]any {
	var (
		ce *compiler.CompileError
		se *engine.ScanError
		xe *rustsrc.SyntaxError
	)
	switch {
	case errors.As(err, &ce):
		return map[string]any{
			"kind":    string(ce.Kind),
			"message": ce.Message,
			"line":    ce.Span.Start.Line,
			"column":  ce.Span.Start.Column,
		}
	case errors.As(err, &se):
		return map[string]any{"kind": string(se.Code), "message": se.Message}
	case errors.As(err, &xe):
		return map[string]any{
			"kind":    "SyntaxError",
			"message": xe.Message,
			"line":    xe.Span.Start.Line,
			"column":  xe.Span.Start.Column,
		}
	default:
		return map[string]any{"message": err.Error()}
	}
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check assertions.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(t.Context(), scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, &result.Outcome)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
