package harness

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/roach88/anchorix/internal/config"
	"github.com/roach88/anchorix/internal/engine"
)

// Run scans the scenario's source and evaluates its assertions.
//
// Scan failures are part of the outcome, since scenarios may expect them.
// Run itself only fails when the source cannot be read.
func Run(ctx context.Context, scenario *Scenario, opts ...engine.Option) (*Result, error) {
	src, err := os.ReadFile(scenario.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}

	workers := scenario.Workers
	if workers == 0 {
		workers = 1
	}
	base := []engine.Option{
		engine.WithCollectAll(scenario.Mode == config.ModeCollectAll),
		engine.WithWorkers(workers),
		engine.WithLogger(zap.NewNop()),
	}
	eng := engine.New(append(base, opts...)...)

	result := NewResult()
	scan, err := eng.ScanSource(ctx, scenario.Source, src, scenario.Module)
	if err != nil {
		result.Outcome.Err = err
	} else {
		result.Outcome.Programs = scan.Programs
		result.Outcome.Diagnostics = scan.Diagnostics
	}

	for _, msg := range EvaluateAssertions(&result.Outcome, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}
