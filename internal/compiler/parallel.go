package compiler

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/anchorix/internal/ir"
	"github.com/roach88/anchorix/internal/syntax"
)

// ParseInstructionsParallel is ParseInstructions with handlers validated
// concurrently by up to workers goroutines (workers <= 0 means no limit).
//
// Results are resequenced before returning: instructions come back in
// declaration order, and the reported error is the one belonging to the
// earliest-declared failing handler, not the first to finish. Every handler
// is validated even when an earlier one fails.
//
// The only additional error is ctx's, when ctx is cancelled before all
// handlers were processed.
func ParseInstructionsParallel(ctx context.Context, mod *syntax.Module, resolver ContextResolver, workers int) ([]ir.Instruction, error) {
	fns, err := FilterFunctions(mod)
	if err != nil {
		return nil, err
	}

	results := make([]ir.Instruction, len(fns))
	errs := make([]error, len(fns))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, fn := range fns {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], errs[i] = ParseInstruction(fn, resolver)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parsing instructions of %q: %w", mod.Name, err)
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
