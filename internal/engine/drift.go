package engine

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/roach88/anchorix/internal/ir"
	"github.com/roach88/anchorix/internal/store"
)

// Drift compares one program of a rescan with its recorded history.
type Drift struct {
	Program     string
	CurrentHash string

	// Previous is the latest recorded scan of the program, nil if the
	// program was never recorded.
	Previous *store.Scan
}

// Changed reports whether the program differs from its last recorded scan.
// A program with no history counts as changed.
func (d Drift) Changed() bool {
	return d.Previous == nil || d.Previous.ProgramHash != d.CurrentHash
}

// Drift rescans path without recording and compares every program with
// the latest scan of the same program in the store. The store is required.
//
// A handler error aborts the comparison, in either mode.
func (e *Engine) Drift(ctx context.Context, path, module string) ([]Drift, error) {
	if e.store == nil {
		return nil, &ScanError{
			Code:    ErrCodeNoHistory,
			Message: "drift needs a scan history store",
			Path:    path,
		}
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	result, err := e.scan(ctx, path, src, module, false)
	if err != nil {
		return nil, err
	}
	if result.HasErrors() {
		return nil, result.Diagnostics[0]
	}

	drifts := make([]Drift, 0, len(result.Programs))
	for _, p := range result.Programs {
		hash, err := ir.ProgramHash(*p)
		if err != nil {
			return nil, err
		}
		d := Drift{Program: p.Name, CurrentHash: hash}

		prev, err := e.store.LatestScan(ctx, p.Name)
		switch {
		case err == nil:
			d.Previous = &prev
		case !errors.Is(err, store.ErrNotFound):
			return nil, err
		}

		e.logger.Debug("compared with history",
			zap.String("program", p.Name),
			zap.Bool("changed", d.Changed()))
		drifts = append(drifts, d)
	}
	return drifts, nil
}
