package engine

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/roach88/anchorix/internal/compiler"
	"github.com/roach88/anchorix/internal/ir"
	"github.com/roach88/anchorix/internal/schema"
	"github.com/roach88/anchorix/internal/store"
	"github.com/roach88/anchorix/internal/syntax"
	"github.com/roach88/anchorix/internal/syntax/rustsrc"
)

// Engine scans Rust sources into programs.
//
// Thread-safety: an Engine is immutable after New, and ScanFile may be
// called from several goroutines as long as the resolver is safe for
// concurrent use. Writes to the store are serialized by the store.
type Engine struct {
	resolver    compiler.ContextResolver
	programAttr string
	collectAll  bool
	workers     int
	store       *store.Store
	logger      *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithResolver sets the context resolver. Default: compiler.ContextAccountsIdent.
func WithResolver(r compiler.ContextResolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// WithProgramAttribute sets the attribute that marks program modules.
// Default: "program".
func WithProgramAttribute(attr string) Option {
	return func(e *Engine) { e.programAttr = attr }
}

// WithCollectAll reports every malformed handler as a diagnostic instead of
// failing on the first one.
func WithCollectAll(on bool) Option {
	return func(e *Engine) { e.collectAll = on }
}

// WithWorkers validates handlers of a module with up to n goroutines.
// 1 (the default) scans sequentially; 0 means unbounded.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithStore records every scanned program in s.
func WithStore(s *store.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithLogger sets the logger. Default: zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		resolver:    compiler.ContextAccountsIdent,
		programAttr: rustsrc.DefaultProgramAttr,
		workers:     1,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of scanning one file.
type Result struct {
	File string

	// Programs that scanned cleanly, in source order. In collect-all mode
	// a module with diagnostics contributes none.
	Programs []*ir.Program

	// Diagnostics holds every handler error in collect-all mode.
	Diagnostics []compiler.ValidationError

	// Scans are the history records, one per program, when a store is set.
	Scans []store.Scan

	// Inserted reports, per scan, whether the record was new.
	Inserted []bool
}

// HasErrors reports whether any diagnostic was collected.
func (r *Result) HasErrors() bool {
	return len(r.Diagnostics) > 0
}

// ScanFile reads and scans the file at path. An empty module scans every
// module carrying the program attribute; otherwise only the named module
// is scanned, attribute or not.
//
// In fail-fast mode the first handler error is returned as a
// *compiler.CompileError and no result is produced.
func (e *Engine) ScanFile(ctx context.Context, path, module string) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return e.ScanSource(ctx, path, src, module)
}

// ScanSource is ScanFile over in-memory source. path labels spans and
// history records.
func (e *Engine) ScanSource(ctx context.Context, path string, src []byte, module string) (*Result, error) {
	return e.scan(ctx, path, src, module, e.store != nil)
}

func (e *Engine) scan(ctx context.Context, path string, src []byte, module string, record bool) (*Result, error) {
	log := e.logger.With(zap.String("file", path))
	log.Debug("parsing source", zap.Int("bytes", len(src)))

	file, err := rustsrc.Parse(ctx, path, src)
	if err != nil {
		return nil, err
	}

	mods, err := e.locate(file, module)
	if err != nil {
		return nil, err
	}

	checker, err := schema.NewChecker()
	if err != nil {
		return nil, err
	}

	result := &Result{File: path}
	for _, mod := range mods {
		if e.collectAll {
			if diags := compiler.Validate(mod, e.resolver); len(diags) > 0 {
				log.Debug("module has diagnostics",
					zap.String("module", mod.Name),
					zap.Int("count", len(diags)))
				result.Diagnostics = append(result.Diagnostics, diags...)
				continue
			}
		}

		p, err := e.compile(ctx, mod)
		if err != nil {
			return nil, err
		}
		if err := checker.Check(*p); err != nil {
			return nil, &ScanError{
				Code:    ErrCodeSchemaViolation,
				Message: err.Error(),
				Path:    path,
				Err:     err,
			}
		}
		log.Debug("scanned program",
			zap.String("program", p.Name),
			zap.Int("instructions", len(p.Instructions)))
		result.Programs = append(result.Programs, p)
	}

	if record {
		if err := e.record(ctx, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (e *Engine) locate(file *rustsrc.File, module string) ([]*syntax.Module, error) {
	if module != "" {
		mod := file.Module(module)
		if mod == nil {
			return nil, &ScanError{
				Code:    ErrCodeModuleNotFound,
				Message: fmt.Sprintf("no module named %q", module),
				Path:    file.Path,
			}
		}
		return []*syntax.Module{mod}, nil
	}

	mods := file.Programs(e.programAttr)
	if len(mods) == 0 {
		return nil, &ScanError{
			Code:    ErrCodeNoProgram,
			Message: fmt.Sprintf("no module marked #[%s]", e.programAttr),
			Path:    file.Path,
		}
	}
	return mods, nil
}

func (e *Engine) compile(ctx context.Context, mod *syntax.Module) (*ir.Program, error) {
	var (
		ixs []ir.Instruction
		err error
	)
	if e.workers == 1 {
		ixs, err = compiler.ParseInstructions(mod, e.resolver)
	} else {
		ixs, err = compiler.ParseInstructionsParallel(ctx, mod, e.resolver, e.workers)
	}
	if err != nil {
		return nil, err
	}
	return &ir.Program{Name: mod.Name, Instructions: ixs}, nil
}

func (e *Engine) record(ctx context.Context, result *Result) error {
	for _, p := range result.Programs {
		scan, inserted, err := e.store.WriteScan(ctx, result.File, *p)
		if err != nil {
			return fmt.Errorf("recording %q: %w", p.Name, err)
		}
		e.logger.Debug("recorded scan",
			zap.String("program", p.Name),
			zap.String("id", scan.ID),
			zap.Int64("seq", scan.Seq),
			zap.Bool("inserted", inserted))
		result.Scans = append(result.Scans, scan)
		result.Inserted = append(result.Inserted, inserted)
	}
	return nil
}
