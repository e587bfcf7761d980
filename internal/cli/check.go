package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/anchorix/internal/engine"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Module string
	Store  string
}

// DriftEntry is one program in the check command's JSON payload.
type DriftEntry struct {
	Program      string `json:"program"`
	Changed      bool   `json:"changed"`
	CurrentHash  string `json:"current_hash"`
	PreviousHash string `json:"previous_hash,omitempty"`
	PreviousSeq  int64  `json:"previous_seq,omitempty"`
}

// CheckResult is the JSON payload of the check command.
type CheckResult struct {
	File     string       `json:"file"`
	Programs []DriftEntry `json:"programs"`
	Changed  int          `json:"changed"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <file.rs>",
		Short: "Detect instruction changes since the last recorded scan",
		Long: `Rescan a Rust source file and compare every program with its latest
scan in the history database. Nothing is recorded.

Only the extracted interface counts: edits inside handler bodies are not
changes, while renamed handlers or changed parameters are.

Exit codes:
  0 - No program changed
  1 - A program changed, has no history, or has a malformed handler
  2 - Command error (no database, file not found, etc.)

Examples:
  anchorix check lib.rs --store .anchorix/history.db
  anchorix check lib.rs --module counter --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Module, "module", "m", "", "check only this module")
	cmd.Flags().StringVar(&opts.Store, "store", "", "history database (default from config)")

	return cmd
}

func runCheck(ctx context.Context, opts *CheckOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	dbPath := opts.Store
	if dbPath == "" {
		dbPath = opts.Config.Store
	}
	if dbPath == "" {
		msg := "no history database: pass --store or set store in the config"
		_ = formatter.Error(ErrCodeNoHistory, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	st, err := openExistingStore(dbPath)
	if err != nil {
		_ = formatter.Error(storeErrorCode(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	eng := engine.New(opts.engineOptions(engine.WithStore(st))...)
	drifts, err := eng.Drift(ctx, path, opts.Module)
	if err != nil {
		return outputScanError(formatter, err)
	}

	result := CheckResult{File: path, Programs: make([]DriftEntry, len(drifts))}
	for i, d := range drifts {
		entry := DriftEntry{Program: d.Program, Changed: d.Changed(), CurrentHash: d.CurrentHash}
		if d.Previous != nil {
			entry.PreviousHash = d.Previous.ProgramHash
			entry.PreviousSeq = d.Previous.Seq
		}
		if entry.Changed {
			result.Changed++
		}
		result.Programs[i] = entry
	}

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		outputCheckText(formatter, result)
	}

	if result.Changed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d program(s) changed", result.Changed))
	}
	return nil
}

func outputCheckText(formatter *OutputFormatter, result CheckResult) {
	w := formatter.Writer
	for _, p := range result.Programs {
		switch {
		case p.PreviousHash == "":
			fmt.Fprintf(w, "✗ %s has no recorded scan\n", p.Program)
		case p.Changed:
			fmt.Fprintf(w, "✗ %s changed since seq %d\n", p.Program, p.PreviousSeq)
		default:
			fmt.Fprintf(w, "✓ %s unchanged (seq %d)\n", p.Program, p.PreviousSeq)
		}
	}
}
