package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/anchorix/internal/store"
)

// hashPrefixLen is how much of a program hash the text listing shows.
const hashPrefixLen = 12

// HistoryResult is the JSON payload of the history command.
type HistoryResult struct {
	Program string        `json:"program,omitempty"`
	Scans   []ScanSummary `json:"scans"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <database> [program]",
		Short: "List recorded scans",
		Long: `List the scans recorded by parse --store, oldest first.

Each row is one distinct version of a program from one source. Rescanning
a version that is already recorded adds no row; it only marks that version
as the latest, so a reverted program reads as unchanged to check.

Examples:
  anchorix history .anchorix/history.db
  anchorix history .anchorix/history.db counter --format json`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			program := ""
			if len(args) == 2 {
				program = args[1]
			}
			return runHistory(cmd.Context(), rootOpts, args[0], program, cmd)
		},
	}

	return cmd
}

func runHistory(ctx context.Context, opts *RootOptions, dbPath, program string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	st, err := openExistingStore(dbPath)
	if err != nil {
		_ = formatter.Error(storeErrorCode(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	scans, err := st.ListScans(ctx, program)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list scans", err)
	}
	formatter.VerboseLog("Found %d scan(s) in %s", len(scans), dbPath)

	result := HistoryResult{Program: program, Scans: make([]ScanSummary, len(scans))}
	for i, s := range scans {
		result.Scans[i] = summarizeScan(s, true)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	return outputHistoryText(formatter, result)
}

// openExistingStore opens a history database, refusing to create one.
func openExistingStore(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("database not found: %s: %w", path, err)
	}
	return store.Open(path)
}

func storeErrorCode(err error) string {
	if errors.Is(err, os.ErrNotExist) {
		return ErrCodeNotFound
	}
	return ErrCodeStore
}

func outputHistoryText(formatter *OutputFormatter, result HistoryResult) error {
	w := formatter.Writer
	if len(result.Scans) == 0 {
		if result.Program != "" {
			fmt.Fprintf(w, "No scans recorded for %s.\n", result.Program)
		} else {
			fmt.Fprintln(w, "No scans recorded.")
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tPROGRAM\tINSTRUCTIONS\tHASH\tSOURCE")
	for _, s := range result.Scans {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", s.Seq, s.Program, s.Instructions, shortHash(s.ProgramHash), s.Source)
	}
	return tw.Flush()
}

func shortHash(h string) string {
	if len(h) > hashPrefixLen {
		return h[:hashPrefixLen]
	}
	return h
}
