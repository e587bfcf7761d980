package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/anchorix/internal/engine"
	"github.com/roach88/anchorix/internal/ir"
	"github.com/roach88/anchorix/internal/store"
)

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	*RootOptions
	Module  string // scan only this module
	Output  string // write canonical IR here
	Store   string // scan history database, overrides config
	Workers int    // overrides config when set
}

// ParseResult is the JSON payload of the parse command.
type ParseResult struct {
	File     string        `json:"file"`
	Programs []*ir.Program `json:"programs"`
	Scans    []ScanSummary `json:"scans,omitempty"`
}

// ScanSummary is one recorded scan as reported by the CLI.
type ScanSummary struct {
	ID           string `json:"id"`
	Seq          int64  `json:"seq"`
	LastSeenSeq  int64  `json:"last_seen_seq"`
	Program      string `json:"program"`
	ProgramHash  string `json:"program_hash"`
	Instructions int    `json:"instructions"`
	Source       string `json:"source"`
	Inserted     bool   `json:"inserted"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parse <file.rs>",
		Short: "Extract the instructions of program modules",
		Long: `Parse a Rust source file and extract the instruction handlers of every
module marked with the program attribute (default #[program]).

The first malformed handler stops the scan unless the config sets
mode: collect_all. Output can be written as canonical JSON with --output,
and every scanned program can be recorded in a history database with --store.

Exit codes:
  0 - All programs scanned
  1 - Malformed handler, syntax error, or schema violation
  2 - Command error (file not found, no program module, etc.)

Examples:
  anchorix parse programs/counter/src/lib.rs
  anchorix parse lib.rs --module counter --output counter.json
  anchorix parse lib.rs --store .anchorix/history.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Module, "module", "m", "", "scan only this module")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write canonical IR to this file")
	cmd.Flags().StringVar(&opts.Store, "store", "", "record scans in this SQLite database")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "handler validation goroutines (0 uses config)")

	return cmd
}

func runParse(ctx context.Context, opts *ParseOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	var extra []engine.Option
	if opts.Workers > 0 {
		extra = append(extra, engine.WithWorkers(opts.Workers))
	}

	dbPath := opts.Store
	if dbPath == "" {
		dbPath = opts.Config.Store
	}
	if dbPath != "" {
		st, err := store.Open(dbPath)
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()
		extra = append(extra, engine.WithStore(st))
		formatter.VerboseLog("Recording scans in %s", dbPath)
	}

	formatter.VerboseLog("Scanning %s", path)
	result, err := engine.New(opts.engineOptions(extra...)...).ScanFile(ctx, path, opts.Module)
	if err != nil {
		return outputScanError(formatter, err)
	}
	if result.HasErrors() {
		return outputValidationErrors(formatter, result.Diagnostics)
	}

	if opts.Output != "" {
		if err := writeIRToFile(result.Programs, opts.Output); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
		formatter.VerboseLog("Wrote IR to %s", opts.Output)
	}

	return outputParseSuccess(formatter, toParseResult(result), opts.Output)
}

func toParseResult(r *engine.Result) ParseResult {
	out := ParseResult{File: r.File, Programs: r.Programs}
	if out.Programs == nil {
		out.Programs = []*ir.Program{}
	}
	for i, s := range r.Scans {
		out.Scans = append(out.Scans, summarizeScan(s, r.Inserted[i]))
	}
	return out
}

func summarizeScan(s store.Scan, inserted bool) ScanSummary {
	return ScanSummary{
		ID:           s.ID,
		Seq:          s.Seq,
		LastSeenSeq:  s.LastSeenSeq,
		Program:      s.Program,
		ProgramHash:  s.ProgramHash,
		Instructions: s.InstructionCount,
		Source:       s.Source,
		Inserted:     inserted,
	}
}

// writeIRToFile writes the programs as a canonical JSON array.
func writeIRToFile(programs []*ir.Program, path string) error {
	arr := make([]any, len(programs))
	for i, p := range programs {
		arr[i] = p.CanonicalMap()
	}
	data, err := ir.MarshalCanonical(arr)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// outputParseSuccess outputs the scanned programs.
func outputParseSuccess(formatter *OutputFormatter, result ParseResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Parsed %d program(s) from %s\n", len(result.Programs), result.File)

	for _, p := range result.Programs {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s (%d instruction(s))\n", p.Name, len(p.Instructions))
		for _, ix := range p.Instructions {
			fmt.Fprintf(w, "  %s\n", formatInstruction(ix))
		}
	}

	if len(result.Scans) > 0 {
		fmt.Fprintln(w)
		for _, s := range result.Scans {
			status := "recorded"
			if !s.Inserted {
				status = "unchanged"
			}
			fmt.Fprintf(w, "History: %s %s (seq %d)\n", s.Program, status, s.Seq)
		}
	}

	if outputFile != "" {
		fmt.Fprintf(w, "\nOutput written to: %s\n", outputFile)
	}
	return nil
}

// formatInstruction renders an instruction as a one-line signature.
func formatInstruction(ix ir.Instruction) string {
	params := make([]string, 0, len(ix.Args)+1)
	params = append(params, ix.Context.Name+": "+ix.Context.TypeString())
	for _, a := range ix.Args {
		params = append(params, a.Name+": "+a.TypeString())
	}
	line := fmt.Sprintf("%s(%s)", ix.Name, strings.Join(params, ", "))
	if ret := ix.ReturnsString(); ret != "" {
		line += " -> " + ret
	}
	return line + " [accounts: " + ix.ContextIdent + "]"
}
