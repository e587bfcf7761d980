package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/anchorix/internal/compiler"
	"github.com/roach88/anchorix/internal/engine"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid        bool                       `json:"valid"`
	Programs     int                        `json:"programs"`
	Instructions int                        `json:"instructions"`
	Errors       []compiler.ValidationError `json:"errors,omitempty"`
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Module string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <file.rs>",
		Short: "Report every malformed instruction handler",
		Long: `Check the instruction handlers of a Rust source file without recording
anything. Unlike parse, validation does not stop at the first malformed
handler: every one is reported with its position.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Module, "module", "m", "", "validate only this module")

	return cmd
}

func runValidate(ctx context.Context, opts *ValidateOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	eng := engine.New(opts.engineOptions(engine.WithCollectAll(true))...)
	result, err := eng.ScanFile(ctx, path, opts.Module)
	if err != nil {
		return outputScanError(formatter, err)
	}

	for _, d := range result.Diagnostics {
		formatter.VerboseLog("Invalid handler %s: %s", d.Field, d.Message)
	}
	if result.HasErrors() {
		return outputValidationErrors(formatter, result.Diagnostics)
	}

	instructions := 0
	for _, p := range result.Programs {
		instructions += len(p.Instructions)
	}
	return outputValidateSuccess(formatter, len(result.Programs), instructions)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, programs, instructions int) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{
			Valid:        true,
			Programs:     programs,
			Instructions: instructions,
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ All handlers valid (%d instruction(s) in %d program(s))\n", instructions, programs)
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n", err.File, err.Line, err.Column)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
