package cli

import (
	"errors"
	"os"

	"github.com/roach88/anchorix/internal/compiler"
	"github.com/roach88/anchorix/internal/engine"
	"github.com/roach88/anchorix/internal/syntax/rustsrc"
)

// Error code constants, unified across all CLI commands.
// Handler errors use the compiler's E2xx codes.
const (
	ErrCodeGeneric         = "E001" // Generic/unknown error
	ErrCodeNotFound        = "E002" // Path not found
	ErrCodeSyntax          = "E003" // Source does not parse
	ErrCodeNoProgram       = "E004" // No program module in file
	ErrCodeModuleNotFound  = "E005" // --module names no module
	ErrCodeSchemaViolation = "E006" // IR failed the schema check
	ErrCodeWriteFailed     = "E007" // File write error
	ErrCodeStore           = "E008" // Scan history error
	ErrCodeNoHistory       = "E009" // Drift check without a store
)

// classifyScanError maps a scan error to an error code and exit code.
// Problems with the scanned source exit with ExitFailure; problems with
// the invocation exit with ExitCommandError.
func classifyScanError(err error) (code string, exit int) {
	var (
		ce *compiler.CompileError
		ve compiler.ValidationError
		xe *rustsrc.SyntaxError
	)
	switch {
	case errors.As(err, &ce):
		return ce.Kind.Code(), ExitFailure
	case errors.As(err, &ve):
		return ve.Code, ExitFailure
	case errors.As(err, &xe):
		return ErrCodeSyntax, ExitFailure
	case errors.Is(err, os.ErrNotExist):
		return ErrCodeNotFound, ExitCommandError
	}

	switch engine.CodeOf(err) {
	case engine.ErrCodeNoProgram:
		return ErrCodeNoProgram, ExitCommandError
	case engine.ErrCodeModuleNotFound:
		return ErrCodeModuleNotFound, ExitCommandError
	case engine.ErrCodeSchemaViolation:
		return ErrCodeSchemaViolation, ExitFailure
	case engine.ErrCodeNoHistory:
		return ErrCodeNoHistory, ExitCommandError
	}
	return ErrCodeGeneric, ExitCommandError
}

// outputScanError reports err through the formatter and returns the
// matching ExitError.
func outputScanError(formatter *OutputFormatter, err error) error {
	code, exit := classifyScanError(err)
	_ = formatter.Error(code, err.Error(), nil)
	return WrapExitError(exit, code, err)
}
