package engine

import (
	"errors"
	"fmt"
)

// ScanErrorCode categorizes scan errors that are not handler errors.
type ScanErrorCode string

const (
	// ErrCodeNoProgram indicates the file has no module carrying the
	// program attribute.
	ErrCodeNoProgram ScanErrorCode = "NO_PROGRAM"

	// ErrCodeModuleNotFound indicates the requested module does not exist.
	ErrCodeModuleNotFound ScanErrorCode = "MODULE_NOT_FOUND"

	// ErrCodeSchemaViolation indicates a scanned program failed the IR
	// schema check.
	ErrCodeSchemaViolation ScanErrorCode = "SCHEMA_VIOLATION"

	// ErrCodeNoHistory indicates Drift found no recorded scan to compare
	// against.
	ErrCodeNoHistory ScanErrorCode = "NO_HISTORY"
)

// ScanError reports a file-level scan failure.
type ScanError struct {
	Code    ScanErrorCode
	Message string
	Path    string
	Err     error
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// CodeOf returns the ScanErrorCode of err, or "" if err is not a ScanError.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ScanErrorCode {
	var se *ScanError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
