package compiler

import (
	"errors"
	"fmt"

	"github.com/roach88/anchorix/internal/syntax"
)

// ValidationError is one handler diagnostic reported by Validate.
type ValidationError struct {
	Field   string    `json:"field"` // handler name, or the module name for module-level errors
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	File    string    `json:"file,omitempty"`
	Line    int       `json:"line,omitempty"`
	Column  int       `json:"column,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] %s:%d:%d: %s: %s", e.Code, e.File, e.Line, e.Column, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks every handler of the module and returns one error per
// malformed handler, in declaration order. It does not fail fast: unlike
// ParseInstructions, a malformed handler does not hide the ones after it.
// Within a handler only the first problem is reported.
func Validate(mod *syntax.Module, resolver ContextResolver) []ValidationError {
	fns, err := FilterFunctions(mod)
	if err != nil {
		var field string
		if mod != nil {
			field = mod.Name
		}
		return []ValidationError{toValidationError(field, err)}
	}

	var errs []ValidationError
	for _, fn := range fns {
		if _, err := ParseInstruction(fn, resolver); err != nil {
			errs = append(errs, toValidationError(fn.Sig.Name, err))
		}
	}
	return errs
}

func toValidationError(field string, err error) ValidationError {
	var ce *CompileError
	if !errors.As(err, &ce) {
		return ValidationError{
			Field:   field,
			Code:    ErrCodeUnknownCompileFailure,
			Message: err.Error(),
		}
	}
	return ValidationError{
		Field:   field,
		Kind:    ce.Kind,
		Code:    ce.Kind.Code(),
		Message: ce.Message,
		File:    ce.Span.File,
		Line:    ce.Span.Start.Line,
		Column:  ce.Span.Start.Column,
	}
}
