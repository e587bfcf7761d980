package compiler

import (
	"errors"
	"fmt"

	"github.com/roach88/anchorix/internal/syntax"
)

// ErrorKind classifies a compile failure. Every kind is terminal for the
// scan that produced it.
type ErrorKind string

const (
	MissingModuleBody                  ErrorKind = "MissingModuleBody"
	ReceiverParameterNotAllowed        ErrorKind = "ReceiverParameterNotAllowed"
	UnsupportedParameterPattern        ErrorKind = "UnsupportedParameterPattern"
	EmptyParameterList                 ErrorKind = "EmptyParameterList"
	ContextIdentifierResolutionFailure ErrorKind = "ContextIdentifierResolutionFailure"
)

// Error codes (E200-E299) reported by the CLI.
const (
	ErrCodeMissingModuleBody     = "E201" // program module has no body
	ErrCodeReceiverParameter     = "E202" // handler takes self
	ErrCodeUnsupportedPattern    = "E203" // handler parameter is not a plain identifier
	ErrCodeEmptyParameterList    = "E204" // handler has no context parameter
	ErrCodeContextResolution     = "E205" // context type names no accounts struct
	ErrCodeUnknownCompileFailure = "E200"
)

// Code returns the CLI error code for the kind.
func (k ErrorKind) Code() string {
	switch k {
	case MissingModuleBody:
		return ErrCodeMissingModuleBody
	case ReceiverParameterNotAllowed:
		return ErrCodeReceiverParameter
	case UnsupportedParameterPattern:
		return ErrCodeUnsupportedPattern
	case EmptyParameterList:
		return ErrCodeEmptyParameterList
	case ContextIdentifierResolutionFailure:
		return ErrCodeContextResolution
	default:
		return ErrCodeUnknownCompileFailure
	}
}

// CompileError is a compile failure located at the offending syntax.
type CompileError struct {
	Kind    ErrorKind
	Message string
	Span    syntax.Span
	Err     error // resolver error for ContextIdentifierResolutionFailure
}

func (e *CompileError) Error() string {
	if e.Span.IsValid() {
		return fmt.Sprintf("%s: %s: %s", e.Span, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a *CompileError or ValidationError in err's
// chain, or "".
func KindOf(err error) ErrorKind {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	var ve ValidationError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return ""
}
