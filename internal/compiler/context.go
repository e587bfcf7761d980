package compiler

import (
	"fmt"

	"github.com/roach88/anchorix/internal/syntax"
)

// ContextResolver extracts the accounts struct identifier from the type of
// a handler's context parameter. Implementations used with
// ParseInstructionsParallel must be safe for concurrent use.
type ContextResolver interface {
	ResolveContext(ty syntax.Type) (string, error)
}

// ResolverFunc adapts a function to ContextResolver.
type ResolverFunc func(ty syntax.Type) (string, error)

// ResolveContext calls f(ty).
func (f ResolverFunc) ResolveContext(ty syntax.Type) (string, error) {
	return f(ty)
}

// ResolveError is a located resolver failure. The compiler forwards its span
// and message unchanged.
type ResolveError struct {
	Span    syntax.Span
	Message string
}

func (e *ResolveError) Error() string {
	if e.Span.IsValid() {
		return fmt.Sprintf("%s: %s", e.Span, e.Message)
	}
	return e.Message
}

// AccountsResolver resolves `Context<'a, ..., Accounts<'info>>` to
// "Accounts": the first type argument of the context type, lifetimes
// skipped, must be a path type; its last segment names the struct.
//
// ContextType, when set, additionally requires the context type itself to
// be named ContextType (e.g. "Context").
type AccountsResolver struct {
	ContextType string
}

// ContextAccountsIdent is the default resolver.
var ContextAccountsIdent ContextResolver = AccountsResolver{}

// ResolveContext implements ContextResolver.
func (r AccountsResolver) ResolveContext(ty syntax.Type) (string, error) {
	if ty == nil {
		return "", &ResolveError{Message: "invalid type"}
	}
	path, ok := ty.(*syntax.PathType)
	if !ok || len(path.Segments) == 0 {
		return "", &ResolveError{Span: ty.Location(), Message: "invalid type"}
	}

	seg := path.Last()
	if r.ContextType != "" && seg.Ident != r.ContextType {
		return "", &ResolveError{
			Span:    ty.Location(),
			Message: fmt.Sprintf("expected %s<...>, found %s", r.ContextType, ty),
		}
	}
	if seg.Args == nil {
		return "", &ResolveError{Span: ty.Location(), Message: "missing accounts context"}
	}

	var accounts syntax.Type
	for _, arg := range seg.Args {
		if arg.Type != nil {
			accounts = arg.Type
			break
		}
	}
	if accounts == nil {
		return "", &ResolveError{Span: spanOr(seg.Span, ty.Location()), Message: "expected Accounts type"}
	}

	accPath, ok := accounts.(*syntax.PathType)
	if !ok || len(accPath.Segments) == 0 {
		return "", &ResolveError{Span: accounts.Location(), Message: "expected Accounts struct type"}
	}
	return accPath.Last().Ident, nil
}

func spanOr(s, fallback syntax.Span) syntax.Span {
	if s.IsValid() {
		return s
	}
	return fallback
}
