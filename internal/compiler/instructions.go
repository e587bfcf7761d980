package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/anchorix/internal/ir"
	"github.com/roach88/anchorix/internal/syntax"
)

// CompileProgram scans a program module into an ir.Program.
// A nil resolver uses ContextAccountsIdent.
func CompileProgram(mod *syntax.Module, resolver ContextResolver) (*ir.Program, error) {
	ixs, err := ParseInstructions(mod, resolver)
	if err != nil {
		return nil, err
	}
	return &ir.Program{Name: mod.Name, Instructions: ixs}, nil
}

// ParseInstructions turns every function item of a program module into an
// instruction, in declaration order. The first failure aborts the scan and
// no instructions are returned with it.
func ParseInstructions(mod *syntax.Module, resolver ContextResolver) ([]ir.Instruction, error) {
	fns, err := FilterFunctions(mod)
	if err != nil {
		return nil, err
	}

	ixs := make([]ir.Instruction, 0, len(fns))
	for _, fn := range fns {
		ix, err := ParseInstruction(fn, resolver)
		if err != nil {
			return nil, err
		}
		ixs = append(ixs, ix)
	}
	return ixs, nil
}

// FilterFunctions returns the function items of the module body in order.
// All other items are dropped.
func FilterFunctions(mod *syntax.Module) ([]*syntax.FnItem, error) {
	if mod == nil {
		return nil, &CompileError{
			Kind:    MissingModuleBody,
			Message: "program content not provided",
		}
	}
	if mod.Body == nil {
		return nil, &CompileError{
			Kind:    MissingModuleBody,
			Message: fmt.Sprintf("program content not provided for module %q", mod.Name),
			Span:    mod.Span,
		}
	}

	var fns []*syntax.FnItem
	for _, item := range mod.Body.Items {
		switch it := item.(type) {
		case *syntax.FnItem:
			fns = append(fns, it)
		case *syntax.OtherItem:
		}
	}
	return fns, nil
}

// ParseInstruction classifies, splits and resolves a single handler.
func ParseInstruction(fn *syntax.FnItem, resolver ContextResolver) (ir.Instruction, error) {
	if resolver == nil {
		resolver = ContextAccountsIdent
	}

	args, err := ClassifyParams(fn.Sig.Params)
	if err != nil {
		return ir.Instruction{}, err
	}

	ctx, rest, err := SplitContext(fn.Sig, args)
	if err != nil {
		return ir.Instruction{}, err
	}

	ident, err := resolver.ResolveContext(ctx.Type)
	if err != nil {
		return ir.Instruction{}, resolutionError(ctx, err)
	}

	return ir.Instruction{
		Name:         fn.Sig.Name,
		Context:      ctx,
		ContextIdent: ident,
		Args:         rest,
		Docs:         fn.Docs,
		Returns:      returnType(fn.Sig.Output),
		Raw:          fn,
	}, nil
}

// ClassifyParams converts parameters to named arguments, left to right,
// stopping at the first parameter that is a receiver or does not bind a
// single identifier.
func ClassifyParams(params []syntax.Param) ([]ir.Arg, error) {
	args := make([]ir.Arg, 0, len(params))
	for _, p := range params {
		switch p := p.(type) {
		case *syntax.ReceiverParam:
			return nil, &CompileError{
				Kind:    ReceiverParameterNotAllowed,
				Message: "expected a typed argument not self",
				Span:    p.Span,
			}
		case *syntax.TypedParam:
			ident, ok := p.Pat.(*syntax.IdentPat)
			if !ok {
				span := p.Span
				if p.Pat != nil {
					span = p.Pat.Location()
				}
				return nil, &CompileError{
					Kind:    UnsupportedParameterPattern,
					Message: "expected argument name",
					Span:    span,
				}
			}
			args = append(args, ir.Arg{Name: ident.Name, Type: p.Type})
		}
	}
	return args, nil
}

// SplitContext removes the first argument as the context. The remaining
// arguments keep their order and are never nil.
func SplitContext(sig syntax.Signature, args []ir.Arg) (ir.Arg, []ir.Arg, error) {
	if len(args) == 0 {
		return ir.Arg{}, nil, &CompileError{
			Kind:    EmptyParameterList,
			Message: fmt.Sprintf("handler %q has no parameters; the first parameter must be the context", sig.Name),
			Span:    sig.Span,
		}
	}
	rest := make([]ir.Arg, len(args)-1)
	copy(rest, args[1:])
	return args[0], rest, nil
}

// resolutionError forwards a resolver failure, keeping the resolver's span
// when it reports one.
func resolutionError(ctx ir.Arg, err error) *CompileError {
	ce := &CompileError{
		Kind:    ContextIdentifierResolutionFailure,
		Message: err.Error(),
		Err:     err,
	}
	var re *ResolveError
	if errors.As(err, &re) {
		ce.Message = re.Message
		ce.Span = re.Span
	}
	if !ce.Span.IsValid() && ctx.Type != nil {
		ce.Span = ctx.Type.Location()
	}
	return ce
}

// returnType extracts T from Result<T>. Result<()> and non-Result return
// types yield nil.
func returnType(out syntax.Type) syntax.Type {
	path, ok := out.(*syntax.PathType)
	if !ok || path.Last().Ident != "Result" {
		return nil
	}
	for _, arg := range path.Last().Args {
		if arg.Type == nil {
			continue
		}
		if strings.Join(strings.Fields(arg.Type.String()), "") == "()" {
			return nil
		}
		return arg.Type
	}
	return nil
}
