package testutil

import (
	"strings"

	"github.com/roach88/anchorix/internal/syntax"
)

// File labels every span produced by the builders.
const File = "lib.rs"

// Named builds a plain path type such as `u64` or `Pubkey`.
func Named(ident string) *syntax.PathType {
	return &syntax.PathType{
		Segments: []syntax.PathSegment{{Ident: ident}},
		Text:     ident,
	}
}

// Generic builds `ident<args...>`.
func Generic(ident string, args ...syntax.GenericArg) *syntax.PathType {
	parts := make([]string, len(args))
	for i, a := range args {
		switch {
		case a.Lifetime != "":
			parts[i] = a.Lifetime
		case a.Type != nil:
			parts[i] = a.Type.String()
		default:
			parts[i] = a.Other
		}
	}
	if args == nil {
		args = []syntax.GenericArg{}
	}
	return &syntax.PathType{
		Segments: []syntax.PathSegment{{Ident: ident, Args: args}},
		Text:     ident + "<" + strings.Join(parts, ", ") + ">",
	}
}

// Ctx builds `Context<ident>`.
func Ctx(ident string) *syntax.PathType {
	return Generic("Context", TypeArg(Named(ident)))
}

// TypeArg wraps a type as a generic argument.
func TypeArg(t syntax.Type) syntax.GenericArg {
	return syntax.GenericArg{Type: t}
}

// Lifetime builds a lifetime generic argument such as `'info`.
func Lifetime(l string) syntax.GenericArg {
	return syntax.GenericArg{Lifetime: l}
}

// Ref builds `&elem`.
func Ref(elem syntax.Type) *syntax.RefType {
	return &syntax.RefType{Elem: elem, Text: "&" + elem.String()}
}

// Tuple builds an opaque tuple type from its source text.
func Tuple(text string) *syntax.OtherType {
	return &syntax.OtherType{Kind: "tuple_type", Text: text}
}

// Param builds `name: t`.
func Param(name string, t syntax.Type) *syntax.TypedParam {
	return &syntax.TypedParam{
		Pat:  &syntax.IdentPat{Name: name},
		Type: t,
	}
}

// PatternParam builds a parameter whose binding is not a plain identifier,
// e.g. PatternParam("tuple_pattern", "(a, b)", Tuple("(u8, u8)")).
func PatternParam(kind, text string, t syntax.Type) *syntax.TypedParam {
	return &syntax.TypedParam{
		Pat:  &syntax.OtherPat{Kind: kind, Text: text},
		Type: t,
	}
}

// Receiver builds a self parameter from its text (`&self`, `mut self`, ...).
func Receiver(text string) *syntax.ReceiverParam {
	return &syntax.ReceiverParam{
		Ref:     strings.HasPrefix(text, "&"),
		Mutable: strings.Contains(text, "mut"),
		Text:    text,
	}
}

// Fn builds `pub fn name(params...) -> Result<()> {}`.
func Fn(name string, params ...syntax.Param) *syntax.FnItem {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = paramText(p)
	}
	sig := "pub fn " + name + "(" + strings.Join(parts, ", ") + ") -> Result<()>"
	return &syntax.FnItem{
		Visibility: "pub",
		Sig: syntax.Signature{
			Name:   name,
			Params: params,
			Output: Generic("Result", TypeArg(Tuple("()"))),
		},
		Body: "{ Ok(()) }",
		Text: sig + " { Ok(()) }",
	}
}

// Other builds a non-function item.
func Other(kind, name string) *syntax.OtherItem {
	return &syntax.OtherItem{
		Kind: kind,
		Name: name,
		Text: kind + " " + name,
	}
}

// Module builds `#[program] mod name { items... }` and stamps distinct
// spans on every node: item i sits on line i+2, parameter j of a function
// starts at column 20*(j+1).
func Module(name string, items ...syntax.Item) *syntax.Module {
	mod := &syntax.Module{
		Name:  name,
		Attrs: []syntax.Attribute{{Path: "program", Text: "#[program]"}},
		Body:  &syntax.ModuleBody{Items: items},
		Span:  span(1, 1),
	}
	mod.Body.Span = span(1, 14)
	for i, item := range items {
		stamp(item, i+2)
	}
	return mod
}

// ForwardModule builds `#[program] mod name;`.
func ForwardModule(name string) *syntax.Module {
	return &syntax.Module{
		Name:  name,
		Attrs: []syntax.Attribute{{Path: "program", Text: "#[program]"}},
		Span:  span(1, 1),
	}
}

func stamp(item syntax.Item, line int) {
	switch it := item.(type) {
	case *syntax.OtherItem:
		it.Span = span(line, 5)
	case *syntax.FnItem:
		it.Span = span(line, 5)
		it.Sig.Span = span(line, 5)
		it.Sig.NameSpan = span(line, 12)
		for j, p := range it.Sig.Params {
			col := 20 * (j + 1)
			switch p := p.(type) {
			case *syntax.TypedParam:
				p.Span = span(line, col)
				setPatSpan(p.Pat, span(line, col))
				setTypeSpan(p.Type, span(line, col+8))
			case *syntax.ReceiverParam:
				p.Span = span(line, col)
			}
		}
	}
}

func setPatSpan(p syntax.Pattern, s syntax.Span) {
	switch p := p.(type) {
	case *syntax.IdentPat:
		p.Span = s
	case *syntax.OtherPat:
		p.Span = s
	}
}

func setTypeSpan(t syntax.Type, s syntax.Span) {
	switch t := t.(type) {
	case *syntax.PathType:
		t.Span = s
	case *syntax.RefType:
		t.Span = s
	case *syntax.OtherType:
		t.Span = s
	}
}

func paramText(p syntax.Param) string {
	switch p := p.(type) {
	case *syntax.ReceiverParam:
		return p.Text
	case *syntax.TypedParam:
		var pat string
		switch b := p.Pat.(type) {
		case *syntax.IdentPat:
			pat = b.Name
		case *syntax.OtherPat:
			pat = b.Text
		}
		return pat + ": " + p.Type.String()
	}
	return ""
}

func span(line, col int) syntax.Span {
	return syntax.Span{
		File:  File,
		Start: syntax.Pos{Line: line, Column: col},
		End:   syntax.Pos{Line: line, Column: col + 1},
	}
}
