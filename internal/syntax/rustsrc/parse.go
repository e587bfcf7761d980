// Package rustsrc builds syntax trees from Rust source using Tree-sitter.
//
// Only the shapes the instruction compiler needs are modelled: top-level
// modules with their outer attributes and doc comments, function items with
// their parameters, and path/reference types. Everything else becomes an
// OtherItem or OtherType carrying its source text.
package rustsrc

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/roach88/anchorix/internal/syntax"
)

// DefaultProgramAttr is the attribute that marks a program module.
const DefaultProgramAttr = "program"

// File is a parsed Rust source file.
type File struct {
	Path    string
	Modules []*syntax.Module
}

// SyntaxError reports source that Tree-sitter could not parse.
type SyntaxError struct {
	Span    syntax.Span
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: syntax error: %s", e.Span, e.Message)
}

// Parse parses Rust source and collects its top-level modules.
// path is only used to label spans.
func Parse(ctx context.Context, path string, src []byte) (*File, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(rust.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	b := &builder{path: path, src: src}

	if root.HasError() {
		if bad := firstErrorNode(root); bad != nil {
			return nil, b.syntaxError(bad)
		}
		return nil, &SyntaxError{Span: b.span(root), Message: "malformed source"}
	}

	file := &File{Path: path}
	var attrs []syntax.Attribute
	var docs []string
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "attribute_item":
			attrs = append(attrs, b.attribute(child))
		case "line_comment":
			if doc, ok := b.docLine(child); ok {
				docs = append(docs, doc)
			}
		case "block_comment", "inner_attribute_item":
		case "mod_item":
			file.Modules = append(file.Modules, b.module(child, attrs, docs))
			attrs, docs = nil, nil
		default:
			attrs, docs = nil, nil
		}
	}

	return file, nil
}

// ParseFile reads and parses the Rust file at path.
func ParseFile(ctx context.Context, path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(ctx, path, src)
}

// Programs returns the modules marked with #[attr] (or #[path::attr]),
// in source order.
func (f *File) Programs(attr string) []*syntax.Module {
	if attr == "" {
		attr = DefaultProgramAttr
	}
	var out []*syntax.Module
	for _, m := range f.Modules {
		if m.HasAttr(attr) {
			out = append(out, m)
		}
	}
	return out
}

// Module returns the top-level module with the given name, or nil.
func (f *File) Module(name string) *syntax.Module {
	for _, m := range f.Modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || (!child.HasError() && !child.IsMissing()) {
			continue
		}
		if bad := firstErrorNode(child); bad != nil {
			return bad
		}
	}
	return nil
}

type builder struct {
	path string
	src  []byte
}

func (b *builder) text(n *sitter.Node) string {
	return n.Content(b.src)
}

func (b *builder) span(n *sitter.Node) syntax.Span {
	return b.spanRange(n, n)
}

func (b *builder) spanRange(from, to *sitter.Node) syntax.Span {
	start, end := from.StartPoint(), to.EndPoint()
	return syntax.Span{
		File: b.path,
		Start: syntax.Pos{
			Offset: int(from.StartByte()),
			Line:   int(start.Row) + 1,
			Column: int(start.Column) + 1,
		},
		End: syntax.Pos{
			Offset: int(to.EndByte()),
			Line:   int(end.Row) + 1,
			Column: int(end.Column) + 1,
		},
	}
}

func (b *builder) syntaxError(n *sitter.Node) *SyntaxError {
	if n.IsMissing() {
		return &SyntaxError{Span: b.span(n), Message: fmt.Sprintf("missing %s", n.Type())}
	}
	snippet := b.text(n)
	if i := strings.IndexByte(snippet, '\n'); i >= 0 {
		snippet = snippet[:i]
	}
	return &SyntaxError{Span: b.span(n), Message: fmt.Sprintf("unexpected %q", snippet)}
}

// attribute parses #[path(...)] into its path and text.
func (b *builder) attribute(n *sitter.Node) syntax.Attribute {
	text := b.text(n)
	inner := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(text, "#["), "]"))
	path := inner
	if i := strings.IndexAny(inner, "( =\t\n"); i >= 0 {
		path = inner[:i]
	}
	return syntax.Attribute{Path: path, Text: text, Span: b.span(n)}
}

// docLine returns the content of a `///` outer doc comment.
func (b *builder) docLine(n *sitter.Node) (string, bool) {
	text := b.text(n)
	if !strings.HasPrefix(text, "///") || strings.HasPrefix(text, "////") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(text, "///")), true
}

func (b *builder) module(n *sitter.Node, attrs []syntax.Attribute, docs []string) *syntax.Module {
	mod := &syntax.Module{
		Attrs: attrs,
		Docs:  docs,
		Span:  b.span(n),
	}
	if name := n.ChildByFieldName("name"); name != nil {
		mod.Name = b.text(name)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		mod.Body = b.moduleBody(body)
	}
	return mod
}

func (b *builder) moduleBody(n *sitter.Node) *syntax.ModuleBody {
	body := &syntax.ModuleBody{Span: b.span(n)}
	var attrs []syntax.Attribute
	var docs []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "attribute_item":
			attrs = append(attrs, b.attribute(child))
		case "line_comment":
			if doc, ok := b.docLine(child); ok {
				docs = append(docs, doc)
			}
		case "block_comment", "inner_attribute_item", "empty_statement":
		case "function_item":
			body.Items = append(body.Items, b.function(child, attrs, docs))
			attrs, docs = nil, nil
		default:
			body.Items = append(body.Items, b.otherItem(child))
			attrs, docs = nil, nil
		}
	}
	return body
}

var itemKinds = map[string]string{
	"use_declaration":          "use",
	"extern_crate_declaration": "extern_crate",
	"foreign_mod_item":         "foreign_mod",
	"macro_definition":         "macro_rules",
	"macro_invocation":         "macro",
	"function_signature_item":  "fn_signature",
}

func (b *builder) otherItem(n *sitter.Node) *syntax.OtherItem {
	kind, ok := itemKinds[n.Type()]
	if !ok {
		kind = strings.TrimSuffix(n.Type(), "_item")
	}
	item := &syntax.OtherItem{
		Kind: kind,
		Text: b.text(n),
		Span: b.span(n),
	}
	if name := n.ChildByFieldName("name"); name != nil {
		item.Name = b.text(name)
	}
	return item
}

func (b *builder) function(n *sitter.Node, attrs []syntax.Attribute, docs []string) *syntax.FnItem {
	fn := &syntax.FnItem{
		Attrs: attrs,
		Docs:  docs,
		Text:  b.text(n),
		Span:  b.span(n),
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child.Type() == "visibility_modifier" {
			fn.Visibility = b.text(child)
			break
		}
	}

	sigEnd := n
	if name := n.ChildByFieldName("name"); name != nil {
		fn.Sig.Name = b.text(name)
		fn.Sig.NameSpan = b.span(name)
		sigEnd = name
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		fn.Sig.Params = b.params(params)
		sigEnd = params
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		fn.Sig.Output = b.typ(ret)
		sigEnd = ret
	}
	fn.Sig.Span = b.spanRange(n, sigEnd)

	if body := n.ChildByFieldName("body"); body != nil {
		fn.Body = b.text(body)
	}
	return fn
}

func (b *builder) params(n *sitter.Node) []syntax.Param {
	var params []syntax.Param
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "attribute_item", "line_comment", "block_comment":
		case "self_parameter":
			text := b.text(child)
			params = append(params, &syntax.ReceiverParam{
				Ref:     strings.HasPrefix(text, "&"),
				Mutable: hasChild(child, "mutable_specifier"),
				Text:    text,
				Span:    b.span(child),
			})
		case "parameter":
			params = append(params, b.param(child))
		case "variadic_parameter":
			params = append(params, &syntax.TypedParam{
				Pat:  &syntax.OtherPat{Kind: "variadic", Text: b.text(child), Span: b.span(child)},
				Type: &syntax.OtherType{Kind: "variadic", Text: b.text(child), Span: b.span(child)},
				Span: b.span(child),
			})
		default:
			// A bare type with no binding.
			params = append(params, &syntax.TypedParam{
				Pat:  &syntax.OtherPat{Kind: "none", Span: b.span(child)},
				Type: b.typ(child),
				Span: b.span(child),
			})
		}
	}
	return params
}

func (b *builder) param(n *sitter.Node) syntax.Param {
	patNode := n.ChildByFieldName("pattern")
	typeNode := n.ChildByFieldName("type")

	var ty syntax.Type
	if typeNode != nil {
		ty = b.typ(typeNode)
	}

	if patNode != nil && patNode.Type() == "self" {
		return &syntax.ReceiverParam{
			Mutable: hasChild(n, "mutable_specifier"),
			Type:    ty,
			Text:    b.text(n),
			Span:    b.span(n),
		}
	}

	p := &syntax.TypedParam{Type: ty, Span: b.span(n)}
	if patNode == nil {
		p.Pat = &syntax.OtherPat{Kind: "none", Span: b.span(n)}
		return p
	}
	p.Pat = b.pattern(patNode)
	if ident, ok := p.Pat.(*syntax.IdentPat); ok && hasChild(n, "mutable_specifier") {
		ident.Mutable = true
	}
	return p
}

func (b *builder) pattern(n *sitter.Node) syntax.Pattern {
	switch n.Type() {
	case "identifier":
		return &syntax.IdentPat{Name: b.text(n), Span: b.span(n)}
	case "mut_pattern", "ref_pattern":
		if n.NamedChildCount() > 0 {
			if inner, ok := b.pattern(lastNamedChild(n)).(*syntax.IdentPat); ok {
				inner.Span = b.span(n)
				if n.Type() == "mut_pattern" {
					inner.Mutable = true
				} else {
					inner.ByRef = true
				}
				return inner
			}
		}
	}
	return &syntax.OtherPat{Kind: n.Type(), Text: b.text(n), Span: b.span(n)}
}

func (b *builder) typ(n *sitter.Node) syntax.Type {
	switch n.Type() {
	case "type_identifier", "primitive_type", "scoped_type_identifier", "generic_type":
		return &syntax.PathType{
			Segments: b.pathSegments(n),
			Text:     b.text(n),
			Span:     b.span(n),
		}
	case "reference_type":
		ref := &syntax.RefType{
			Mutable: hasChild(n, "mutable_specifier"),
			Text:    b.text(n),
			Span:    b.span(n),
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if child := n.NamedChild(i); child.Type() == "lifetime" {
				ref.Lifetime = b.text(child)
			}
		}
		if elem := n.ChildByFieldName("type"); elem != nil {
			ref.Elem = b.typ(elem)
		}
		return ref
	default:
		return &syntax.OtherType{Kind: n.Type(), Text: b.text(n), Span: b.span(n)}
	}
}

func (b *builder) pathSegments(n *sitter.Node) []syntax.PathSegment {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "scoped_type_identifier", "scoped_identifier":
		segs := b.pathSegments(n.ChildByFieldName("path"))
		if name := n.ChildByFieldName("name"); name != nil {
			segs = append(segs, syntax.PathSegment{Ident: b.text(name), Span: b.span(name)})
		}
		return segs
	case "generic_type":
		segs := b.pathSegments(n.ChildByFieldName("type"))
		if args := n.ChildByFieldName("type_arguments"); args != nil && len(segs) > 0 {
			last := &segs[len(segs)-1]
			last.Args = b.genericArgs(args)
			last.Span = b.spanRange(n, args)
		}
		return segs
	default:
		return []syntax.PathSegment{{Ident: b.text(n), Span: b.span(n)}}
	}
}

func (b *builder) genericArgs(n *sitter.Node) []syntax.GenericArg {
	args := []syntax.GenericArg{}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		kind := child.Type()
		switch {
		case kind == "line_comment" || kind == "block_comment":
		case kind == "lifetime":
			args = append(args, syntax.GenericArg{Lifetime: b.text(child), Span: b.span(child)})
		case kind == "type_binding" || kind == "block" || kind == "negative_literal" ||
			strings.HasSuffix(kind, "_literal"):
			args = append(args, syntax.GenericArg{Other: b.text(child), Span: b.span(child)})
		default:
			args = append(args, syntax.GenericArg{Type: b.typ(child), Span: b.span(child)})
		}
	}
	return args
}

func hasChild(n *sitter.Node, kind string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == kind {
			return true
		}
	}
	return false
}

func lastNamedChild(n *sitter.Node) *sitter.Node {
	return n.NamedChild(int(n.NamedChildCount()) - 1)
}
