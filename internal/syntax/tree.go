package syntax

import "strings"

// Module is a named module declaration. Body is nil for a forward
// declaration (`mod foo;`).
type Module struct {
	Name  string
	Attrs []Attribute
	Docs  []string
	Body  *ModuleBody
	Span  Span
}

// ModuleBody holds the ordered top-level items of a module.
type ModuleBody struct {
	Items []Item
	Span  Span
}

// HasAttr reports whether the module carries an outer attribute whose last
// path segment is name.
func (m *Module) HasAttr(name string) bool {
	for _, a := range m.Attrs {
		if a.Name() == name {
			return true
		}
	}
	return false
}

// Attribute is an outer attribute such as #[program] or #[cfg(test)].
type Attribute struct {
	Path string // "program", "anchor_lang::program"
	Text string // full source text including #[ ]
	Span Span
}

// Name returns the last segment of the attribute path.
func (a Attribute) Name() string {
	if i := strings.LastIndex(a.Path, "::"); i >= 0 {
		return a.Path[i+2:]
	}
	return a.Path
}

// Item is one top-level element of a module body.
type Item interface {
	Location() Span
	item()
}

// FnItem is a function declaration.
type FnItem struct {
	Attrs      []Attribute
	Docs       []string
	Visibility string // "pub", "pub(crate)", or empty
	Sig        Signature
	Body       string // body block source, uninterpreted
	Text       string // whole declaration source
	Span       Span
}

// Signature is a function name plus its ordered parameters.
type Signature struct {
	Name     string
	NameSpan Span
	Params   []Param
	Output   Type // nil when the function declares no return type
	Span     Span
}

// OtherItem is any non-function item (struct, enum, const, use, impl, ...).
type OtherItem struct {
	Kind string // "struct", "enum", "const", ...
	Name string // empty for unnamed items such as use or impl
	Text string
	Span Span
}

func (f *FnItem) Location() Span    { return f.Span }
func (o *OtherItem) Location() Span { return o.Span }

func (*FnItem) item()    {}
func (*OtherItem) item() {}

// Param is one function parameter.
type Param interface {
	Location() Span
	param()
}

// TypedParam is a `pattern: Type` parameter.
type TypedParam struct {
	Pat  Pattern
	Type Type
	Span Span
}

// ReceiverParam is a self parameter: self, &self, &mut self, self: Box<Self>.
type ReceiverParam struct {
	Ref     bool
	Mutable bool
	Type    Type // explicit receiver type, nil for the shorthand forms
	Text    string
	Span    Span
}

func (p *TypedParam) Location() Span    { return p.Span }
func (p *ReceiverParam) Location() Span { return p.Span }

func (*TypedParam) param()    {}
func (*ReceiverParam) param() {}

// Pattern is the binding side of a typed parameter.
type Pattern interface {
	Location() Span
	pattern()
}

// IdentPat binds a single identifier, optionally `mut` or `ref`.
type IdentPat struct {
	Name    string
	Mutable bool
	ByRef   bool
	Span    Span
}

// OtherPat is any pattern that does not bind exactly one identifier
// (tuples, structs, wildcards, slices, ...).
type OtherPat struct {
	Kind string
	Text string
	Span Span
}

func (p *IdentPat) Location() Span { return p.Span }
func (p *OtherPat) Location() Span { return p.Span }

func (*IdentPat) pattern() {}
func (*OtherPat) pattern() {}

// Type is a type annotation. String returns the annotation's source text.
type Type interface {
	Location() Span
	String() string
	typ()
}

// PathType is a (possibly qualified, possibly generic) named type such as
// `u64`, `Vec<u8>` or `anchor_lang::prelude::Context<'_, Initialize>`.
type PathType struct {
	Segments []PathSegment
	Text     string
	Span     Span
}

// PathSegment is one `::`-separated segment of a path type.
type PathSegment struct {
	Ident string
	Args  []GenericArg // angle-bracketed arguments, nil when absent
	Span  Span
}

// GenericArg is one angle-bracketed argument. Exactly one of Lifetime,
// Type or Other is set.
type GenericArg struct {
	Lifetime string
	Type     Type
	Other    string // const expressions, associated type bindings
	Span     Span
}

// RefType is a reference type `&'a mut T`.
type RefType struct {
	Lifetime string
	Mutable  bool
	Elem     Type
	Text     string
	Span     Span
}

// OtherType is any other type form (tuples, arrays, slices, fn pointers, ...).
type OtherType struct {
	Kind string
	Text string
	Span Span
}

func (t *PathType) Location() Span  { return t.Span }
func (t *RefType) Location() Span   { return t.Span }
func (t *OtherType) Location() Span { return t.Span }

func (t *PathType) String() string  { return t.Text }
func (t *RefType) String() string   { return t.Text }
func (t *OtherType) String() string { return t.Text }

func (*PathType) typ()  {}
func (*RefType) typ()   {}
func (*OtherType) typ() {}

// Last returns the final segment of the path.
func (t *PathType) Last() PathSegment {
	if len(t.Segments) == 0 {
		return PathSegment{}
	}
	return t.Segments[len(t.Segments)-1]
}
