package ir

import "github.com/roach88/anchorix/internal/syntax"

// Program is the result of scanning one program module.
type Program struct {
	Name         string        `json:"name"`
	Instructions []Instruction `json:"instructions"`
}

// Instruction is one validated handler function.
type Instruction struct {
	Name         string   `json:"name"`
	Context      Arg      `json:"context"`
	ContextIdent string   `json:"context_ident"` // accounts struct named by the context type
	Args         []Arg    `json:"args"`          // parameters after the context, in order
	Docs         []string `json:"docs,omitempty"`

	// Returns is T of a Result<T> return type, nil for Result<()> or no
	// return type.
	Returns syntax.Type `json:"-"`

	// Raw is the handler declaration exactly as parsed.
	Raw *syntax.FnItem `json:"-"`
}

// Arg is a named handler parameter. Type is carried opaquely.
type Arg struct {
	Name string
	Type syntax.Type
}

// TypeString renders the argument type as source text.
func (a Arg) TypeString() string {
	return typeText(a.Type)
}

// ReturnsString renders the return type, or "" when there is none.
func (ix Instruction) ReturnsString() string {
	return typeText(ix.Returns)
}

func typeText(t syntax.Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}
