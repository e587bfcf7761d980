package ir

import "encoding/json"

type argJSON struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// MarshalJSON renders the argument type as source text.
func (a Arg) MarshalJSON() ([]byte, error) {
	return json.Marshal(argJSON{Name: a.Name, Type: a.TypeString()})
}

// MarshalJSON adds the rendered return type and always emits args as a list.
func (ix Instruction) MarshalJSON() ([]byte, error) {
	type plain Instruction
	p := plain(ix)
	if p.Args == nil {
		p.Args = []Arg{}
	}
	return json.Marshal(struct {
		plain
		Returns string `json:"returns,omitempty"`
	}{p, ix.ReturnsString()})
}

// MarshalJSON always emits instructions as a list.
func (p Program) MarshalJSON() ([]byte, error) {
	type plain Program
	out := plain(p)
	if out.Instructions == nil {
		out.Instructions = []Instruction{}
	}
	return json.Marshal(out)
}

// CanonicalMap converts the program to the map form accepted by
// MarshalCanonical. Optional fields are omitted when empty.
func (p Program) CanonicalMap() map[string]any {
	ixs := make([]any, len(p.Instructions))
	for i, ix := range p.Instructions {
		ixs[i] = ix.CanonicalMap()
	}
	return map[string]any{
		"name":         p.Name,
		"instructions": ixs,
	}
}

// CanonicalMap converts the instruction to the map form accepted by
// MarshalCanonical.
func (ix Instruction) CanonicalMap() map[string]any {
	args := make([]any, len(ix.Args))
	for i, a := range ix.Args {
		args[i] = a.CanonicalMap()
	}
	m := map[string]any{
		"name":          ix.Name,
		"context":       ix.Context.CanonicalMap(),
		"context_ident": ix.ContextIdent,
		"args":          args,
	}
	if len(ix.Docs) > 0 {
		docs := make([]any, len(ix.Docs))
		for i, d := range ix.Docs {
			docs[i] = d
		}
		m["docs"] = docs
	}
	if ix.Returns != nil {
		m["returns"] = ix.ReturnsString()
	}
	return m
}

// CanonicalMap converts the argument to the map form accepted by
// MarshalCanonical.
func (a Arg) CanonicalMap() map[string]any {
	return map[string]any{
		"name": a.Name,
		"type": a.TypeString(),
	}
}
