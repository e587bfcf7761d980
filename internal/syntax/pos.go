package syntax

import "fmt"

// Pos is a position in a source file. Line and Column are 1-based,
// Offset is a 0-based byte offset.
type Pos struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// IsValid reports whether the position was set by a frontend.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

// Span is the source range of a syntax element.
type Span struct {
	File  string `json:"file,omitempty"`
	Start Pos    `json:"start"`
	End   Pos    `json:"end"`
}

// IsValid reports whether the span has a valid start position.
func (s Span) IsValid() bool {
	return s.Start.IsValid()
}

// String renders the span start as file:line:col.
func (s Span) String() string {
	if !s.IsValid() {
		return "-"
	}
	if s.File == "" {
		return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Column)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Start.Line, s.Start.Column)
}
