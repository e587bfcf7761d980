package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttribute_Name(t *testing.T) {
	assert.Equal(t, "program", Attribute{Path: "program"}.Name())
	assert.Equal(t, "program", Attribute{Path: "anchor_lang::program"}.Name())
}

func TestModule_HasAttr(t *testing.T) {
	m := &Module{Attrs: []Attribute{{Path: "cfg"}, {Path: "anchor_lang::program"}}}
	assert.True(t, m.HasAttr("program"))
	assert.False(t, m.HasAttr("anchor_lang"))
	assert.False(t, (&Module{}).HasAttr("program"))
}

func TestPathType_Last(t *testing.T) {
	ty := &PathType{Segments: []PathSegment{{Ident: "a"}, {Ident: "Context"}}}
	assert.Equal(t, "Context", ty.Last().Ident)
	assert.Equal(t, PathSegment{}, (&PathType{}).Last())
}

func TestSpan_String(t *testing.T) {
	tests := []struct {
		span Span
		want string
	}{
		{Span{}, "-"},
		{Span{Start: Pos{Line: 3, Column: 7}}, "3:7"},
		{Span{File: "lib.rs", Start: Pos{Line: 3, Column: 7}}, "lib.rs:3:7"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.span.String())
		assert.Equal(t, tt.want != "-", tt.span.IsValid())
	}
}
