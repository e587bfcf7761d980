// Package schema checks compiled programs against the IR schema.
//
// The schema is written in CUE (program.cue) and embedded in the binary.
// A program is checked by unifying its JSON encoding with #Program and
// requiring the result to be concrete.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/anchorix/internal/ir"
)

//go:embed program.cue
var programSchema string

// Violation is one schema mismatch.
type Violation struct {
	Path    string `json:"path"` // e.g. "instructions.0.context_ident"
	Message string `json:"message"`
}

// Error lists every violation found in a program.
type Error struct {
	Program    string
	Violations []Violation
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		if v.Path == "" {
			parts[i] = v.Message
		} else {
			parts[i] = v.Path + ": " + v.Message
		}
	}
	return fmt.Sprintf("program %q does not match IR schema: %s", e.Program, strings.Join(parts, "; "))
}

// Checker validates programs against the embedded schema.
// A Checker is not safe for concurrent use.
type Checker struct {
	ctx     *cue.Context
	program cue.Value
}

// NewChecker compiles the embedded schema.
func NewChecker() (*Checker, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(programSchema, cue.Filename("program.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compiling IR schema: %w", err)
	}
	def := v.LookupPath(cue.ParsePath("#Program"))
	if !def.Exists() {
		return nil, fmt.Errorf("IR schema has no #Program definition")
	}
	return &Checker{ctx: ctx, program: def}, nil
}

// Check reports whether p matches #Program. Violations are returned as *Error.
func (c *Checker) Check(p ir.Program) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding program %q: %w", p.Name, err)
	}

	v := c.ctx.CompileBytes(data, cue.Filename(p.Name+".json"))
	if err := v.Err(); err != nil {
		return fmt.Errorf("loading program %q: %w", p.Name, err)
	}

	if err := c.program.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return toError(p.Name, err)
	}
	return nil
}

// Check validates p with a fresh Checker.
func Check(p ir.Program) error {
	c, err := NewChecker()
	if err != nil {
		return err
	}
	return c.Check(p)
}

func toError(program string, err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	out := &Error{Program: program}
	for _, e := range errs {
		format, args := e.Msg()
		out.Violations = append(out.Violations, Violation{
			Path:    strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
		})
	}
	return out
}
