package harness

import (
	"github.com/roach88/anchorix/internal/compiler"
	"github.com/roach88/anchorix/internal/ir"
)

// Outcome is what a scan produced: programs, collect-all diagnostics, or a
// fail-fast error.
type Outcome struct {
	Programs    []*ir.Program
	Diagnostics []compiler.ValidationError

	// Err is the scan error, nil on success. Scenarios may expect it.
	Err error
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every assertion held.
	Pass bool `json:"pass"`

	Outcome Outcome `json:"-"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// program returns the named program of the outcome, or nil.
func (o *Outcome) program(name string) *ir.Program {
	for _, p := range o.Programs {
		if p.Name == name {
			return p
		}
	}
	return nil
}
