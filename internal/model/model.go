// Package model defines the contract every process model implements: the
// variable declaration protocol (which variables it reads and produces)
// and a single side-effecting computation entry point. The engine never
// inspects a model beyond this contract.
package model

import (
	"context"

	"github.com/vk/plantsimgo/internal/status"
	"github.com/vk/plantsimgo/internal/variable"
	"github.com/vk/plantsimgo/internal/weather"
)

// Model is one concrete, parameterized implementation of a process. Models
// are immutable after construction; all mutable state lives in the status
// store the Scope hands to Compute.
type Model interface {
	// Inputs declares the variables the model reads, with placeholder
	// defaults.
	Inputs() *variable.Declaration
	// Outputs declares the variables the model writes, with placeholder
	// defaults.
	Outputs() *variable.Declaration
	// Compute performs the model's computation for one object and one
	// time step, reading and writing the shared status through sc. It
	// returns no value: coupling happens through the store.
	Compute(ctx context.Context, sc *Scope) error
}

// HardDependent is an optional declaration that a model needs some model
// assigned to the named processes, independent of variable name matching.
// An unsatisfied requirement does not fail graph construction; any missing
// variable it causes surfaces in the initialization analysis.
type HardDependent interface {
	RequiredProcesses() []string
}

// Mapping assigns at most one model to each named process.
type Mapping map[string]Model

// Clone returns a shallow copy of the mapping.
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for process, mdl := range m {
		out[process] = mdl
	}
	return out
}

// None is the stand-in for "no model assigned to this process". Its
// declarations are empty so the rest of the system treats absence
// uniformly instead of failing.
type None struct{}

func (None) Inputs() *variable.Declaration  { return variable.NewDeclaration() }
func (None) Outputs() *variable.Declaration { return variable.NewDeclaration() }
func (None) Compute(context.Context, *Scope) error {
	return nil
}

// IsNone reports whether a model slot is effectively unassigned.
func IsNone(m Model) bool {
	if m == nil {
		return true
	}
	_, ok := m.(None)
	return ok
}

// InputsOf returns a model's input declaration, empty for an absent model.
func InputsOf(m Model) *variable.Declaration {
	if IsNone(m) {
		return variable.NewDeclaration()
	}
	return m.Inputs()
}

// OutputsOf returns a model's output declaration, empty for an absent model.
func OutputsOf(m Model) *variable.Declaration {
	if IsNone(m) {
		return variable.NewDeclaration()
	}
	return m.Outputs()
}

// Variables returns the deduplicated union of all inputs and outputs of
// the given models, preserving first-seen order. Conflicting kinds are
// promoted; the conflicts are returned for diagnostic reporting.
func Variables(models ...Model) (*variable.Declaration, []variable.TypeConflict) {
	union := variable.NewDeclaration()
	var conflicts []variable.TypeConflict
	for _, m := range models {
		conflicts = append(conflicts, union.Merge(InputsOf(m))...)
		conflicts = append(conflicts, union.Merge(OutputsOf(m))...)
	}
	return union, conflicts
}

// Scope is everything a computation may touch for one object and step.
type Scope struct {
	// Status is the row for the current step.
	Status status.Row
	// Store is the full store of the object, for models that read values
	// left by a previous step.
	Store status.Store
	// Step is the current step index.
	Step int
	// Met is the driver record for the step; nil when the run has no
	// driver data.
	Met *weather.Record
	// Models is the full process assignment of the owning collection.
	Models Mapping
	// Constants are run-level named constants.
	Constants map[string]any
	// Extra is caller-supplied context passed through untouched.
	Extra any
}

// Previous returns the row of the preceding step, or the current row at
// step zero.
func (sc *Scope) Previous() status.Row {
	if sc.Step == 0 || sc.Store == nil {
		return sc.Status
	}
	return sc.Store.Row(sc.Step - 1)
}
