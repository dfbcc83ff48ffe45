// Package status implements the shared mutable variable store. Fields live
// in an index-based arena: every reader and writer of a field resolves to
// the same slot, so a write by one model computation is visible to every
// other holder of the store. The field-name set is fixed at construction.
package status

import (
	"fmt"
	"sort"
)

// UnknownVariableError is returned when a caller addresses a field name the
// store was not constructed with.
type UnknownVariableError struct {
	Name  string
	Known []string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable %q, store declares %v", e.Name, e.Known)
}

// Row is a read/write view over the fields of one time step.
type Row interface {
	// Get returns the current value of a field.
	Get(name string) (any, error)
	// Set writes a field; the write is visible to every holder of the
	// same store.
	Set(name string, value any) error
	// Float and SetFloat address a field known to hold a float64. An
	// unknown name here is a programmer error and panics, so model code
	// stays free of error plumbing.
	Float(name string) float64
	SetFloat(name string, value float64)
	// At returns the value at a field position, following Names order.
	At(i int) any
	// Names returns the field names of the row.
	Names() []string
	// AsMap snapshots the row as a name to value mapping.
	AsMap() map[string]any
}

// Store is the contract shared by the single-step Status and the
// multi-step TimeStepTable.
type Store interface {
	Names() []string
	Steps() int
	Row(step int) Row
	// Clone returns an independent deep copy holding the same steps and
	// current values.
	Clone() Store
}

// Status is a single-step store: one slot per declared field.
type Status struct {
	names []string
	index map[string]int
	slots []any
}

// New constructs a Status from a key to value mapping. Field order is
// sorted by name so construction from a map stays deterministic.
func New(values map[string]any) *Status {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return NewOrdered(names, values)
}

// NewOrdered constructs a Status with an explicit field order. Every name
// must have a value in the mapping.
func NewOrdered(names []string, values map[string]any) *Status {
	s := &Status{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
		slots: make([]any, len(names)),
	}
	for i, name := range names {
		s.index[name] = i
		s.slots[i] = values[name]
	}
	return s
}

// Names returns the field names in declaration order.
func (s *Status) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Steps reports the number of time steps held; a bare Status is one step.
func (s *Status) Steps() int { return 1 }

// Row returns the single step as a Row view. Only step 0 exists.
func (s *Status) Row(step int) Row {
	if step != 0 {
		panic(fmt.Sprintf("status: row %d out of range for single-step store", step))
	}
	return s
}

// Get returns the current value of a field.
func (s *Status) Get(name string) (any, error) {
	i, ok := s.index[name]
	if !ok {
		return nil, &UnknownVariableError{Name: name, Known: s.Names()}
	}
	return s.slots[i], nil
}

// Set writes a field by name.
func (s *Status) Set(name string, value any) error {
	i, ok := s.index[name]
	if !ok {
		return &UnknownVariableError{Name: name, Known: s.Names()}
	}
	s.slots[i] = value
	return nil
}

// Float returns a float64 field, panicking on unknown names or kinds.
func (s *Status) Float(name string) float64 {
	return asFloat(name, s.slots[mustIndex(s.index, name)])
}

// SetFloat writes a float64 field, panicking on unknown names.
func (s *Status) SetFloat(name string, value float64) {
	s.slots[mustIndex(s.index, name)] = value
}

// At returns the value at a field position, following Names order.
func (s *Status) At(i int) any {
	return s.slots[i]
}

// Clone returns an independent copy of the store.
func (s *Status) Clone() Store {
	return NewOrdered(s.names, s.AsMap())
}

// AsMap snapshots the current values as a name to value mapping.
func (s *Status) AsMap() map[string]any {
	out := make(map[string]any, len(s.names))
	for i, name := range s.names {
		out[name] = s.slots[i]
	}
	return out
}

func mustIndex(index map[string]int, name string) int {
	i, ok := index[name]
	if !ok {
		panic(fmt.Sprintf("status: unknown variable %q", name))
	}
	return i
}

func asFloat(name string, v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	default:
		panic(fmt.Sprintf("status: variable %q holds %T, not a float", name, v))
	}
}
