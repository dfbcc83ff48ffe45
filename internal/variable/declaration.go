// Package variable defines the value side of the model declaration
// protocol: named variables with declared defaults, and insertion-ordered
// declaration sets with deduplicating, type-promoting union semantics.
package variable

// Variable is one declared variable: a name and the default (placeholder)
// value the declaring model supplies. A variable whose current value still
// equals its default is considered uninitialized.
type Variable struct {
	Name    string
	Default any
}

// Kind returns the kind of the declared default.
func (v Variable) Kind() Kind {
	return KindOf(v.Default)
}

// Declaration is an ordered set of variables, keyed by name, preserving
// first-seen order. Re-adding a name is a union: the first declaration
// wins its position, and diverging kinds are reconciled by promotion.
type Declaration struct {
	names  []string
	byName map[string]Variable
}

// NewDeclaration builds a declaration from variables in the given order.
func NewDeclaration(vars ...Variable) *Declaration {
	d := &Declaration{byName: make(map[string]Variable, len(vars))}
	for _, v := range vars {
		d.Add(v)
	}
	return d
}

// Add inserts a variable, unioning by name. When the name is already
// declared with a different kind, the default is widened to the common
// kind and the conflict is returned for diagnostic reporting; the second
// result is nil when the addition was silent.
func (d *Declaration) Add(v Variable) *TypeConflict {
	existing, ok := d.byName[v.Name]
	if !ok {
		d.names = append(d.names, v.Name)
		d.byName[v.Name] = v
		return nil
	}

	declared, seen := existing.Kind(), v.Kind()
	if declared == seen {
		return nil
	}

	chosen, promoted := Promote(declared, seen)
	if promoted && chosen != declared {
		existing.Default = Convert(existing.Default, chosen)
		d.byName[v.Name] = existing
	}
	return &TypeConflict{
		Name:     v.Name,
		Declared: declared,
		Seen:     seen,
		Chosen:   chosen,
		Promoted: promoted,
	}
}

// Merge unions another declaration into this one, returning any type
// conflicts encountered. Merging a declaration into itself is a no-op
// (union is idempotent).
func (d *Declaration) Merge(other *Declaration) []TypeConflict {
	if other == nil || other == d {
		return nil
	}
	var conflicts []TypeConflict
	for _, name := range other.names {
		if c := d.Add(other.byName[name]); c != nil {
			conflicts = append(conflicts, *c)
		}
	}
	return conflicts
}

// Sub returns the set difference by name: every variable of d whose name
// does not appear in other, in d's order.
func (d *Declaration) Sub(other *Declaration) *Declaration {
	out := NewDeclaration()
	for _, name := range d.names {
		if other != nil && other.Has(name) {
			continue
		}
		out.Add(d.byName[name])
	}
	return out
}

// Get returns the variable declared under name.
func (d *Declaration) Get(name string) (Variable, bool) {
	v, ok := d.byName[name]
	return v, ok
}

// Has reports whether name is declared.
func (d *Declaration) Has(name string) bool {
	_, ok := d.byName[name]
	return ok
}

// Names returns the declared names in first-seen order.
func (d *Declaration) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Len returns the number of declared variables.
func (d *Declaration) Len() int {
	return len(d.names)
}

// AsMap returns a name to default-value mapping.
func (d *Declaration) AsMap() map[string]any {
	out := make(map[string]any, len(d.names))
	for name, v := range d.byName {
		out[name] = v.Default
	}
	return out
}

// Clone returns an independent copy preserving order.
func (d *Declaration) Clone() *Declaration {
	out := NewDeclaration()
	for _, name := range d.names {
		out.Add(d.byName[name])
	}
	return out
}
