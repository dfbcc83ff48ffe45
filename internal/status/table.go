package status

import (
	"fmt"
	"sort"
)

// TimeStepTable is an ordered sequence of per-step rows sharing one field
// set. Storage is column-major: one slice per field, one slot per step, so
// a row view writes straight into the shared columns and tabular export
// consumers can read whole columns without copying.
type TimeStepTable struct {
	names []string
	index map[string]int
	cols  [][]any
	steps int
}

// NewTable constructs a table from one mapping per time step. All mappings
// must declare the identical field set; a mismatch is an error.
func NewTable(rows []map[string]any) (*TimeStepTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("time step table requires at least one row")
	}

	names := make([]string, 0, len(rows[0]))
	for name := range rows[0] {
		names = append(names, name)
	}
	sort.Strings(names)

	t := newTable(names, len(rows))
	for step, row := range rows {
		if len(row) != len(names) {
			return nil, fmt.Errorf("row %d declares %d fields, want %d", step, len(row), len(names))
		}
		for _, name := range names {
			value, ok := row[name]
			if !ok {
				return nil, fmt.Errorf("row %d is missing field %q", step, name)
			}
			t.cols[t.index[name]][step] = value
		}
	}
	return t, nil
}

// Expand builds an n-step table from a single-step prototype by
// broadcasting each field's current value across all n slots. This is the
// pre-allocation path: scalar storage is replaced by per-step storage
// without touching the field set.
func Expand(proto *Status, n int) *TimeStepTable {
	if n < 1 {
		panic(fmt.Sprintf("status: cannot expand to %d steps", n))
	}
	t := newTable(proto.names, n)
	for i, name := range proto.names {
		col := t.cols[t.index[name]]
		for step := 0; step < n; step++ {
			col[step] = proto.slots[i]
		}
	}
	return t
}

func newTable(names []string, steps int) *TimeStepTable {
	t := &TimeStepTable{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
		cols:  make([][]any, len(names)),
		steps: steps,
	}
	for i, name := range names {
		t.index[name] = i
		t.cols[i] = make([]any, steps)
	}
	return t
}

// Names returns the field names shared by every row.
func (t *TimeStepTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Steps returns the number of time steps.
func (t *TimeStepTable) Steps() int { return t.steps }

// Row returns a view over one step. Writes through the view land in the
// table's column storage.
func (t *TimeStepTable) Row(step int) Row {
	if step < 0 || step >= t.steps {
		panic(fmt.Sprintf("status: row %d out of range, table has %d steps", step, t.steps))
	}
	return &rowView{table: t, step: step}
}

// Clone returns an independent copy of the table, every step included.
func (t *TimeStepTable) Clone() Store {
	out := newTable(t.names, t.steps)
	for i := range t.cols {
		copy(out.cols[i], t.cols[i])
	}
	return out
}

// Column returns the per-step values of one field, row-major consumers can
// iterate Rows instead.
func (t *TimeStepTable) Column(name string) ([]any, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, &UnknownVariableError{Name: name, Known: t.Names()}
	}
	out := make([]any, t.steps)
	copy(out, t.cols[i])
	return out, nil
}

// rowView scopes the table to a single step.
type rowView struct {
	table *TimeStepTable
	step  int
}

func (r *rowView) Names() []string { return r.table.Names() }

func (r *rowView) Get(name string) (any, error) {
	i, ok := r.table.index[name]
	if !ok {
		return nil, &UnknownVariableError{Name: name, Known: r.table.Names()}
	}
	return r.table.cols[i][r.step], nil
}

func (r *rowView) Set(name string, value any) error {
	i, ok := r.table.index[name]
	if !ok {
		return &UnknownVariableError{Name: name, Known: r.table.Names()}
	}
	r.table.cols[i][r.step] = value
	return nil
}

func (r *rowView) Float(name string) float64 {
	return asFloat(name, r.table.cols[mustIndex(r.table.index, name)][r.step])
}

func (r *rowView) SetFloat(name string, value float64) {
	r.table.cols[mustIndex(r.table.index, name)][r.step] = value
}

func (r *rowView) At(i int) any {
	return r.table.cols[i][r.step]
}

func (r *rowView) AsMap() map[string]any {
	out := make(map[string]any, len(r.table.names))
	for i, name := range r.table.names {
		out[name] = r.table.cols[i][r.step]
	}
	return out
}
