package sim

import (
	"context"

	"github.com/vk/plantsimgo/internal/model"
	"github.com/vk/plantsimgo/internal/variable"
)

// producer writes a constant to one output and counts its invocations.
type producer struct {
	out   string
	value float64
	calls int
}

func (m *producer) Inputs() *variable.Declaration { return variable.NewDeclaration() }

func (m *producer) Outputs() *variable.Declaration {
	return variable.NewDeclaration(variable.Variable{Name: m.out, Default: -999.99})
}

func (m *producer) Compute(_ context.Context, sc *model.Scope) error {
	m.calls++
	sc.Status.SetFloat(m.out, m.value)
	return nil
}

// doubler writes twice its input.
type doubler struct {
	in  string
	out string
}

func (m *doubler) Inputs() *variable.Declaration {
	return variable.NewDeclaration(variable.Variable{Name: m.in, Default: -999.99})
}

func (m *doubler) Outputs() *variable.Declaration {
	return variable.NewDeclaration(variable.Variable{Name: m.out, Default: -999.99})
}

func (m *doubler) Compute(_ context.Context, sc *model.Scope) error {
	sc.Status.SetFloat(m.out, 2*sc.Status.Float(m.in))
	return nil
}

// accumulator adds its input onto the previous step's total.
type accumulator struct {
	in  string
	out string
}

func (m *accumulator) Inputs() *variable.Declaration {
	return variable.NewDeclaration(variable.Variable{Name: m.in, Default: -999.99})
}

func (m *accumulator) Outputs() *variable.Declaration {
	return variable.NewDeclaration(variable.Variable{Name: m.out, Default: 0.0})
}

func (m *accumulator) Compute(_ context.Context, sc *model.Scope) error {
	sc.Status.SetFloat(m.out, sc.Previous().Float(m.out)+sc.Status.Float(m.in))
	return nil
}

// meanTemp copies the driver record's mean temperature into the store.
type meanTemp struct {
	out string
}

func (m *meanTemp) Inputs() *variable.Declaration { return variable.NewDeclaration() }

func (m *meanTemp) Outputs() *variable.Declaration {
	return variable.NewDeclaration(variable.Variable{Name: m.out, Default: -999.99})
}

func (m *meanTemp) Compute(_ context.Context, sc *model.Scope) error {
	sc.Status.SetFloat(m.out, sc.Met.TMean())
	return nil
}

// failing always returns its error.
type failing struct {
	err error
}

func (m *failing) Inputs() *variable.Declaration { return variable.NewDeclaration() }

func (m *failing) Outputs() *variable.Declaration {
	return variable.NewDeclaration(variable.Variable{Name: "failing_out", Default: -999.99})
}

func (m *failing) Compute(context.Context, *model.Scope) error {
	return m.err
}

// scaled multiplies its input by a run-level constant.
type scaled struct {
	in       string
	out      string
	constant string
}

func (m *scaled) Inputs() *variable.Declaration {
	return variable.NewDeclaration(variable.Variable{Name: m.in, Default: -999.99})
}

func (m *scaled) Outputs() *variable.Declaration {
	return variable.NewDeclaration(variable.Variable{Name: m.out, Default: -999.99})
}

func (m *scaled) Compute(_ context.Context, sc *model.Scope) error {
	gain, _ := sc.Constants[m.constant].(float64)
	sc.Status.SetFloat(m.out, gain*sc.Status.Float(m.in))
	return nil
}
