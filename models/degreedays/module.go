// Package degreedays computes thermal time from the driver temperature:
// the degree days of the current step and their running total.
package degreedays

import (
	"context"

	"github.com/vk/plantsimgo/internal/model"
	"github.com/vk/plantsimgo/internal/registry"
	"github.com/vk/plantsimgo/internal/variable"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Model accumulates degree days against a base temperature, capped at an
// optimum.
type Model struct {
	TBase float64 `hcl:"base,optional"`
	TOpt  float64 `hcl:"optimum,optional"`
}

// New returns a model with the default parameterization.
func New() *Model {
	return &Model{TBase: 10, TOpt: 25}
}

func (m *Model) Inputs() *variable.Declaration {
	return variable.NewDeclaration()
}

func (m *Model) Outputs() *variable.Declaration {
	return variable.NewDeclaration(
		variable.Variable{Name: "tt", Default: -999.99},
		variable.Variable{Name: "tt_cu", Default: 0.0},
	)
}

// Compute derives the step's degree days from the mean temperature and
// adds them to the running total left by the previous step.
func (m *Model) Compute(ctx context.Context, sc *model.Scope) error {
	tmean := 0.0
	if sc.Met != nil {
		tmean = sc.Met.TMean()
	}

	tt := tmean - m.TBase
	if tt < 0 {
		tt = 0
	}
	if max := m.TOpt - m.TBase; tt > max {
		tt = max
	}

	// At step 0 Previous falls back to the current row, so the total
	// starts from the seeded init value (or from the last value left in a
	// single-step working store).
	cu := tt + sc.Previous().Float("tt_cu")

	sc.Status.SetFloat("tt", tt)
	sc.Status.SetFloat("tt_cu", cu)
	return nil
}

// Register registers the model factory with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register("degree_days", func() model.Model { return New() })
}
