// Package rue computes biomass growth from intercepted light through a
// radiation use efficiency.
package rue

import (
	"context"

	"github.com/vk/plantsimgo/internal/model"
	"github.com/vk/plantsimgo/internal/registry"
	"github.com/vk/plantsimgo/internal/variable"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Model converts absorbed PPFD into a biomass increment and keeps the
// running total.
type Model struct {
	Efficiency float64 `hcl:"efficiency,optional"`
}

// New returns a model with the default efficiency.
func New() *Model {
	return &Model{Efficiency: 0.2}
}

func (m *Model) Inputs() *variable.Declaration {
	return variable.NewDeclaration(
		variable.Variable{Name: "appfd", Default: -999.99},
	)
}

func (m *Model) Outputs() *variable.Declaration {
	return variable.NewDeclaration(
		variable.Variable{Name: "biomass_increment", Default: -999.99},
		variable.Variable{Name: "biomass", Default: 0.0},
	)
}

// RequiredProcesses declares the capability dependency on a light
// interception model, independent of the variable matching.
func (m *Model) RequiredProcesses() []string {
	return []string{"light_interception"}
}

func (m *Model) Compute(ctx context.Context, sc *model.Scope) error {
	increment := m.Efficiency * sc.Status.Float("appfd")

	total := increment + sc.Previous().Float("biomass")

	sc.Status.SetFloat("biomass_increment", increment)
	sc.Status.SetFloat("biomass", total)
	return nil
}

// Register registers the model factory with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register("rue", func() model.Model { return New() })
}
