// Package lai computes leaf area index as a logistic function of
// cumulated thermal time.
package lai

import (
	"context"
	"math"

	"github.com/vk/plantsimgo/internal/model"
	"github.com/vk/plantsimgo/internal/registry"
	"github.com/vk/plantsimgo/internal/variable"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Model grows LAI along a logistic curve of cumulated degree days.
type Model struct {
	MaxLAI     float64 `hcl:"max_lai,optional"`
	Inflection float64 `hcl:"inflection,optional"`
	Slope      float64 `hcl:"slope,optional"`
}

// New returns a model with the default parameterization.
func New() *Model {
	return &Model{MaxLAI: 8, Inflection: 500, Slope: 120}
}

func (m *Model) Inputs() *variable.Declaration {
	return variable.NewDeclaration(
		variable.Variable{Name: "tt_cu", Default: -999.99},
	)
}

func (m *Model) Outputs() *variable.Declaration {
	return variable.NewDeclaration(
		variable.Variable{Name: "lai", Default: -999.99},
	)
}

func (m *Model) Compute(ctx context.Context, sc *model.Scope) error {
	ttcu := sc.Status.Float("tt_cu")
	sc.Status.SetFloat("lai", m.MaxLAI/(1+math.Exp(-(ttcu-m.Inflection)/m.Slope)))
	return nil
}

// Register registers the model factory with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register("logistic_lai", func() model.Model { return New() })
}
