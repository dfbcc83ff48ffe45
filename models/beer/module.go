// Package beer computes light interception with the Beer-Lambert law.
package beer

import (
	"context"
	"math"

	"github.com/vk/plantsimgo/internal/model"
	"github.com/vk/plantsimgo/internal/registry"
	"github.com/vk/plantsimgo/internal/variable"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Model intercepts the driver PPFD through a canopy of the current LAI.
type Model struct {
	Extinction float64 `hcl:"extinction,optional"`
}

// New returns a model with the default extinction coefficient.
func New() *Model {
	return &Model{Extinction: 0.5}
}

func (m *Model) Inputs() *variable.Declaration {
	return variable.NewDeclaration(
		variable.Variable{Name: "lai", Default: -999.99},
	)
}

func (m *Model) Outputs() *variable.Declaration {
	return variable.NewDeclaration(
		variable.Variable{Name: "appfd", Default: -999.99},
	)
}

func (m *Model) Compute(ctx context.Context, sc *model.Scope) error {
	ppfd := 0.0
	if sc.Met != nil {
		ppfd = sc.Met.PPFD
	}
	lai := sc.Status.Float("lai")
	sc.Status.SetFloat("appfd", ppfd*(1-math.Exp(-m.Extinction*lai)))
	return nil
}

// Register registers the model factory with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register("beer", func() model.Model { return New() })
}
