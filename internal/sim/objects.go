package sim

import (
	"context"
	"fmt"

	"github.com/vk/plantsimgo/internal/weather"
)

// RunEach applies the same run independently to every collection of an
// ordered slice of simulated objects. No dependency between objects is
// introduced; an error aborts the loop and names the failing index.
func (r *Runner) RunEach(ctx context.Context, cols []*Collection, seq weather.Sequence) error {
	for i, col := range cols {
		if err := r.Run(ctx, col, seq); err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
	}
	return nil
}

// RunMap applies the same run independently to every collection of a keyed
// set of simulated objects. No ordering across objects is guaranteed or
// required.
func (r *Runner) RunMap(ctx context.Context, cols map[string]*Collection, seq weather.Sequence) error {
	for key, col := range cols {
		if err := r.Run(ctx, col, seq); err != nil {
			return fmt.Errorf("object %q: %w", key, err)
		}
	}
	return nil
}
