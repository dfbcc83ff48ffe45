package app

import (
	"context"
	"fmt"

	"github.com/vk/plantsimgo/internal/ctxlog"
	"github.com/vk/plantsimgo/internal/observability"
	"github.com/vk/plantsimgo/internal/scenario"
	"github.com/vk/plantsimgo/internal/sim"
	"github.com/vk/plantsimgo/internal/weather"
)

// Run executes the main application logic: load the scenario, bind the
// model collection, and walk the resolved plan over every time step.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	var collector *observability.EngineCollector
	if a.config.MonitorPort > 0 {
		var err error
		collector, err = observability.NewEngineCollector(nil)
		if err != nil {
			return fmt.Errorf("failed to register engine metrics: %w", err)
		}
		a.startMonitorServer(a.config.MonitorPort, collector)
	}

	sc, err := scenario.LoadPath(ctx, a.registry, a.config.ScenarioPath)
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	opts := []sim.Option{sim.WithConstants(sc.Constants)}
	if a.config.CheckInit {
		opts = append(opts, sim.WithInitCheck())
	}
	col, err := sim.New(ctx, sc.Mapping, sc.Init, opts...)
	if err != nil {
		return fmt.Errorf("failed to build model collection: %w", err)
	}

	steps := sc.Steps
	if steps < 1 {
		steps = 1
	}
	if steps > 1 {
		if err := col.PreallocateSteps(steps); err != nil {
			return fmt.Errorf("failed to preallocate time steps: %w", err)
		}
	}

	var seq weather.Sequence
	if sc.Weather != nil {
		seq = weather.Constant(*sc.Weather, steps)
	}

	a.logger.Info("Starting simulation.", "processes", len(sc.Mapping), "steps", steps)
	runner := sim.NewRunner(sim.WithMetrics(collector))
	if err := runner.Run(ctx, col, seq); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	a.logger.Info("Simulation finished.")

	a.printSummary(col, steps)
	a.logger.Debug("App.Run method finished.")
	return nil
}

// printSummary writes the final step's variable values to the output.
func (a *App) printSummary(col *sim.Collection, steps int) {
	row := col.Store().Row(steps - 1)
	for _, name := range row.Names() {
		value, err := row.Get(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(a.outW, "%s = %v\n", name, value)
	}
}
