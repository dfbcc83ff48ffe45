package integration_tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/plantsimgo/internal/model"
	"github.com/vk/plantsimgo/internal/sim"
	"github.com/vk/plantsimgo/internal/status"
	"github.com/vk/plantsimgo/internal/weather"
	"github.com/vk/plantsimgo/models/beer"
	"github.com/vk/plantsimgo/models/degreedays"
	"github.com/vk/plantsimgo/models/lai"
	"github.com/vk/plantsimgo/models/rue"
)

func cropMapping() model.Mapping {
	return model.Mapping{
		"thermal_time":       degreedays.New(),
		"leaf_area":          lai.New(),
		"light_interception": beer.New(),
		"growth":             rue.New(),
	}
}

func runSeason(t *testing.T, steps int) *sim.Collection {
	t.Helper()
	ctx := context.Background()

	col, err := sim.New(ctx, cropMapping(), map[string]any{"tt_cu": 0.0, "biomass": 0.0})
	require.NoError(t, err)
	require.NoError(t, col.PreallocateSteps(steps))

	seq := weather.Constant(weather.Record{TMin: 14, TMax: 26, PPFD: 35}, steps)
	require.NoError(t, sim.NewRunner().Run(ctx, col, seq))
	return col
}

func TestSeason_ThermalTimeAccumulatesLinearly(t *testing.T) {
	col := runSeason(t, 30)

	// TMean 20 against a base of 10 yields 10 degree days per step.
	last := col.Store().Row(29)
	assert.InDelta(t, 300.0, last.Float("tt_cu"), 1e-9)
	assert.InDelta(t, 10.0, last.Float("tt"), 1e-9)
}

func TestSeason_StateGrowsMonotonically(t *testing.T) {
	col := runSeason(t, 30)
	table, ok := col.Store().(*status.TimeStepTable)
	require.True(t, ok)

	for step := 1; step < 30; step++ {
		prev, cur := table.Row(step-1), table.Row(step)
		assert.Greater(t, cur.Float("biomass"), prev.Float("biomass"), "step %d", step)
		assert.Greater(t, cur.Float("lai"), prev.Float("lai"), "step %d", step)
	}
	assert.Positive(t, table.Row(29).Float("biomass"))
}

func TestSeason_CouplingFlowsThroughTheChain(t *testing.T) {
	col := runSeason(t, 30)
	row := col.Store().Row(29)

	// Each link of the chain left a plausible value: some canopy grew,
	// it intercepted part of the incident light, and the intercepted
	// light became biomass.
	laiVal := row.Float("lai")
	appfd := row.Float("appfd")
	assert.Greater(t, laiVal, 0.0)
	assert.Less(t, laiVal, 8.0)
	assert.Greater(t, appfd, 0.0)
	assert.Less(t, appfd, 35.0)
	assert.InDelta(t, 0.2*appfd, row.Float("biomass_increment"), 1e-9)
}

func TestSeason_CopyRunsAreIndependent(t *testing.T) {
	ctx := context.Background()
	col, err := sim.New(ctx, cropMapping(), nil)
	require.NoError(t, err)
	require.NoError(t, col.PreallocateSteps(10))
	seq := weather.Constant(weather.Record{TMin: 14, TMax: 26, PPFD: 35}, 10)

	out, err := sim.NewRunner().RunCopy(ctx, col, seq)
	require.NoError(t, err)

	assert.Positive(t, out.Store().Row(9).Float("biomass"))
	assert.Zero(t, col.Store().Row(9).Float("biomass"), "the original store stays untouched")
}

func TestSeason_PerObjectIndependence(t *testing.T) {
	ctx := context.Background()
	template, err := sim.New(ctx, cropMapping(), nil)
	require.NoError(t, err)

	warm := template.Copy()
	cool := template.Copy()
	require.NoError(t, warm.PreallocateSteps(10))
	require.NoError(t, cool.PreallocateSteps(10))

	runner := sim.NewRunner()
	require.NoError(t, runner.Run(ctx, warm, weather.Constant(weather.Record{TMin: 20, TMax: 30, PPFD: 35}, 10)))
	require.NoError(t, runner.Run(ctx, cool, weather.Constant(weather.Record{TMin: 8, TMax: 16, PPFD: 35}, 10)))

	assert.Greater(t,
		warm.Store().Row(9).Float("tt_cu"),
		cool.Store().Row(9).Float("tt_cu"))
}
