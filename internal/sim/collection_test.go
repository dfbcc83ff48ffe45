package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/plantsimgo/internal/deps"
	"github.com/vk/plantsimgo/internal/model"
	"github.com/vk/plantsimgo/internal/status"
)

func TestNew_BuildsStoreFromDeclarations(t *testing.T) {
	// Arrange: a two-process chain, no user values.
	mapping := model.Mapping{
		"supply": &producer{out: "raw", value: 3.0},
		"double": &doubler{in: "raw", out: "doubled"},
	}

	// Act
	col, err := New(context.Background(), mapping, nil)

	// Assert: the store holds the union of all declared variables at
	// their declared defaults.
	require.NoError(t, err)
	assert.Equal(t, 1, col.Steps())
	assert.ElementsMatch(t, []string{"raw", "doubled"}, col.Store().Names())
	assert.Equal(t, -999.99, col.Store().Row(0).Float("raw"))
}

func TestNew_UserValuesWinOverDefaults(t *testing.T) {
	mapping := model.Mapping{
		"double": &doubler{in: "raw", out: "doubled"},
	}

	col, err := New(context.Background(), mapping, map[string]any{"raw": 5.0})

	require.NoError(t, err)
	assert.Equal(t, 5.0, col.Store().Row(0).Float("raw"))
	assert.Equal(t, -999.99, col.Store().Row(0).Float("doubled"))
}

func TestNew_ConvertsInitValuesToDeclaredKind(t *testing.T) {
	mapping := model.Mapping{
		"double": &doubler{in: "raw", out: "doubled"},
	}

	// An int init value for a float64-declared variable widens.
	col, err := New(context.Background(), mapping, map[string]any{"raw": 5})

	require.NoError(t, err)
	v, getErr := col.Store().Row(0).Get("raw")
	require.NoError(t, getErr)
	assert.Equal(t, 5.0, v)
}

func TestNew_RejectsUndeclaredInitName(t *testing.T) {
	mapping := model.Mapping{
		"double": &doubler{in: "raw", out: "doubled"},
	}

	_, err := New(context.Background(), mapping, map[string]any{"bogus": 1.0})

	var unknownErr *status.UnknownVariableError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "bogus", unknownErr.Name)
}

func TestNew_PropagatesGraphErrors(t *testing.T) {
	mapping := model.Mapping{
		"a": &doubler{in: "x", out: "y"},
		"b": &doubler{in: "y", out: "x"},
	}

	_, err := New(context.Background(), mapping, nil)

	var cycleErr *deps.CyclicDependencyError
	assert.ErrorAs(t, err, &cycleErr)
}

func TestNewSeries(t *testing.T) {
	mapping := model.Mapping{
		"double": &doubler{in: "raw", out: "doubled"},
	}

	t.Run("builds one row per init mapping", func(t *testing.T) {
		col, err := NewSeries(context.Background(), mapping, []map[string]any{
			{"raw": 1.0},
			{"raw": 2.0},
			{"raw": 3.0},
		})
		require.NoError(t, err)
		assert.Equal(t, 3, col.Steps())
		assert.Equal(t, 2.0, col.Store().Row(1).Float("raw"))
		// Unsupplied variables hold their declared default at every step.
		assert.Equal(t, -999.99, col.Store().Row(2).Float("doubled"))
	})

	t.Run("rejects an empty init list", func(t *testing.T) {
		_, err := NewSeries(context.Background(), mapping, nil)
		assert.Error(t, err)
	})

	t.Run("names the failing step", func(t *testing.T) {
		_, err := NewSeries(context.Background(), mapping, []map[string]any{
			{"raw": 1.0},
			{"bogus": 2.0},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "step 1")
	})
}

func TestWithCache_SharesResolvedGraph(t *testing.T) {
	cache := deps.NewCache()
	mapping := model.Mapping{
		"supply": &producer{out: "raw", value: 1.0},
		"double": &doubler{in: "raw", out: "doubled"},
	}

	first, err := New(context.Background(), mapping, nil, WithCache(cache))
	require.NoError(t, err)
	second, err := New(context.Background(), mapping.Clone(), nil, WithCache(cache))
	require.NoError(t, err)

	assert.Same(t, first.Graph(), second.Graph())
	assert.NotSame(t, first.Store(), second.Store())
}

func TestInitStatus(t *testing.T) {
	mapping := model.Mapping{
		"double": &doubler{in: "raw", out: "doubled"},
	}

	t.Run("writes the value into every step", func(t *testing.T) {
		col, err := New(context.Background(), mapping, nil)
		require.NoError(t, err)
		require.NoError(t, col.PreallocateSteps(3))

		require.NoError(t, col.InitStatus(map[string]any{"raw": 5.0}))

		for step := 0; step < 3; step++ {
			assert.Equal(t, 5.0, col.Store().Row(step).Float("raw"), "step %d", step)
		}
		assert.True(t, col.IsInitialized(context.Background()))
	})

	t.Run("rejects undeclared names without writing anything", func(t *testing.T) {
		col, err := New(context.Background(), mapping, nil)
		require.NoError(t, err)

		err = col.InitStatus(map[string]any{"raw": 5.0, "bogus": 1.0})

		var unknownErr *status.UnknownVariableError
		require.ErrorAs(t, err, &unknownErr)
		// The valid name was not applied either.
		assert.Equal(t, -999.99, col.Store().Row(0).Float("raw"))
	})
}

func TestToInitialize_ScopedToConsumingProcess(t *testing.T) {
	mapping := model.Mapping{
		"supply": &producer{out: "raw", value: 1.0},
		"double": &doubler{in: "raw", out: "doubled"},
		"accum":  &accumulator{in: "extern", out: "total"},
	}

	col, err := New(context.Background(), mapping, nil)
	require.NoError(t, err)

	toInit := col.ToInitialize()
	require.Len(t, toInit, 1)
	require.Contains(t, toInit, "accum")
	assert.Equal(t, []string{"extern"}, toInit["accum"].Names())
}

func TestCopy_IndependentStore(t *testing.T) {
	mapping := model.Mapping{
		"double": &doubler{in: "raw", out: "doubled"},
	}
	original, err := New(context.Background(), mapping, map[string]any{"raw": 5.0})
	require.NoError(t, err)

	clone := original.Copy()

	// The copy starts from the original's current values.
	assert.Equal(t, 5.0, clone.Store().Row(0).Float("raw"))

	// Writes to the copy never reach the original.
	clone.Store().Row(0).SetFloat("raw", 9.0)
	assert.Equal(t, 5.0, original.Store().Row(0).Float("raw"))

	// Configuration is shared.
	assert.Same(t, original.Graph(), clone.Graph())
}

func TestCopy_PreservesPerStepValues(t *testing.T) {
	mapping := model.Mapping{
		"double": &doubler{in: "raw", out: "doubled"},
	}
	original, err := NewSeries(context.Background(), mapping, []map[string]any{
		{"raw": 1.0},
		{"raw": 2.0},
		{"raw": 3.0},
	})
	require.NoError(t, err)

	clone := original.Copy()

	// Each step keeps its own init value, not a broadcast of step 0.
	require.Equal(t, 3, clone.Steps())
	assert.Equal(t, 1.0, clone.Store().Row(0).Float("raw"))
	assert.Equal(t, 2.0, clone.Store().Row(1).Float("raw"))
	assert.Equal(t, 3.0, clone.Store().Row(2).Float("raw"))

	clone.Store().Row(1).SetFloat("raw", 9.0)
	assert.Equal(t, 2.0, original.Store().Row(1).Float("raw"))
}

func TestPreallocateSteps(t *testing.T) {
	mapping := model.Mapping{
		"double": &doubler{in: "raw", out: "doubled"},
	}

	t.Run("broadcasts current values across steps", func(t *testing.T) {
		col, err := New(context.Background(), mapping, map[string]any{"raw": 5.0})
		require.NoError(t, err)

		require.NoError(t, col.PreallocateSteps(4))

		assert.Equal(t, 4, col.Steps())
		assert.Equal(t, 5.0, col.Store().Row(3).Float("raw"))
	})

	t.Run("rejects an already multi-step store", func(t *testing.T) {
		col, err := NewSeries(context.Background(), mapping, []map[string]any{
			{"raw": 1.0},
			{"raw": 2.0},
		})
		require.NoError(t, err)

		assert.Error(t, col.PreallocateSteps(4))
	})
}
