package variable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	testCases := []struct {
		name     string
		value    any
		expected Kind
	}{
		{name: "bool", value: true, expected: KindBool},
		{name: "int", value: 42, expected: KindInt},
		{name: "int64", value: int64(42), expected: KindInt},
		{name: "float32", value: float32(1.5), expected: KindFloat32},
		{name: "float64", value: 1.5, expected: KindFloat64},
		{name: "string", value: "x", expected: KindString},
		{name: "unsupported", value: []int{1}, expected: KindInvalid},
		{name: "nil", value: nil, expected: KindInvalid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, KindOf(tc.value))
		})
	}
}

func TestPromote(t *testing.T) {
	t.Run("numeric kinds widen to the larger one", func(t *testing.T) {
		k, ok := Promote(KindFloat32, KindFloat64)
		require.True(t, ok)
		assert.Equal(t, KindFloat64, k)

		k, ok = Promote(KindFloat64, KindInt)
		require.True(t, ok)
		assert.Equal(t, KindFloat64, k)

		k, ok = Promote(KindBool, KindInt)
		require.True(t, ok)
		assert.Equal(t, KindInt, k)
	})

	t.Run("equal kinds are a no-op", func(t *testing.T) {
		k, ok := Promote(KindString, KindString)
		assert.True(t, ok)
		assert.Equal(t, KindString, k)
	})

	t.Run("string never widens with a numeric kind", func(t *testing.T) {
		k, ok := Promote(KindString, KindFloat64)
		assert.False(t, ok)
		assert.Equal(t, KindString, k)
	})
}

func TestConvert(t *testing.T) {
	t.Run("widens int to float64", func(t *testing.T) {
		v := Convert(3, KindFloat64)
		assert.Equal(t, 3.0, v)
	})

	t.Run("widens float32 to float64", func(t *testing.T) {
		v := Convert(float32(2), KindFloat64)
		assert.Equal(t, 2.0, v)
	})

	t.Run("leaves matching kinds untouched", func(t *testing.T) {
		assert.Equal(t, "abc", Convert("abc", KindString))
		assert.Equal(t, 1.5, Convert(1.5, KindFloat64))
	})

	t.Run("returns the value unchanged when no conversion exists", func(t *testing.T) {
		assert.Equal(t, "abc", Convert("abc", KindFloat64))
	})
}

func TestTypeConflictString(t *testing.T) {
	promoted := TypeConflict{Name: "tt", Declared: KindFloat32, Seen: KindFloat64, Chosen: KindFloat64, Promoted: true}
	assert.Contains(t, promoted.String(), "promoted to float64")

	kept := TypeConflict{Name: "label", Declared: KindString, Seen: KindFloat64, Chosen: KindString, Promoted: false}
	assert.Contains(t, kept.String(), "keeping string")
}
