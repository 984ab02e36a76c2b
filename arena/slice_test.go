package arena

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSliceGrowReturnsRegionStart(t *testing.T) {
	a := NewSlice(4096)
	require.Equal(t, 0, a.Size())

	start, err := a.Grow(40)
	require.NoError(t, err)
	require.Equal(t, 0, start)
	require.Equal(t, 40, a.Size())

	start, err = a.Grow(4096)
	require.NoError(t, err)
	require.Equal(t, 40, start)
	require.Equal(t, 40+4096, a.Size())
	require.Len(t, a.Bytes(), a.Size())
}

func TestSliceGrowZeroFills(t *testing.T) {
	a := NewSlice(0)
	_, err := a.Grow(64)
	require.NoError(t, err)
	for i, b := range a.Bytes() {
		require.Zero(t, b, "byte %d not zeroed", i)
	}
}

func TestSliceLimitExhaustion(t *testing.T) {
	a := NewSliceWithLimit(4096, 8192)

	_, err := a.Grow(8192)
	require.NoError(t, err)

	_, err = a.Grow(1)
	require.ErrorIs(t, err, ErrExhausted)

	// A failed grow leaves the arena untouched.
	require.Equal(t, 8192, a.Size())
}

func TestSliceDefaultPageSize(t *testing.T) {
	a := NewSlice(0)
	require.Equal(t, DefaultPageSize, a.PageSize())
}

func TestSliceGrowNonPositive(t *testing.T) {
	a := NewSlice(4096)
	start, err := a.Grow(0)
	require.NoError(t, err)
	require.Equal(t, 0, start)
	require.Equal(t, 0, a.Size())
}
