package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointIndex_Nearest(t *testing.T) {
	idx := NewPointIndex()
	idx.Insert(45.5070, 6.6770, 1970)
	idx.Insert(45.5110, 6.6740, 2100)
	idx.Insert(45.4630, 6.7270, 1250)
	require.Equal(t, 3, idx.Size())

	// A point a few meters from Plagne Centre resolves to its sample.
	v, ok := idx.Nearest(45.5071, 6.6771, 1000)
	require.True(t, ok)
	assert.Equal(t, 1970.0, v)

	// The closest of several candidates wins.
	v, ok = idx.Nearest(45.5105, 6.6745, 1000)
	require.True(t, ok)
	assert.Equal(t, 2100.0, v)
}

func TestPointIndex_NearestTooFar(t *testing.T) {
	idx := NewPointIndex()
	idx.Insert(45.5070, 6.6770, 1970)

	// Champagny is several km from the only sample.
	_, ok := idx.Nearest(45.4630, 6.7270, 1000)
	assert.False(t, ok)
}

func TestPointIndex_Empty(t *testing.T) {
	idx := NewPointIndex()
	_, ok := idx.Nearest(45.5070, 6.6770, 1000)
	assert.False(t, ok)
	assert.Zero(t, idx.Size())
}
