package wavefront

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestBoundingBox(t *testing.T) {
	positions := []mgl32.Vec4{
		{1, -2, 3, 1},
		{-4, 5, 0, 1},
		{2, 0, -6, 1},
	}

	lo, hi := BoundingBox(positions)
	assert.Equal(t, mgl32.Vec4{-4, -2, -6, 1}, lo)
	assert.Equal(t, mgl32.Vec4{2, 5, 3, 1}, hi)
	assert.False(t, EmptyBounds(lo, hi))
}

func TestBoundingBoxSinglePoint(t *testing.T) {
	lo, hi := BoundingBox([]mgl32.Vec4{{1, 2, 3, 1}})
	assert.Equal(t, lo, hi)
	assert.False(t, EmptyBounds(lo, hi))
}

func TestBoundingBoxEmpty(t *testing.T) {
	lo, hi := BoundingBox(nil)
	assert.Equal(t, mgl32.Vec4{BoundsSentinel, BoundsSentinel, BoundsSentinel, 1}, lo)
	assert.Equal(t, mgl32.Vec4{-BoundsSentinel, -BoundsSentinel, -BoundsSentinel, 1}, hi)
	assert.True(t, EmptyBounds(lo, hi))
}

func TestBoundingBoxLargeCoordinates(t *testing.T) {
	lo, hi := BoundingBox([]mgl32.Vec4{
		{40000, 50000, 60000, 1},
		{41000, 51000, 61000, 1},
	})
	assert.Equal(t, mgl32.Vec4{40000, 50000, 60000, 1}, lo)
	assert.Equal(t, mgl32.Vec4{41000, 51000, 61000, 1}, hi)

	lo, hi = BoundingBox([]mgl32.Vec4{
		{-40000, -50000, -60000, 1},
		{-41000, -51000, -61000, 1},
	})
	assert.Equal(t, mgl32.Vec4{-41000, -51000, -61000, 1}, lo)
	assert.Equal(t, mgl32.Vec4{-40000, -50000, -60000, 1}, hi)
	assert.False(t, EmptyBounds(lo, hi))
}
