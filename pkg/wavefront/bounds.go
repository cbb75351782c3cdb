package wavefront

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// BoundsSentinel is the starting magnitude of an empty bounding box. Any finite
// coordinate replaces it.
const BoundsSentinel = float32(math.MaxFloat32)

// BoundingBox returns the componentwise minimum and maximum of positions, W = 1.
// With no positions min is (+BoundsSentinel) and max is (-BoundsSentinel), an
// inverted box callers must check for.
func BoundingBox(positions []mgl32.Vec4) (min, max mgl32.Vec4) {
	min = mgl32.Vec4{BoundsSentinel, BoundsSentinel, BoundsSentinel, 1}
	max = mgl32.Vec4{-BoundsSentinel, -BoundsSentinel, -BoundsSentinel, 1}

	for _, p := range positions {
		for i := 0; i < 3; i++ {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}
	return min, max
}

// EmptyBounds reports whether a box returned by BoundingBox contains no points.
func EmptyBounds(min, max mgl32.Vec4) bool {
	return min[0] > max[0] || min[1] > max[1] || min[2] > max[2]
}
