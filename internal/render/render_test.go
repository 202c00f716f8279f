package render

import (
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfansharif/wyckoff/internal/geom"
	"github.com/irfansharif/wyckoff/internal/packing"
	"github.com/irfansharif/wyckoff/internal/palette"
	"github.com/irfansharif/wyckoff/internal/shape"
	"github.com/irfansharif/wyckoff/internal/wallpaper"
)

func squareState(t *testing.T, groupName string) *packing.State {
	t.Helper()
	s, err := shape.FromRadial("Square", []float64{1, 1, 1, 1}, 4)
	require.NoError(t, err)
	group, err := wallpaper.Get(groupName)
	require.NoError(t, err)
	state, err := packing.FromGroup(s, group)
	require.NoError(t, err)
	return state
}

func TestModelBoundsCoverCellImages(t *testing.T) {
	state := squareState(t, "p1")

	bounds := modelBounds(state)
	// The p1 cell for a unit radial square starts out 4x4, so the first
	// ring of images spans 12 units, padded by the enclosing radius.
	assert.InDelta(t, -7, bounds.X, 1e-9)
	assert.InDelta(t, -7, bounds.Y, 1e-9)
	assert.InDelta(t, 14, bounds.W, 1e-9)
	assert.InDelta(t, 14, bounds.H, 1e-9)
}

func TestTessellatePolygon(t *testing.T) {
	s, err := shape.FromRadial("Square", []float64{1, 1, 1, 1}, 4)
	require.NoError(t, err)

	triangles := tessellateShape(s)
	require.Len(t, triangles, 2) // a quad ear-clips into two triangles

	// The fan covers the polygon's area.
	var area float64
	for _, tri := range triangles {
		area += triangleArea(tri)
	}
	assert.InDelta(t, s.Area(), area, 1e-9)
}

func TestTessellateMolecule(t *testing.T) {
	s := shape.FromTrimer(0.7, 2*math.Pi/3, 1)

	triangles := tessellateShape(s)
	assert.Len(t, triangles, 3*diskSegments)
}

func TestTessellateSceneVertexLayout(t *testing.T) {
	state := squareState(t, "p2")
	pal := palette.ForCopies(state.TotalShapes(), rand.New(rand.NewSource(1)))

	modelToWorld, err := modelToWorldTransform(state, 800, 600)
	require.NoError(t, err)
	vertices := tessellateScene(state, pal, modelToWorld)

	require.NotEmpty(t, vertices)
	assert.Zero(t, len(vertices)%floatsPerVertex)
	assert.Zero(t, (len(vertices)/floatsPerVertex)%3) // whole triangles

	// Everything lands inside the 800x600 viewport.
	for i := 0; i < len(vertices); i += floatsPerVertex {
		assert.GreaterOrEqual(t, vertices[i], float32(0))
		assert.LessOrEqual(t, vertices[i], float32(800))
		assert.GreaterOrEqual(t, vertices[i+1], float32(0))
		assert.LessOrEqual(t, vertices[i+1], float32(600))
	}
}

func TestAppendSegmentThickness(t *testing.T) {
	var vertices []float32
	appendSegment(&vertices, geom.MakePoint(0, 0), geom.MakePoint(10, 0), color.RGBA{A: 255})

	require.Len(t, vertices, 6*floatsPerVertex)

	// A horizontal segment expands vertically by the outline half-width.
	minY, maxY := float32(math.Inf(1)), float32(math.Inf(-1))
	for i := 0; i < len(vertices); i += floatsPerVertex {
		y := vertices[i+1]
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	assert.InDelta(t, -outlineHalfWidth, float64(minY), 1e-6)
	assert.InDelta(t, outlineHalfWidth, float64(maxY), 1e-6)
}

func TestAppendSegmentSkipsZeroLength(t *testing.T) {
	var vertices []float32
	appendSegment(&vertices, geom.MakePoint(1, 1), geom.MakePoint(1, 1), color.RGBA{A: 255})
	assert.Empty(t, vertices)
}

func TestAffineToMatrix4(t *testing.T) {
	m := affineToMatrix4(geom.MakeTransform(2, 0, 5, 0, 3, 7))

	// Column-major: scale on the diagonal, translation in the last
	// column.
	assert.Equal(t, float32(2), m[0])
	assert.Equal(t, float32(3), m[5])
	assert.Equal(t, float32(5), m[12])
	assert.Equal(t, float32(7), m[13])
	assert.Equal(t, float32(1), m[15])
}

func triangleArea(tri [3]geom.Point) float64 {
	return math.Abs((tri[1].X-tri[0].X)*(tri[2].Y-tri[0].Y)-(tri[2].X-tri[0].X)*(tri[1].Y-tri[0].Y)) / 2
}
