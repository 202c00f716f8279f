package shape

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfansharif/wyckoff/internal/geom"
)

func square(t *testing.T) *Shape {
	t.Helper()
	s, err := FromRadial("Square", []float64{1, 1, 1, 1}, 4)
	require.NoError(t, err)
	return s
}

func TestFromRadialTooFewPoints(t *testing.T) {
	_, err := FromRadial("Degenerate", []float64{1, 1}, 1)
	assert.Error(t, err)
}

func TestSquareArea(t *testing.T) {
	assert.InDelta(t, 2., square(t).Area(), 1e-10)
}

func TestEnclosingRadius(t *testing.T) {
	s, err := FromRadial("Irregular", []float64{1, 2, 3, 4}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 4., s.EnclosingRadius(), 1e-10)
}

func TestSquareIntersection(t *testing.T) {
	s := square(t)
	cases := []struct {
		name       string
		dx, dy     float64
		intersects bool
	}{
		{"overlapping", 1, 1, true},
		{"identical", 0, 0, true},
		{"touching corners", 2, 2, false},
		{"separated", 2.01, 2.01, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			moved := s.Transform(geom.MakeIsometry(0, tc.dx, tc.dy))
			assert.Equal(t, tc.intersects, s.Intersects(moved))
			assert.Equal(t, tc.intersects, moved.Intersects(s))
		})
	}
}

func TestLineIntersects(t *testing.T) {
	l1 := MakeLine(-1, 0, 0, -1)
	l2 := MakeLine(-1, -1, 0, 0)
	l3 := MakeLine(-2, -1, 1, 0)

	for _, pair := range [][2]Line{{l1, l2}, {l2, l3}, {l1, l3}} {
		assert.True(t, pair[0].Intersects(pair[1]))
		assert.True(t, pair[1].Intersects(pair[0]))
	}
}

func TestLinesFromCommonPoint(t *testing.T) {
	// Segments radiating from a shared endpoint at the origin must not
	// count as intersecting each other.
	values := []float64{-1, 0, 1}
	for _, a := range values {
		for _, b := range values {
			l1 := MakeLine(a, a, 0, 0)
			l2 := MakeLine(b, b, 0, 0)
			assert.False(t, l1.Intersects(l2), "start1=%v start2=%v", a, b)
		}
	}
}

func TestParallelLinesNeverIntersect(t *testing.T) {
	l1 := MakeLine(0, 0, 1, 1)
	l2 := MakeLine(0.5, 0.5, 2, 2)
	assert.False(t, l1.Intersects(l2))
	assert.False(t, l2.Intersects(l1))
}

func TestDiskIntersection(t *testing.T) {
	a0 := MakeDisk(0, 0, 1)
	a1 := MakeDisk(1, 0, 1)
	a2 := MakeDisk(0.5, 0.5, 1)
	a3 := MakeDisk(1.5, 1.5, 1)

	assert.True(t, a0.Intersects(a1))
	assert.True(t, a1.Intersects(a2))
	assert.True(t, a3.Intersects(a2))
	assert.False(t, a0.Intersects(a3))
}

func TestDiskTangencyDoesNotIntersect(t *testing.T) {
	a := MakeDisk(0, 0, 1)
	b := MakeDisk(2, 0, 1)
	assert.False(t, a.Intersects(b))
	assert.False(t, b.Intersects(a))
}

func TestCircleIntersection(t *testing.T) {
	c := Circle()
	cases := []struct {
		name       string
		dx, dy     float64
		intersects bool
	}{
		{"overlapping", 1, 1, true},
		{"identical", 0, 0, true},
		{"tangent", 2, 0, false},
		{"separated", 2.01, 0, false},
		{"diagonal", 2, 2, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			moved := c.Transform(geom.MakeIsometry(0, tc.dx, tc.dy))
			assert.Equal(t, tc.intersects, c.Intersects(moved))
		})
	}
}

func TestTrimerPositions(t *testing.T) {
	s := FromTrimer(1, math.Pi, 1)
	require.Len(t, s.Disks, 3)
	assert.InDelta(t, 0., s.Disks[0].Position.X, 1e-10)
	assert.InDelta(t, 0., s.Disks[0].Position.Y, 1e-10)
	assert.InDelta(t, -1., s.Disks[1].Position.X, 1e-10)
	assert.InDelta(t, 1., s.Disks[2].Position.X, 1e-10)

	s = FromTrimer(0.637556, 2*math.Pi/3, 1)
	assert.InDelta(t, -1./3., s.Disks[0].Position.Y, 1e-10)
	assert.InDelta(t, -0.866, s.Disks[1].Position.X, 1e-3)
	assert.InDelta(t, 1./6., s.Disks[1].Position.Y, 1e-3)
	assert.InDelta(t, 0.866, s.Disks[2].Position.X, 1e-3)
}

func TestTrimerArea(t *testing.T) {
	// At distance 2 the three unit disks are tangent, no overlap to
	// subtract.
	s := FromTrimer(1, math.Pi, 2)
	assert.InDelta(t, 3*math.Pi, s.Area(), 1e-10)

	s = FromTrimer(0.637556, 2*math.Pi/3, 1)
	assert.Greater(t, s.Area(), 0.)
}

func TestCircleOverlapAgainstKnownForm(t *testing.T) {
	a := MakeDisk(0, 0, 1)
	assert.InDelta(t, 0., circleOverlap(a, MakeDisk(2, 0, 1)), 1e-10)

	// For equal radii the lens area is twice the segment area at half
	// the separation, per the closed form on MathWorld's
	// Circle-Circle Intersection page.
	for i := 1; i <= 10; i++ {
		d := float64(i) / 10 * 2
		b := MakeDisk(d, 0, 1)
		assert.InDelta(t, 2*segmentArea(1, d/2), circleOverlap(a, b), 1e-7)
	}
}

func TestLJEnergyZeroAtSigma(t *testing.T) {
	// The potential crosses zero at r = σ.
	assert.InDelta(t, 0., ljEnergy(1, 1, 0, 1), 1e-10)
}

func TestLJEnergyMinimum(t *testing.T) {
	// The well bottom sits at r = 2^(1/6)·σ with depth −ε.
	rSq := math.Pow(2, 1./3.)
	assert.InDelta(t, -1., ljEnergy(1, 1, 0, rSq), 1e-10)
	assert.InDelta(t, -2.5, ljEnergy(1, 2.5, 0, rSq), 1e-10)
}

func TestLJEnergyCutoff(t *testing.T) {
	// Beyond the cutoff the energy vanishes; inside, the shift keeps it
	// continuous at the cutoff.
	assert.Equal(t, 0., ljEnergy(1, 1, 3.5, 3.5*3.5))
	assert.Equal(t, 0., ljEnergy(1, 1, 3.5, 4*4))
	assert.InDelta(t, 0., ljEnergy(1, 1, 3.5, 3.4999*3.4999), 1e-4)
}

func TestLJShapeEnergy(t *testing.T) {
	a := LJTrimer(0.637556, 2*math.Pi/3, 1, 0)
	b := a.Transform(geom.MakeIsometry(0, 10, 0))
	// Far apart the interaction is tiny and attractive.
	e := a.Energy(b)
	assert.Less(t, e, 0.)
	assert.Greater(t, e, -1e-3)
}

func TestLJCircleEnergy(t *testing.T) {
	a := LJCircle(0)
	// The pair potential bottoms out at r² = 2^(1/3)·σ².
	separation := math.Sqrt(math.Cbrt(2))
	b := a.Transform(geom.MakeIsometry(0, separation, 0))
	assert.InDelta(t, -1, a.Energy(b), 1e-9)

	// A cutoff inside the separation zeroes the interaction.
	c := LJCircle(1)
	d := c.Transform(geom.MakeIsometry(0, separation, 0))
	assert.Zero(t, c.Energy(d))
}

func TestTransformPreservesComponents(t *testing.T) {
	s := square(t)
	moved := s.Transform(geom.MakeIsometry(math.Pi/3, 5, -2))
	require.Len(t, moved.Lines, len(s.Lines))
	assert.Equal(t, s.Name, moved.Name)
	assert.Equal(t, s.RotationalSymmetry, moved.RotationalSymmetry)
}
