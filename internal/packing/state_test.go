package packing

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfansharif/wyckoff/internal/shape"
	"github.com/irfansharif/wyckoff/internal/wallpaper"
)

func squareState(t *testing.T, group string) *State {
	t.Helper()
	square, err := shape.FromRadial("Square", []float64{1, 1, 1, 1}, 4)
	require.NoError(t, err)
	g, err := wallpaper.Get(group)
	require.NoError(t, err)
	state, err := FromGroup(square, g)
	require.NoError(t, err)
	return state
}

func TestTotalShapes(t *testing.T) {
	assert.Equal(t, 1, squareState(t, "p1").TotalShapes())
	assert.Equal(t, 4, squareState(t, "p2mg").TotalShapes())
	assert.Equal(t, 6, squareState(t, "p6").TotalShapes())
}

func TestInitialPackingFractionP1(t *testing.T) {
	score, err := squareState(t, "p1").Score()
	require.NoError(t, err)
	assert.InDelta(t, 1./8., score, 1e-10)
}

func TestInitialPackingFractionP2mg(t *testing.T) {
	score, err := squareState(t, "p2mg").Score()
	require.NoError(t, err)
	assert.InDelta(t, 1./32., score, 1e-10)
}

func TestIntersectingStateHasNoScore(t *testing.T) {
	state := squareState(t, "p2")
	// Shrink the cell until the two copies must overlap.
	basis := state.GenerateBasis()
	basis[0].Set(1)
	basis[1].Set(1)

	_, err := state.Score()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIntersection)
}

func TestGenerateBasisOrder(t *testing.T) {
	state := squareState(t, "p2mg")
	basis := state.GenerateBasis()
	// Orthorhombic cell: two lengths. General site: x, y, angle.
	require.Len(t, basis, 5)

	// The first entries alias the cell.
	basis[0].Set(10)
	assert.Equal(t, 10., state.Cell().SideA())
}

func TestBasisMutationChangesScore(t *testing.T) {
	state := squareState(t, "p1")
	before, err := state.Score()
	require.NoError(t, err)

	basis := state.GenerateBasis()
	basis[0].Set(3)
	after, err := state.Score()
	require.NoError(t, err)
	assert.Greater(t, after, before)

	basis[0].Reset()
	restored, err := state.Score()
	require.NoError(t, err)
	assert.InDelta(t, before, restored, 1e-10)
}

func TestCloneIsIndependent(t *testing.T) {
	state := squareState(t, "p1")
	clone := state.Clone()

	state.GenerateBasis()[0].Set(1)
	cloneScore, err := clone.Score()
	require.NoError(t, err)
	assert.InDelta(t, 1./8., cloneScore, 1e-10)
}

func TestSoftScoreAlwaysValid(t *testing.T) {
	trimer := shape.LJTrimer(0.637556, 2*math.Pi/3, 1, 0)
	g, err := wallpaper.Get("p2")
	require.NoError(t, err)
	state, err := FromGroup(trimer, g)
	require.NoError(t, err)

	score, err := state.Score()
	require.NoError(t, err)
	// The dilute initial state has low interaction energy.
	assert.InDelta(t, 0, score, 0.5)

	// Even an absurdly compressed soft state scores, it is just bad.
	state.GenerateBasis()[0].Set(0.01)
	_, err = state.Score()
	assert.NoError(t, err)
}

func TestSoftScorePairEnumeration(t *testing.T) {
	trimer := shape.LJTrimer(0.7, 2*math.Pi/3, 1, 0)
	g, err := wallpaper.Get("p2")
	require.NoError(t, err)
	state, err := FromGroup(trimer, g)
	require.NoError(t, err)

	// Compress both sides so the copies and their images interact.
	basis := state.GenerateBasis()
	basis[0].Set(4)
	basis[1].Set(4)

	score, err := state.Score()
	require.NoError(t, err)

	// Re-derive the sum pair by pair: each unordered pair of copies
	// once, with the zero image only for distinct copies. An ordered
	// cross-copy walk would count every inter-copy image term twice.
	positions := state.RelativePositions()
	sum := 0.
	for i := range positions {
		s1 := state.Shape().Transform(state.Cell().ToCartesianIsometry(positions[i]))
		for j := i; j < len(positions); j++ {
			for _, imaged := range state.Cell().PeriodicImages(positions[j], i != j) {
				sum += s1.Energy(state.Shape().Transform(imaged))
			}
		}
	}
	expected := -sum / 15 / float64(state.TotalShapes())

	require.NotZero(t, expected)
	assert.InDelta(t, expected, score, 1e-12)
}

func TestSnapshotRoundTrip(t *testing.T) {
	state := squareState(t, "p2mg")
	state.GenerateBasis()[2].Set(0.1)

	var buf bytes.Buffer
	require.NoError(t, state.WriteJSON(&buf))

	snap, err := ReadSnapshot(&buf)
	require.NoError(t, err)
	assert.Equal(t, "p2mg", snap.Group)
	assert.True(t, snap.Valid)

	restored := squareState(t, "p2mg")
	require.NoError(t, restored.Restore(snap))
	original, err := state.Score()
	require.NoError(t, err)
	restoredScore, err := restored.Score()
	require.NoError(t, err)
	assert.InDelta(t, original, restoredScore, 1e-10)
}

func TestRestoreRejectsMismatchedGroup(t *testing.T) {
	snap := squareState(t, "p1").Snapshot()
	err := squareState(t, "p2").Restore(snap)
	assert.Error(t, err)
}
