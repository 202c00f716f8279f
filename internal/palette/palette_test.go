package palette

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForCopiesIsDeterministic(t *testing.T) {
	a := ForCopies(6, rand.New(rand.NewSource(42)))
	b := ForCopies(6, rand.New(rand.NewSource(42)))
	assert.Equal(t, a, b)

	c := ForCopies(6, rand.New(rand.NewSource(43)))
	assert.NotEqual(t, a, c)
}

func TestForCopiesDistinctHues(t *testing.T) {
	p := ForCopies(4, rand.New(rand.NewSource(1)))
	require.Len(t, p, 4)

	seen := map[[3]uint8]bool{}
	for _, c := range p {
		seen[[3]uint8{c.R, c.G, c.B}] = true
	}
	assert.Len(t, seen, 4)
}

func TestAtCycles(t *testing.T) {
	p := ForCopies(3, rand.New(rand.NewSource(7)))
	assert.Equal(t, p[0], p.At(3))
	assert.Equal(t, p[2], p.At(5))
}

func TestDimmedHalvesAlpha(t *testing.T) {
	p := ForCopies(1, rand.New(rand.NewSource(9)))
	dimmed := Dimmed(p[0])
	assert.Equal(t, p[0].A/2, dimmed.A)
	assert.NotEqual(t, p[0], dimmed)
}