package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-10

func assertTransformEq(t *testing.T, expected, actual Transform) {
	t.Helper()
	assert.InDelta(t, expected.A, actual.A, eps)
	assert.InDelta(t, expected.B, actual.B, eps)
	assert.InDelta(t, expected.C, actual.C, eps)
	assert.InDelta(t, expected.D, actual.D, eps)
	assert.InDelta(t, expected.E, actual.E, eps)
	assert.InDelta(t, expected.F, actual.F, eps)
}

func TestIsometryZeroIsIdentity(t *testing.T) {
	assertTransformEq(t, Identity(), MakeIsometry(0, 0, 0))
}

func TestIsometryApply(t *testing.T) {
	tr := MakeIsometry(math.Pi/2, 1, 1)
	p := tr.MulPoint(MakePoint(0.2, 0.2))
	assert.InDelta(t, 0.8, p.X, eps)
	assert.InDelta(t, 1.2, p.Y, eps)
}

func TestComposeAssociative(t *testing.T) {
	t1 := MakeIsometry(0.3, 1, -2)
	t2 := MakeIsometry(-1.1, 0.5, 0.25)
	t3 := MakeIsometry(2.2, -3, 4)
	assertTransformEq(t, t1.Mul(t2).Mul(t3), t1.Mul(t2.Mul(t3)))
}

func TestComposeIdentity(t *testing.T) {
	tr := MakeIsometry(0.7, 2, 3)
	assertTransformEq(t, tr, Identity().Mul(tr))
	assertTransformEq(t, tr, tr.Mul(Identity()))
}

func TestComposeRotatesTranslation(t *testing.T) {
	// Applying a pure rotation after a pure translation rotates the
	// translation vector.
	rot := MakeIsometry(math.Pi/2, 0, 0)
	trans := MakeIsometry(0, 1, 0)
	composed := rot.Mul(trans)
	assert.InDelta(t, 0, composed.Position().X, eps)
	assert.InDelta(t, 1, composed.Position().Y, eps)
}

func TestComposeAddsRotations(t *testing.T) {
	t1 := MakeIsometry(0.4, 0, 0)
	t2 := MakeIsometry(0.6, 0, 0)
	assertTransformEq(t, MakeIsometry(1.0, 0, 0), t1.Mul(t2))
}

func TestPeriodicWrap(t *testing.T) {
	cases := []struct {
		name     string
		in       Point
		expected Point
	}{
		{"inside", MakePoint(0.25, -0.25), MakePoint(0.25, -0.25)},
		{"above", MakePoint(0.75, 0.5), MakePoint(-0.25, -0.5)},
		{"negative", MakePoint(-0.75, -1.25), MakePoint(0.25, -0.25)},
		{"far", MakePoint(3.25, -3.25), MakePoint(0.25, -0.25)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := Identity().SetPosition(tc.in).Periodic(1, -0.5)
			assert.InDelta(t, tc.expected.X, wrapped.Position().X, eps)
			assert.InDelta(t, tc.expected.Y, wrapped.Position().Y, eps)
		})
	}
}

func TestPeriodicIdempotent(t *testing.T) {
	tr := MakeIsometry(0.2, 17.3, -4.6)
	once := tr.Periodic(1, -0.5)
	twice := once.Periodic(1, -0.5)
	assertTransformEq(t, once, twice)
}

func TestInverse(t *testing.T) {
	tr := MakeIsometry(0.9, -1, 2)
	inv, err := tr.Inv()
	require.NoError(t, err)
	assertTransformEq(t, Identity(), tr.Mul(inv))

	_, err = MakeTransform(0, 0, 0, 0, 0, 0).Inv()
	assert.Error(t, err)
}

func TestFromOperations(t *testing.T) {
	cases := []struct {
		ops      string
		in       Point
		expected Point
	}{
		{"(x, y)", MakePoint(0.1, 0.2), MakePoint(0.1, 0.2)},
		{"(-x, x+y)", MakePoint(0.1, 0.2), MakePoint(-0.1, 0.3)},
		{"(x+1/2, -y)", MakePoint(0.1, 0.2), MakePoint(0.6, -0.2)},
		{"(x-1/2, -y)", MakePoint(0.1, 0.2), MakePoint(-0.4, -0.2)},
		{"(-y, 0)", MakePoint(0.1, 0.2), MakePoint(-0.2, 0)},
		{"-x+1/2, y", MakePoint(0.1, 0.2), MakePoint(0.4, 0.2)},
	}
	for _, tc := range cases {
		t.Run(tc.ops, func(t *testing.T) {
			tr, err := FromOperations(tc.ops)
			require.NoError(t, err)
			got := tr.MulPoint(tc.in)
			assert.InDelta(t, tc.expected.X, got.X, eps)
			assert.InDelta(t, tc.expected.Y, got.Y, eps)
		})
	}
}

func TestFromOperationsRejects(t *testing.T) {
	for _, ops := range []string{"(z, y)", "(x, y, z)", "(x)", "x;y"} {
		t.Run(ops, func(t *testing.T) {
			_, err := FromOperations(ops)
			assert.Error(t, err)
		})
	}
}
