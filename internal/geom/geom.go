// Package geom provides 2D geometric primitives and rigid transformations:
// - 2D transforms (rotation, reflection, translation) in matrix form
// - Transform composition, inversion and periodic wrapping
// - Parsing of crystallographic symmetry-operation strings ("-x, y+1/2")
// - Point arithmetic and bounding-box operations
package geom

import (
	"fmt"
	"math"
	"strings"
)

// Point represents a 2D point or vector in Cartesian coordinates.
type Point struct {
	X float64
	Y float64
}

// Box represents an axis-aligned rectangle.
type Box struct {
	X float64
	Y float64
	W float64
	H float64
}

// Transform represents a 2D affine transform in row-major form:
// [ a b c ]
// [ d e f ]
// where (x', y') = (a*x + b*y + c, d*x + e*y + f)
//
// The linear part (a, b, d, e) carries rotations and mirrors; (c, f) is the
// translation. Symmetry operations of the wallpaper groups include mirrors,
// so the linear part is a full matrix rather than a rotation angle.
type Transform struct {
	A float64
	B float64
	C float64
	D float64
	E float64
	F float64
}

func MakePoint(x, y float64) Point   { return Point{X: x, Y: y} }
func MakeBox(x, y, w, h float64) Box { return Box{X: x, Y: y, W: w, H: h} }
func MakeTransform(a, b, c, d, e, f float64) Transform {
	return Transform{A: a, B: b, C: c, D: d, E: e, F: f}
}

// MakeIsometry builds the rigid motion that rotates by the given angle
// (radians, counterclockwise) and then translates by (tx, ty).
func MakeIsometry(rotation, tx, ty float64) Transform {
	sin, cos := math.Sincos(rotation)
	return Transform{A: cos, B: -sin, C: tx, D: sin, E: cos, F: ty}
}

// Identity returns the neutral transform.
func Identity() Transform {
	return Transform{A: 1, E: 1}
}

func (p Point) Add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

func Dot(p, q Point) float64 { return p.X*q.X + p.Y*q.Y }

func Dist(p, q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func DistSq(p, q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// MulPoint applies the transform to a point.
func (t Transform) MulPoint(p Point) Point {
	return Point{
		X: t.A*p.X + t.B*p.Y + t.C,
		Y: t.D*p.X + t.E*p.Y + t.F,
	}
}

// Mul composes two transforms (applies u then t).
func (t Transform) Mul(u Transform) Transform {
	return MakeTransform(
		t.A*u.A+t.B*u.D,
		t.A*u.B+t.B*u.E,
		t.A*u.C+t.B*u.F+t.C,
		t.D*u.A+t.E*u.D,
		t.D*u.B+t.E*u.E,
		t.D*u.C+t.E*u.F+t.F,
	)
}

// Position returns the translation component of the transform, which is where
// the transform maps the origin.
func (t Transform) Position() Point {
	return Point{X: t.C, Y: t.F}
}

// SetPosition returns a copy of the transform with the translation component
// replaced, leaving the linear part untouched.
func (t Transform) SetPosition(p Point) Transform {
	t.C = p.X
	t.F = p.Y
	return t
}

// Periodic wraps the translation component into [offset, offset+period) per
// component. The floored modulo keeps the result non-negative relative to the
// offset regardless of the sign of the input.
func (t Transform) Periodic(period, offset float64) Transform {
	wrap := func(v float64) float64 {
		return math.Mod(math.Mod(v-offset, period)+period, period) + offset
	}
	return t.SetPosition(Point{X: wrap(t.C), Y: wrap(t.F)})
}

// Inv returns the inverse of the transform.
// Returns an error if the transform is not invertible (determinant is zero).
func (t Transform) Inv() (Transform, error) {
	det := t.A*t.E - t.B*t.D
	if math.Abs(det) < 1e-10 {
		return Transform{}, fmt.Errorf("transform is not invertible (determinant ≈ 0)")
	}
	return MakeTransform(
		t.E/det, -t.B/det, (t.B*t.F-t.C*t.E)/det,
		-t.D/det, t.A/det, (t.C*t.D-t.A*t.F)/det,
	), nil
}

// FillBox returns a transform that maps box b1 into b2, preserving aspect
// ratio and centering the result.
func FillBox(b1, b2 Box) (Transform, error) {
	if b1.W <= 0 || b1.H <= 0 {
		return Transform{}, fmt.Errorf("source box must have positive width and height, got W=%v H=%v", b1.W, b1.H)
	}
	if b2.W <= 0 || b2.H <= 0 {
		return Transform{}, fmt.Errorf("destination box must have positive width and height, got W=%v H=%v", b2.W, b2.H)
	}

	sc := math.Min(b2.W/b1.W, b2.H/b1.H)
	centerDst := MakeTransform(1, 0, b2.X+0.5*b2.W, 0, 1, b2.Y+0.5*b2.H)
	centerSrc := MakeTransform(1, 0, -(b1.X + 0.5*b1.W), 0, 1, -(b1.Y + 0.5*b1.H))
	return centerDst.Mul(MakeTransform(sc, 0, 0, 0, sc, 0)).Mul(centerSrc), nil
}

// FromOperations parses the string representation of a crystallographic
// symmetry operation, e.g. "-x, y+1/2", into a Transform. The two
// comma-separated operands describe the images of x and y; fractions such as
// 1/2 become the translation component.
//
// Construction fails when the operand count is not exactly 2 or a symbol
// outside {x, y, digits, +, -, *, /, space, parentheses} appears.
func FromOperations(ops string) (Transform, error) {
	trimmed := strings.TrimFunc(ops, func(r rune) bool {
		return r == '(' || r == ')' || r == ' '
	})
	operands := strings.Split(trimmed, ",")
	if len(operands) != 2 {
		return Transform{}, fmt.Errorf("expected 2 dimensions in operation %q, got %d", ops, len(operands))
	}

	var rows [2][3]float64
	for index, op := range operands {
		sign := 1.
		constant := 0.
		var operator rune
		for _, c := range op {
			switch {
			case c == 'x':
				rows[index][0] = sign
				sign = 1.
			case c == 'y':
				rows[index][1] = sign
				sign = 1.
			case c == '*' || c == '/':
				operator = c
			case c == '-':
				sign = -1.
			case '0' <= c && c <= '9':
				val := float64(c - '0')
				switch operator {
				case '/':
					constant = sign * constant / val
				case '*':
					constant = sign * constant * val
				default:
					constant = sign * val
				}
				operator = 0
				sign = 1.
			case c == ' ' || c == '+' || c == '(' || c == ')':
				// Separators carry no information of their own.
			default:
				return Transform{}, fmt.Errorf("invalid symbol %q in operation %q", c, ops)
			}
		}
		rows[index][2] = constant
	}

	return MakeTransform(
		rows[0][0], rows[0][1], rows[0][2],
		rows[1][0], rows[1][1], rows[1][2],
	), nil
}
