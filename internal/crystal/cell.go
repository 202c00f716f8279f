// Package crystal holds the parametric unit cell, the occupied Wyckoff
// sites placed within it, and the Basis abstraction through which the
// optimiser mutates both.
package crystal

import (
	"fmt"
	"math"

	"github.com/irfansharif/wyckoff/internal/geom"
	"github.com/irfansharif/wyckoff/internal/wallpaper"
)

// Cell is the 2D unit cell: two side lengths and the angle between them,
// constrained by the crystal family. Positions inside the cell live in
// fractional coordinates spanning [-0.5, 0.5) along each cell vector.
type Cell struct {
	a, b, angle float64
	family      wallpaper.Family
}

// FromFamily initialises a cell of the given family with every free side
// at the given length. Families that fix the angle or tie the sides
// together start, and stay, on those constraints.
func FromFamily(family wallpaper.Family, length float64) *Cell {
	cell := &Cell{a: length, b: length, angle: math.Pi / 2, family: family}
	switch family {
	case wallpaper.Hexagonal:
		cell.angle = math.Pi / 3
	case wallpaper.Tetragonal, wallpaper.Orthorhombic, wallpaper.Monoclinic:
	}
	return cell
}

// SideA returns the first cell side length.
func (c *Cell) SideA() float64 { return c.a }

// SideB returns the second cell side length. Tetragonal and hexagonal
// cells tie both sides to a single length, so mutating side a moves side
// b with it.
func (c *Cell) SideB() float64 {
	if c.family == wallpaper.Tetragonal || c.family == wallpaper.Hexagonal {
		return c.a
	}
	return c.b
}

// Angle returns the angle between the cell vectors in radians.
func (c *Cell) Angle() float64 { return c.angle }

// Family returns the cell's crystal family.
func (c *Cell) Family() wallpaper.Family { return c.family }

func (c *Cell) String() string {
	return fmt.Sprintf("cell{a: %.4f, b: %.4f, angle: %.4f}", c.SideA(), c.SideB(), c.angle)
}

// ToCartesian converts fractional coordinates to Cartesian. The second
// cell vector is sheared by the cell angle, so y contributes to both
// components.
func (c *Cell) ToCartesian(x, y float64) (float64, float64) {
	sin, cos := math.Sincos(c.angle)
	return x*c.SideA() + y*c.SideB()*cos, y * c.SideB() * sin
}

// ToCartesianPoint converts a fractional point to Cartesian.
func (c *Cell) ToCartesianPoint(p geom.Point) geom.Point {
	x, y := c.ToCartesian(p.X, p.Y)
	return geom.MakePoint(x, y)
}

// ToCartesianIsometry converts the translation component of a fractional
// transform to Cartesian, leaving the rotation untouched.
func (c *Cell) ToCartesianIsometry(t geom.Transform) geom.Transform {
	return t.SetPosition(c.ToCartesianPoint(t.Position()))
}

// Area returns the cell area a·b·sin(angle).
func (c *Cell) Area() float64 {
	return c.SideA() * c.SideB() * math.Sin(c.angle)
}

// Center returns the Cartesian center of the cell spanned from the
// origin, used to align renderings.
func (c *Cell) Center() geom.Point {
	return c.ToCartesianPoint(geom.MakePoint(0.5, 0.5))
}

// DegreesOfFreedom returns the cell parameters the optimiser may vary,
// as determined by the crystal family. Side lengths range from 0.01 to
// their initial value, the monoclinic angle between 45° and 135°.
func (c *Cell) DegreesOfFreedom() []*Basis {
	basis := []*Basis{MakeBasis(&c.a, 0.01, c.a)}
	if c.family == wallpaper.Monoclinic || c.family == wallpaper.Orthorhombic {
		basis = append(basis, MakeBasis(&c.b, 0.01, c.b))
	}
	if c.family == wallpaper.Monoclinic {
		basis = append(basis, MakeBasis(&c.angle, math.Pi/4, 3*math.Pi/4))
	}
	return basis
}

// shells returns how many rings of neighbouring cells to search for
// periodic contacts. A single shell suffices for well-conditioned cells;
// skewed or elongated cells need wider searches or tilted neighbours
// slip past the check entirely.
func (c *Cell) shells() int {
	ratio := c.SideA() / c.SideB()
	skew := math.Abs(c.angle - math.Pi/2)
	switch {
	case 0.5 < ratio && ratio < 2 && skew < 0.2:
		return 1
	case 0.3 < ratio && ratio < 3 && skew < 0.5:
		return 2
	}
	return 3
}

// PeriodicImages returns the Cartesian transforms of t translated into
// each neighbouring cell image. The translation happens in fractional
// space before conversion, which is what keeps sheared cells correct.
// The ordering is deterministic: x image index varies slowest.
func (c *Cell) PeriodicImages(t geom.Transform, includeZero bool) []geom.Transform {
	shells := c.shells()
	images := make([]geom.Transform, 0, (2*shells+1)*(2*shells+1))
	for x := -shells; x <= shells; x++ {
		for y := -shells; y <= shells; y++ {
			if x == 0 && y == 0 && !includeZero {
				continue
			}
			position := t.Position().Add(geom.MakePoint(float64(x), float64(y)))
			images = append(images, t.SetPosition(c.ToCartesianPoint(position)))
		}
	}
	return images
}

// SetParameters overwrites the cell parameters, bypassing the basis
// machinery. Used when restoring a serialised configuration.
func (c *Cell) SetParameters(a, b, angle float64) {
	c.a, c.b, c.angle = a, b, angle
}

// Clone returns an independent copy of the cell.
func (c *Cell) Clone() *Cell {
	cp := *c
	return &cp
}

// Corners returns the Cartesian corners of the cell centered on the
// origin, in drawing order.
func (c *Cell) Corners() []geom.Point {
	fractional := []geom.Point{
		geom.MakePoint(-0.5, -0.5),
		geom.MakePoint(-0.5, 0.5),
		geom.MakePoint(0.5, 0.5),
		geom.MakePoint(0.5, -0.5),
	}
	corners := make([]geom.Point, len(fractional))
	for i, p := range fractional {
		corners[i] = c.ToCartesianPoint(p)
	}
	return corners
}
