package crystal

import (
	"math"

	"github.com/irfansharif/wyckoff/internal/geom"
	"github.com/irfansharif/wyckoff/internal/wallpaper"
)

// Site is an occupied Wyckoff site: a fractional position and rotation
// angle, replicated through the site's symmetry operations. The symmetry
// list is fixed at construction; only x, y and angle ever change.
type Site struct {
	wyckoff     wallpaper.WyckoffSite
	x, y, angle float64
}

// FromWyckoff occupies a Wyckoff site. The starting position depends on
// the multiplicity so that sites of different multiplicity start spread
// out rather than stacked.
func FromWyckoff(wyckoff wallpaper.WyckoffSite) *Site {
	position := -0.5 + 0.5/float64(wyckoff.Multiplicity())
	return &Site{wyckoff: wyckoff, x: position, y: position}
}

// Transform returns the site's own placement as a transform.
func (s *Site) Transform() geom.Transform {
	return geom.MakeIsometry(s.angle, s.x, s.y)
}

// Positions returns one transform per symmetry image: the symmetry
// operation composed with the site's own placement, wrapped onto the
// [-0.5, 0.5) fractional torus. The result always has exactly
// Multiplicity entries, in the symmetry list's order.
func (s *Site) Positions() []geom.Transform {
	own := s.Transform()
	positions := make([]geom.Transform, len(s.wyckoff.Symmetries))
	for i, sym := range s.wyckoff.Symmetries {
		positions[i] = sym.Mul(own).Periodic(1, -0.5)
	}
	return positions
}

// Multiplicity returns the number of symmetry images of the site.
func (s *Site) Multiplicity() int {
	return s.wyckoff.Multiplicity()
}

// X returns the fractional x coordinate.
func (s *Site) X() float64 { return s.x }

// Y returns the fractional y coordinate.
func (s *Site) Y() float64 { return s.y }

// Angle returns the site rotation in radians.
func (s *Site) Angle() float64 { return s.angle }

// Basis returns the site parameters the optimiser may vary, per the
// Wyckoff site's degrees of freedom. The angular range shrinks by the
// shape's rotational symmetry order since orientations related by it are
// equivalent.
func (s *Site) Basis(rotationalSymmetry int) []*Basis {
	dof := s.wyckoff.DegreesOfFreedom()
	var basis []*Basis
	if dof[0] {
		basis = append(basis, MakeBasis(&s.x, -0.5, 0.5))
	}
	if dof[1] {
		basis = append(basis, MakeBasis(&s.y, -0.5, 0.5))
	}
	if dof[2] {
		basis = append(basis, MakeBasis(&s.angle, 0, 2*math.Pi/float64(rotationalSymmetry)))
	}
	return basis
}

// SetPlacement overwrites the site placement, bypassing the basis
// machinery. Used when restoring a serialised configuration.
func (s *Site) SetPlacement(x, y, angle float64) {
	s.x, s.y, s.angle = x, y, angle
}

// Clone returns an independent copy of the site.
func (s *Site) Clone() *Site {
	cp := *s
	return &cp
}
