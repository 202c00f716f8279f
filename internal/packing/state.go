// Package packing composes a shape, a unit cell and occupied Wyckoff
// sites into a scorable packing configuration.
package packing

import (
	"errors"
	"fmt"

	"github.com/irfansharif/wyckoff/internal/crystal"
	"github.com/irfansharif/wyckoff/internal/geom"
	"github.com/irfansharif/wyckoff/internal/shape"
	"github.com/irfansharif/wyckoff/internal/wallpaper"
)

// ErrIntersection marks a hard-shape configuration whose current
// parameters overlap. It is a normal outcome of a Monte-Carlo move, the
// optimiser treats it as an automatic rejection.
var ErrIntersection = errors.New("shapes intersect")

// softNormalisation scales soft-potential scores into roughly the same
// range as packing fractions so optimiser temperatures are comparable
// across modes.
const softNormalisation = 15.

// State is one packing configuration: a shape placed at one or more
// Wyckoff sites of a unit cell. The score is recomputed from the current
// parameters on every call; State caches nothing.
type State struct {
	group wallpaper.Group
	shape *shape.Shape
	cell  *crystal.Cell
	sites []*crystal.Site
}

// Initialise builds the starting configuration for a shape under the
// given group, occupying the given Wyckoff sites. The initial cell is
// deliberately dilute, sized by the shape's enclosing circle and the
// total number of placed copies, so the search starts from a valid
// configuration. Soft shapes start at half the dilution since overlap
// is not fatal there.
func Initialise(s *shape.Shape, group wallpaper.Group, wyckoffs []wallpaper.WyckoffSite) *State {
	total := 0
	for _, w := range wyckoffs {
		total += w.Multiplicity()
	}
	factor := 4.
	if s.Kind == shape.MoleculeLJ {
		factor = 2.
	}
	cell := crystal.FromFamily(group.Family, factor*s.EnclosingRadius()*float64(total))

	sites := make([]*crystal.Site, len(wyckoffs))
	for i, w := range wyckoffs {
		sites[i] = crystal.FromWyckoff(w)
	}
	return &State{group: group, shape: s, cell: cell, sites: sites}
}

// FromGroup initialises a state occupying only the group's general
// position.
func FromGroup(s *shape.Shape, group wallpaper.Group) (*State, error) {
	site, err := group.Site()
	if err != nil {
		return nil, err
	}
	return Initialise(s, group, []wallpaper.WyckoffSite{site}), nil
}

// Group returns the wallpaper group the state packs under.
func (s *State) Group() wallpaper.Group { return s.group }

// Shape returns the shape being packed.
func (s *State) Shape() *shape.Shape { return s.shape }

// Cell returns the unit cell.
func (s *State) Cell() *crystal.Cell { return s.cell }

// TotalShapes returns the number of shape copies in the cell, the sum of
// the site multiplicities.
func (s *State) TotalShapes() int {
	total := 0
	for _, site := range s.sites {
		total += site.Multiplicity()
	}
	return total
}

// RelativePositions returns the fractional placement of every shape
// copy, sites in declaration order.
func (s *State) RelativePositions() []geom.Transform {
	var positions []geom.Transform
	for _, site := range s.sites {
		positions = append(positions, site.Positions()...)
	}
	return positions
}

// CartesianPositions returns the Cartesian placement of every shape
// copy.
func (s *State) CartesianPositions() []geom.Transform {
	positions := s.RelativePositions()
	for i, p := range positions {
		positions[i] = s.cell.ToCartesianIsometry(p)
	}
	return positions
}

// GenerateBasis returns the state's free parameters: the cell's degrees
// of freedom first, then each site's, in declaration order. The
// optimiser addresses entries by index, so the order is part of the
// contract.
func (s *State) GenerateBasis() []*crystal.Basis {
	basis := s.cell.DegreesOfFreedom()
	for _, site := range s.sites {
		basis = append(basis, site.Basis(s.shape.RotationalSymmetry)...)
	}
	return basis
}

// Score evaluates the configuration. Hard shapes score their packing
// fraction, with ErrIntersection when any pair of placed copies
// (including periodic images) overlaps. Soft shapes score their negated,
// normalised total energy and always succeed.
func (s *State) Score() (float64, error) {
	if s.shape.Kind == shape.MoleculeLJ {
		return s.scoreEnergy(), nil
	}
	return s.scorePacking()
}

func (s *State) scorePacking() (float64, error) {
	positions := s.RelativePositions()
	// Copies further apart than two enclosing radii cannot touch; skip
	// the component-level check for those.
	radius := 2 * s.shape.EnclosingRadius()
	radiusSq := radius * radius

	for i, p1 := range positions {
		t1 := s.cell.ToCartesianIsometry(p1)
		s1 := s.shape.Transform(t1)

		for j := i; j < len(positions); j++ {
			// A copy never intersects its own zero image.
			for _, t2 := range s.cell.PeriodicImages(positions[j], i != j) {
				if geom.DistSq(t1.Position(), t2.Position()) > radiusSq {
					continue
				}
				if s1.Intersects(s.shape.Transform(t2)) {
					return 0, fmt.Errorf("%w: copies %d and %d", ErrIntersection, i, j)
				}
			}
		}
	}
	return s.shape.Area() * float64(s.TotalShapes()) / s.cell.Area(), nil
}

func (s *State) scoreEnergy() float64 {
	relative := s.RelativePositions()
	placed := make([]*shape.Shape, len(relative))
	for i, p := range relative {
		placed[i] = s.shape.Transform(s.cell.ToCartesianIsometry(p))
	}

	// The same triangular enumeration as the hard check: each unordered
	// pair of copies once, the home copy of the partner included for
	// distinct copies and skipped for a copy against itself.
	sum := 0.
	for i, s1 := range placed {
		for j := i; j < len(relative); j++ {
			for _, t := range s.cell.PeriodicImages(relative[j], i != j) {
				sum += s1.Energy(s.shape.Transform(t))
			}
		}
	}
	// Lower energy is better; the optimiser maximises.
	return -sum / softNormalisation / float64(s.TotalShapes())
}

// Clone returns a deep copy sharing only the immutable shape. The
// clone's basis vector must be regenerated; basis entries alias the
// state they came from.
func (s *State) Clone() *State {
	sites := make([]*crystal.Site, len(s.sites))
	for i, site := range s.sites {
		sites[i] = site.Clone()
	}
	return &State{group: s.group, shape: s.shape, cell: s.cell.Clone(), sites: sites}
}
