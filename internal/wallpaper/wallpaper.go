// Package wallpaper enumerates the 2D crystallographic wallpaper groups
// supported by the search, their crystal families, and their Wyckoff
// sites.
package wallpaper

import (
	"fmt"
	"sort"

	"github.com/irfansharif/wyckoff/internal/geom"
)

// Family is the crystal family a wallpaper group belongs to. The family
// dictates which unit cell parameters are free to vary.
type Family int

const (
	// Monoclinic cells have two free side lengths and a free angle.
	Monoclinic Family = iota
	// Orthorhombic cells have two free side lengths and a right angle.
	Orthorhombic
	// Tetragonal cells have a single free side length and a right angle.
	Tetragonal
	// Hexagonal cells have a single free side length and a 60° angle.
	Hexagonal
)

func (f Family) String() string {
	switch f {
	case Monoclinic:
		return "monoclinic"
	case Orthorhombic:
		return "orthorhombic"
	case Tetragonal:
		return "tetragonal"
	case Hexagonal:
		return "hexagonal"
	}
	return fmt.Sprintf("family(%d)", int(f))
}

// WyckoffSite is one orbit of equivalent positions under a group's
// symmetry operations. Placing a shape at the site places a copy at every
// symmetry image; the multiplicity is the number of images.
type WyckoffSite struct {
	Letter     byte
	Symmetries []geom.Transform

	// NumRotations and the mirror flags describe the site's own point
	// symmetry; general positions have none.
	NumRotations    int
	MirrorPrimary   bool
	MirrorSecondary bool
}

// Multiplicity returns the number of symmetry images of the site.
func (s *WyckoffSite) Multiplicity() int {
	return len(s.Symmetries)
}

// DegreesOfFreedom reports which of x, y and angle are free to vary.
// General positions, the only sites tabulated here, have all three.
func (s *WyckoffSite) DegreesOfFreedom() [3]bool {
	return [3]bool{true, true, true}
}

// Group is the static definition of a wallpaper group: a name, a crystal
// family, and the symmetry operations of the general Wyckoff position in
// the "x,y"-style notation of the International Tables.
type Group struct {
	Name       string
	Family     Family
	Operations []string
}

// Site parses the group's operation strings into the general Wyckoff
// site.
func (g Group) Site() (WyckoffSite, error) {
	symmetries := make([]geom.Transform, len(g.Operations))
	for i, ops := range g.Operations {
		t, err := geom.FromOperations(ops)
		if err != nil {
			return WyckoffSite{}, fmt.Errorf("group %s: %w", g.Name, err)
		}
		symmetries[i] = t
	}
	return WyckoffSite{Letter: 'a', Symmetries: symmetries, NumRotations: 1}, nil
}

var groups = map[string]Group{
	"p1": {
		Name:       "p1",
		Family:     Monoclinic,
		Operations: []string{"x,y"},
	},
	"p2": {
		Name:       "p2",
		Family:     Monoclinic,
		Operations: []string{"x,y", "-x,-y"},
	},
	"p1m1": {
		Name:       "p1m1",
		Family:     Orthorhombic,
		Operations: []string{"x,y", "-x,y"},
	},
	"p1g1": {
		Name:       "p1g1",
		Family:     Orthorhombic,
		Operations: []string{"x,y", "-x,y+1/2"},
	},
	"p2mm": {
		Name:       "p2mm",
		Family:     Orthorhombic,
		Operations: []string{"x,y", "-x,-y", "-x,y", "x,-y"},
	},
	"p2mg": {
		Name:       "p2mg",
		Family:     Orthorhombic,
		Operations: []string{"x,y", "-x,-y", "-x+1/2,y", "x+1/2,-y"},
	},
	"p2gg": {
		Name:       "p2gg",
		Family:     Orthorhombic,
		Operations: []string{"x,y", "-x,-y", "-x+1/2,y+1/2", "x+1/2,-y+1/2"},
	},
	"p4": {
		Name:       "p4",
		Family:     Tetragonal,
		Operations: []string{"x,y", "-x,-y", "-y,x", "y,-x"},
	},
	// The hexagonal groups are expressed in the oblique fractional basis
	// of the hexagonal cell, where a threefold rotation mixes x and y.
	"p3": {
		Name:       "p3",
		Family:     Hexagonal,
		Operations: []string{"x,y", "-y,x-y", "-x+y,-x"},
	},
	"p6": {
		Name:       "p6",
		Family:     Hexagonal,
		Operations: []string{"x,y", "-y,x-y", "-x+y,-x", "-x,-y", "y,-x+y", "x-y,x"},
	},
}

// Get looks up a wallpaper group by name.
func Get(name string) (Group, error) {
	g, ok := groups[name]
	if !ok {
		return Group{}, fmt.Errorf("unknown wallpaper group %q, known groups: %v", name, Names())
	}
	return g, nil
}

// Names returns the known group names, sorted.
func Names() []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
