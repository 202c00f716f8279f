// Package shape models the rigid 2D shapes that get packed: polygons
// bounded by line segments, molecules built from hard disks, and
// molecules whose disks interact through the Lennard-Jones potential.
package shape

import (
	"fmt"
	"math"

	"github.com/irfansharif/wyckoff/internal/geom"
)

// Kind discriminates the shape variants. The set is closed: every
// operation switches on it exhaustively.
type Kind int

const (
	// Polygon is a hard shape bounded by line segments.
	Polygon Kind = iota
	// MoleculeHard is a hard shape built from disks.
	MoleculeHard
	// MoleculeLJ is a soft shape whose disks interact through the
	// Lennard-Jones potential instead of excluding volume.
	MoleculeLJ
)

// Line is a segment between two points, one edge of a polygon outline.
type Line struct {
	Start geom.Point
	End   geom.Point
}

// Disk is a circle with a position and radius. For MoleculeLJ shapes the
// radius doubles as the Lennard-Jones σ parameter.
type Disk struct {
	Position geom.Point
	Radius   float64
}

// Shape is a rigid 2D shape centered near the origin. Which of Lines and
// Disks is populated depends on Kind; Transform preserves component count
// and order.
type Shape struct {
	Name string
	Kind Kind

	Lines []Line
	Disks []Disk

	// RotationalSymmetry is the order of the shape's own rotational
	// symmetry. Orientations related by 2π/RotationalSymmetry are
	// indistinguishable, so the angular search range shrinks by this
	// factor.
	RotationalSymmetry int

	// Epsilon is the Lennard-Jones well depth and Cutoff, when positive,
	// the distance beyond which the potential is truncated (and shifted
	// to stay continuous). MoleculeLJ only.
	Epsilon float64
	Cutoff  float64
}

// MakeLine constructs the segment from (x1, y1) to (x2, y2).
func MakeLine(x1, y1, x2, y2 float64) Line {
	return Line{Start: geom.MakePoint(x1, y1), End: geom.MakePoint(x2, y2)}
}

// MakeDisk constructs a disk of the given radius centered at (x, y).
func MakeDisk(x, y, radius float64) Disk {
	return Disk{Position: geom.MakePoint(x, y), Radius: radius}
}

// FromRadial constructs a polygon from radial distances to its vertices,
// the vertices spaced at equal angles around the origin. Three ones make
// an equilateral triangle, four a square of area 2, and so on. The
// rotational symmetry order is declared by the caller since it depends on
// the radii being equal, not just their count.
func FromRadial(name string, radii []float64, symmetry int) (*Shape, error) {
	if len(radii) < 3 {
		return nil, fmt.Errorf("%d radial points cannot enclose an area, need at least 3", len(radii))
	}
	if symmetry < 1 {
		return nil, fmt.Errorf("rotational symmetry order must be positive, got %d", symmetry)
	}

	dtheta := 2 * math.Pi / float64(len(radii))
	lines := make([]Line, 0, len(radii))
	for i, r1 := range radii {
		r2 := radii[(i+1)%len(radii)]
		angle := float64(i) * dtheta
		lines = append(lines, MakeLine(
			r1*math.Sin(angle), r1*math.Cos(angle),
			r2*math.Sin(angle+dtheta), r2*math.Cos(angle+dtheta),
		))
	}
	return &Shape{Name: name, Kind: Polygon, Lines: lines, RotationalSymmetry: symmetry}, nil
}

// trimer returns the three disks of a trimer molecule: a central disk of
// radius 1 and two disks of the given radius at the given distance from
// the center, separated by the given angle. Positions are offset so the
// center of mass sits at the origin.
func trimer(radius, angle, distance float64) []Disk {
	sin, cos := math.Sincos(angle / 2)
	return []Disk{
		MakeDisk(0, -2./3.*distance*cos, 1),
		MakeDisk(-distance*sin, 1./3.*distance*cos, radius),
		MakeDisk(distance*sin, 1./3.*distance*cos, radius),
	}
}

// FromTrimer constructs a hard trimer molecule.
func FromTrimer(radius, angle, distance float64) *Shape {
	return &Shape{
		Name:               "Trimer",
		Kind:               MoleculeHard,
		Disks:              trimer(radius, angle, distance),
		RotationalSymmetry: 1,
	}
}

// Circle constructs the simplest molecule, a single hard disk of radius 1
// at the origin.
func Circle() *Shape {
	return &Shape{
		Name:               "Circle",
		Kind:               MoleculeHard,
		Disks:              []Disk{MakeDisk(0, 0, 1)},
		RotationalSymmetry: 1,
	}
}

// LJCircle constructs a single Lennard-Jones disk with unit σ and well
// depth. A zero cutoff leaves the potential untruncated.
func LJCircle(cutoff float64) *Shape {
	return &Shape{
		Name:               "Circle",
		Kind:               MoleculeLJ,
		Disks:              []Disk{MakeDisk(0, 0, 1)},
		RotationalSymmetry: 1,
		Epsilon:            1,
		Cutoff:             cutoff,
	}
}

// LJTrimer constructs a trimer whose disks interact through the
// Lennard-Jones potential with unit well depth. A zero cutoff leaves the
// potential untruncated.
func LJTrimer(radius, angle, distance, cutoff float64) *Shape {
	return &Shape{
		Name:               "Trimer",
		Kind:               MoleculeLJ,
		Disks:              trimer(radius, angle, distance),
		RotationalSymmetry: 1,
		Epsilon:            1,
		Cutoff:             cutoff,
	}
}

// Transform returns a copy of the shape with every component mapped
// through t.
func (s *Shape) Transform(t geom.Transform) *Shape {
	out := *s
	if s.Lines != nil {
		out.Lines = make([]Line, len(s.Lines))
		for i, l := range s.Lines {
			out.Lines[i] = Line{Start: t.MulPoint(l.Start), End: t.MulPoint(l.End)}
		}
	}
	if s.Disks != nil {
		out.Disks = make([]Disk, len(s.Disks))
		for i, d := range s.Disks {
			out.Disks[i] = Disk{Position: t.MulPoint(d.Position), Radius: d.Radius}
		}
	}
	return &out
}

// Intersects reports whether any component of s crosses any component of
// other. Both shapes must be hard; Lennard-Jones shapes overlap through
// their energy instead.
func (s *Shape) Intersects(other *Shape) bool {
	switch s.Kind {
	case Polygon:
		for _, a := range s.Lines {
			for _, b := range other.Lines {
				if a.Intersects(b) {
					return true
				}
			}
		}
	case MoleculeHard:
		for _, a := range s.Disks {
			for _, b := range other.Disks {
				if a.Intersects(b) {
					return true
				}
			}
		}
	}
	return false
}

// Energy returns the total pairwise Lennard-Jones energy between the
// disks of s and other.
func (s *Shape) Energy(other *Shape) float64 {
	total := 0.
	for _, a := range s.Disks {
		for _, b := range other.Disks {
			total += ljEnergy(a.Radius, s.Epsilon, s.Cutoff, geom.DistSq(a.Position, b.Position))
		}
	}
	return total
}

// Area returns the area enclosed by the shape. For molecules this is the
// disk areas less the pairwise overlaps, which undercounts regions where
// three or more disks meet; the trimer geometries used here have none.
func (s *Shape) Area() float64 {
	if s.Kind == Polygon {
		// Each segment forms a triangle with the origin; the angle
		// subtended is the same for every segment.
		angleTerm := math.Sin(2 * math.Pi / float64(len(s.Lines)))
		area := 0.
		for _, l := range s.Lines {
			area += 0.5 * angleTerm *
				geom.Dist(geom.Point{}, l.Start) * geom.Dist(geom.Point{}, l.End)
		}
		return area
	}

	area := 0.
	for _, d := range s.Disks {
		area += math.Pi * d.Radius * d.Radius
	}
	for i, a := range s.Disks {
		for _, b := range s.Disks[i+1:] {
			area -= circleOverlap(a, b)
		}
	}
	return area
}

// EnclosingRadius returns the radius of the smallest origin-centered
// circle containing the shape.
func (s *Shape) EnclosingRadius() float64 {
	max := math.Inf(-1)
	for _, l := range s.Lines {
		max = math.Max(max, geom.Dist(geom.Point{}, l.Start))
	}
	for _, d := range s.Disks {
		max = math.Max(max, geom.Dist(geom.Point{}, d.Position)+d.Radius)
	}
	return max
}

// Intersects reports whether the two segments cross at an interior or
// endpoint of both. Parallel segments never intersect, even when
// collinear and overlapping; only crossings count.
func (l Line) Intersects(m Line) bool {
	ub := m.dy()*l.dx() - m.dx()*l.dy()
	if ub == 0 {
		return false
	}

	uaT := m.dx()*(l.Start.Y-m.Start.Y) - m.dy()*(l.Start.X-m.Start.X)
	ubT := l.dx()*(l.Start.Y-m.Start.Y) - l.dy()*(l.Start.X-m.Start.X)

	ua := uaT / ub
	ubV := ubT / ub
	return 0 <= ua && ua <= 1 && 0 <= ubV && ubV <= 1
}

func (l Line) dx() float64 { return l.End.X - l.Start.X }
func (l Line) dy() float64 { return l.End.Y - l.Start.Y }

// Intersects reports whether the two disks overlap. Tangent disks do not
// count, the inequality is strict.
func (d Disk) Intersects(e Disk) bool {
	r := d.Radius + e.Radius
	return geom.DistSq(d.Position, e.Position) < r*r
}

// ljEnergy evaluates the Lennard-Jones potential 4ε[(σ²/r²)⁶ − (σ²/r²)³]
// from the squared separation, avoiding a square root. A positive cutoff
// truncates the potential and shifts it to zero at the cutoff distance.
func ljEnergy(sigma, epsilon, cutoff, rSq float64) float64 {
	lj := func(rSq float64) float64 {
		s2r2 := sigma * sigma / rSq
		cubed := s2r2 * s2r2 * s2r2
		return 4 * epsilon * (cubed*cubed - cubed)
	}
	if cutoff > 0 {
		if rSq >= cutoff*cutoff {
			return 0
		}
		return lj(rSq) - lj(cutoff*cutoff)
	}
	return lj(rSq)
}

// circleOverlap returns the area of the lens where two overlapping disks
// intersect, zero when they are disjoint or tangent.
func circleOverlap(a, b Disk) float64 {
	d := geom.Dist(a.Position, b.Position)
	if d >= a.Radius+b.Radius {
		return 0
	}
	d1 := (d*d + a.Radius*a.Radius - b.Radius*b.Radius) / (2 * d)
	d2 := (d*d + b.Radius*b.Radius - a.Radius*a.Radius) / (2 * d)
	return segmentArea(a.Radius, d1) + segmentArea(b.Radius, d2)
}

// segmentArea returns the area of the circular segment of radius r cut
// off by a chord at distance d from the center.
func segmentArea(r, d float64) float64 {
	return r*r*math.Acos(d/r) - d*math.Sqrt(r*r-d*d)
}
