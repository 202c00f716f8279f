// Package svgout renders a packing state as an SVG document: the unit
// cell outline, the shape at every site position, and the surrounding
// periodic images.
package svgout

import (
	"fmt"
	"io"
	"math"

	"github.com/irfansharif/wyckoff/internal/geom"
	"github.com/irfansharif/wyckoff/internal/packing"
	"github.com/irfansharif/wyckoff/internal/shape"
)

const (
	cellStyle    = "fill: none; stroke: grey; stroke-width: 0.1"
	homeColour   = "blue"
	imageColour  = "green"
	imageOpacity = 0.5
)

// svg is a minimal serialization helper over an io.Writer. The first
// write error sticks; later calls are no-ops.
type svg struct {
	w   io.Writer
	err error
}

func (s *svg) printf(format string, a ...interface{}) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, a...)
}

// matrix formats a transform as an SVG matrix() attribute, which is
// column-major.
func matrix(t geom.Transform) string {
	return fmt.Sprintf("matrix(%f %f %f %f %f %f)", t.A, t.D, t.B, t.E, t.C, t.F)
}

// Write renders the state to w.
func Write(w io.Writer, state *packing.State) error {
	doc := &svg{w: w}

	minX, minY, maxX, maxY := viewBox(state)
	doc.printf(`<?xml version="1.0"?>
<svg version="1.1" viewBox="%f %f %f %f" xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">
`, minX, minY, maxX-minX, maxY-minY)

	doc.printf("<defs>\n")
	writeCell(doc, state)
	writeShape(doc, state.Shape())
	doc.printf("</defs>\n")

	// The cell outline tiled over its own images, then every placed
	// shape: the home copies over the neighbouring images.
	for _, t := range state.Cell().PeriodicImages(geom.Identity(), true) {
		doc.printf("<use xlink:href=\"#cell\" transform=\"%s\"/>\n", matrix(t))
	}
	for _, position := range state.RelativePositions() {
		for _, t := range state.Cell().PeriodicImages(position, false) {
			doc.printf("<use xlink:href=\"#shape\" fill=\"%s\" fill-opacity=\"%g\" transform=\"%s\"/>\n",
				imageColour, imageOpacity, matrix(t))
		}
		home := state.Cell().ToCartesianIsometry(position)
		doc.printf("<use xlink:href=\"#shape\" fill=\"%s\" transform=\"%s\"/>\n",
			homeColour, matrix(home))
	}

	doc.printf("</svg>\n")
	return doc.err
}

// viewBox bounds the cell's first ring of images with padding for the
// shapes poking past the boundary.
func viewBox(state *packing.State) (minX, minY, maxX, maxY float64) {
	padding := state.Shape().EnclosingRadius()
	for _, corner := range state.Cell().Corners() {
		minX = math.Min(minX, 3*corner.X-padding)
		minY = math.Min(minY, 3*corner.Y-padding)
		maxX = math.Max(maxX, 3*corner.X+padding)
		maxY = math.Max(maxY, 3*corner.Y+padding)
	}
	return minX, minY, maxX, maxY
}

func writeCell(doc *svg, state *packing.State) {
	corners := state.Cell().Corners()
	doc.printf("<path id=\"cell\" style=\"%s\" d=\"M%f,%f L%f,%f L%f,%f L%f,%f Z\"/>\n",
		cellStyle,
		corners[0].X, corners[0].Y,
		corners[1].X, corners[1].Y,
		corners[2].X, corners[2].Y,
		corners[3].X, corners[3].Y)
}

func writeShape(doc *svg, s *shape.Shape) {
	doc.printf("<g id=\"shape\">\n")
	switch s.Kind {
	case shape.Polygon:
		doc.printf("<path d=\"M%f,%f", s.Lines[0].Start.X, s.Lines[0].Start.Y)
		for _, line := range s.Lines {
			doc.printf(" L%f,%f", line.End.X, line.End.Y)
		}
		doc.printf(" Z\"/>\n")
	case shape.MoleculeHard, shape.MoleculeLJ:
		for _, disk := range s.Disks {
			radius := disk.Radius
			if s.Kind == shape.MoleculeLJ {
				// σ is a diameter-like length scale; draw at half.
				radius = disk.Radius / 2
			}
			doc.printf("<circle cx=\"%f\" cy=\"%f\" r=\"%f\"/>\n",
				disk.Position.X, disk.Position.Y, radius)
		}
	}
	doc.printf("</g>\n")
}
