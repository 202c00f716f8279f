// Package render draws a crystal packing with OpenGL: the unit cell
// outline and every symmetry copy of the shape, home copies over their
// washed-out periodic images.
//
// Geometry is generated in world/canvas space and uploaded to a single
// dynamic vertex buffer; pan and zoom only touch the view matrix, so
// the buffer is rebuilt only when the packing itself changes.
package render

import (
	"image/color"
	"log"
	"math"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/irfansharif/wyckoff/internal/geom"
	"github.com/irfansharif/wyckoff/internal/packing"
	"github.com/irfansharif/wyckoff/internal/palette"
	"github.com/irfansharif/wyckoff/internal/shape"
)

const viewportScaleFactor = 0.9

// diskSegments is the fan resolution used to tessellate molecule disks.
const diskSegments = 48

// outlineHalfWidth is half the on-canvas thickness of cell outlines, in
// world pixels.
const outlineHalfWidth = 0.75

var outlineColour = color.RGBA{R: 120, G: 120, B: 120, A: 255}

// floatsPerVertex is the interleaved layout: x, y position followed by
// RGBA color.
const floatsPerVertex = 6

type Renderer struct {
	w, h             int
	zoom, panX, panY float64

	shaderManager *ShaderManager
	vao, vbo      uint32
	vertexCount   int32
	stats         Stats
}

// Stats tracks rendering performance metrics.
type Stats struct {
	LastPrepareTimeMs float64 // time spent in the last Prepare() call in milliseconds
	LastDrawTimeUs    float64 // time spent in the last Draw() call in microseconds
	Vertices          int     // vertices resident in the buffer
}

// NewRenderer compiles the shaders and sets up the vertex buffer. It
// requires a current OpenGL context.
func NewRenderer() *Renderer {
	r := &Renderer{
		zoom:          1.0,
		shaderManager: NewShaderManager(),
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	stride := int32(floatsPerVertex * 4)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 4, gl.FLOAT, false, stride, 2*4)
	gl.EnableVertexAttribArray(1)

	// Periodic-image copies render translucent.
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	return r
}

func (r *Renderer) SetView(w, h int, zoom, panX, panY float64) {
	r.w, r.h = w, h
	r.zoom = zoom
	r.panX, r.panY = panX, panY
}

// Prepare regenerates the scene geometry for the given state and
// uploads it. Call it whenever the packing changes; pan/zoom alone
// don't need it.
func (r *Renderer) Prepare(state *packing.State, pal palette.Palette, w, h int) error {
	startTime := time.Now()

	if w <= 0 || h <= 0 {
		log.Fatalf("cannot prepare renderer: invalid viewport dimensions %dx%d", w, h)
	}
	r.w, r.h = w, h

	modelToWorld, err := modelToWorldTransform(state, w, h)
	if err != nil {
		return err
	}
	vertices := tessellateScene(state, pal, modelToWorld)

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.DYNAMIC_DRAW)
	r.vertexCount = int32(len(vertices) / floatsPerVertex)

	r.stats.Vertices = int(r.vertexCount)
	r.stats.LastPrepareTimeMs = float64(time.Since(startTime).Microseconds()) / 1000.0
	return nil
}

func (r *Renderer) Draw() {
	startTime := time.Now()

	matrix := r.computeTransformMatrix()
	r.shaderManager.SetTransform(matrix)

	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, r.vertexCount)

	r.stats.LastDrawTimeUs = float64(time.Since(startTime).Microseconds())
}

// Stats returns the current performance statistics.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// modelToWorldTransform maps the packing's model bounds (the first ring
// of periodic images, padded by the shape's extent) into a centered
// viewport square.
func modelToWorldTransform(state *packing.State, w, h int) (geom.Transform, error) {
	bounds := modelBounds(state)

	minSide := math.Min(float64(w), float64(h))
	side := viewportScaleFactor * minSide
	worldBounds := geom.MakeBox(
		(float64(w)-side)/2,
		(float64(h)-side)/2,
		side,
		side,
	)
	return geom.FillBox(bounds, worldBounds)
}

// modelBounds returns the axis-aligned box holding the cell's first
// ring of images plus padding for shapes poking past the boundary.
func modelBounds(state *packing.State) geom.Box {
	padding := state.Shape().EnclosingRadius()
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, corner := range state.Cell().Corners() {
		minX = math.Min(minX, 3*corner.X-padding)
		minY = math.Min(minY, 3*corner.Y-padding)
		maxX = math.Max(maxX, 3*corner.X+padding)
		maxY = math.Max(maxY, 3*corner.Y+padding)
	}
	return geom.MakeBox(minX, minY, maxX-minX, maxY-minY)
}

// tessellateScene generates the interleaved vertex data for the whole
// scene in world space: for each shape copy its periodic images then
// the home copy, then the cell outlines on top.
func tessellateScene(state *packing.State, pal palette.Palette, modelToWorld geom.Transform) []float32 {
	local := tessellateShape(state.Shape())

	var vertices []float32
	for i, position := range state.RelativePositions() {
		colour := pal.At(i)
		dimmed := palette.Dimmed(colour)

		for _, t := range state.Cell().PeriodicImages(position, false) {
			appendTriangles(&vertices, local, modelToWorld.Mul(t), dimmed)
		}
		home := state.Cell().ToCartesianIsometry(position)
		appendTriangles(&vertices, local, modelToWorld.Mul(home), colour)
	}

	corners := state.Cell().Corners()
	for _, t := range state.Cell().PeriodicImages(geom.Identity(), true) {
		placed := modelToWorld.Mul(t)
		for i := range corners {
			p := placed.MulPoint(corners[i])
			q := placed.MulPoint(corners[(i+1)%len(corners)])
			appendSegment(&vertices, p, q, outlineColour)
		}
	}
	return vertices
}

// tessellateShape triangulates the shape in its local coordinates:
// polygons via ear clipping, molecules as one fan per disk.
func tessellateShape(s *shape.Shape) [][3]geom.Point {
	switch s.Kind {
	case shape.Polygon:
		loop := make([]geom.Point, len(s.Lines))
		for i, line := range s.Lines {
			loop[i] = line.Start
		}
		return earClip(loop)

	case shape.MoleculeHard, shape.MoleculeLJ:
		var triangles [][3]geom.Point
		for _, disk := range s.Disks {
			radius := disk.Radius
			if s.Kind == shape.MoleculeLJ {
				// σ is a diameter-like length scale; draw at half.
				radius = disk.Radius / 2
			}
			triangles = append(triangles, diskFan(disk.Position, radius)...)
		}
		return triangles

	default:
		log.Fatalf("unknown shape kind %d", s.Kind)
		return nil
	}
}

// diskFan approximates a disk as a triangle fan about its center.
func diskFan(center geom.Point, radius float64) [][3]geom.Point {
	triangles := make([][3]geom.Point, 0, diskSegments)
	for i := 0; i < diskSegments; i++ {
		a := float64(i) * 2 * math.Pi / diskSegments
		b := float64(i+1) * 2 * math.Pi / diskSegments
		triangles = append(triangles, [3]geom.Point{
			center,
			center.Add(geom.MakePoint(radius*math.Cos(a), radius*math.Sin(a))),
			center.Add(geom.MakePoint(radius*math.Cos(b), radius*math.Sin(b))),
		})
	}
	return triangles
}

// appendTriangles transforms the triangles and appends them with the
// given color.
func appendTriangles(vertices *[]float32, triangles [][3]geom.Point, t geom.Transform, colour color.RGBA) {
	for _, tri := range triangles {
		for v := 0; v < 3; v++ {
			p := t.MulPoint(tri[v])
			appendVertex(vertices, p, colour)
		}
	}
}

// appendSegment appends a thin quad (two triangles) covering the
// segment from p to q.
func appendSegment(vertices *[]float32, p, q geom.Point, colour color.RGBA) {
	dx, dy := q.X-p.X, q.Y-p.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	// Unit normal, scaled to half the outline width.
	nx, ny := -dy/length*outlineHalfWidth, dx/length*outlineHalfWidth

	a := geom.MakePoint(p.X+nx, p.Y+ny)
	b := geom.MakePoint(p.X-nx, p.Y-ny)
	c := geom.MakePoint(q.X-nx, q.Y-ny)
	d := geom.MakePoint(q.X+nx, q.Y+ny)

	for _, tri := range [][3]geom.Point{{a, b, c}, {a, c, d}} {
		for v := 0; v < 3; v++ {
			appendVertex(vertices, tri[v], colour)
		}
	}
}

func appendVertex(vertices *[]float32, p geom.Point, colour color.RGBA) {
	*vertices = append(*vertices,
		float32(p.X), float32(p.Y),
		float32(colour.R)/255.0, float32(colour.G)/255.0,
		float32(colour.B)/255.0, float32(colour.A)/255.0,
	)
}

// computeTransformMatrix computes the complete transformation matrix
// from world coordinates to OpenGL NDC.
func (r *Renderer) computeTransformMatrix() [16]float32 {
	transform := geom.Identity()
	transform = r.applyZoomTransform(transform)
	transform = r.applyPanTransform(transform)
	transform = r.applyScreenToNDCTransform(transform)
	return affineToMatrix4(transform)
}

// applyZoomTransform applies zoom scaling around the viewport center.
func (r *Renderer) applyZoomTransform(baseTransform geom.Transform) geom.Transform {
	viewportCenterX := float64(r.w) / 2.0
	viewportCenterY := float64(r.h) / 2.0

	translateToOrigin := geom.MakeTransform(1, 0, -viewportCenterX, 0, 1, -viewportCenterY)
	uniformScale := geom.MakeTransform(r.zoom, 0, 0, 0, r.zoom, 0)
	translateBack := geom.MakeTransform(1, 0, viewportCenterX, 0, 1, viewportCenterY)

	return translateBack.Mul(uniformScale.Mul(translateToOrigin.Mul(baseTransform)))
}

// applyPanTransform applies pan translation in screen space.
func (r *Renderer) applyPanTransform(baseTransform geom.Transform) geom.Transform {
	panTranslation := geom.MakeTransform(1, 0, r.panX, 0, 1, r.panY)
	return panTranslation.Mul(baseTransform)
}

// applyScreenToNDCTransform converts screen coordinates to OpenGL NDC.
func (r *Renderer) applyScreenToNDCTransform(baseTransform geom.Transform) geom.Transform {
	screenToNDC := geom.MakeTransform(
		2.0/float64(r.w), 0, -1,
		0, -2.0/float64(r.h), 1,
	)
	return screenToNDC.Mul(baseTransform)
}

// affineToMatrix4 converts an affine transform to OpenGL 4x4 matrix
// format (column-major).
func affineToMatrix4(transform geom.Transform) [16]float32 {
	return [16]float32{
		float32(transform.A), float32(transform.D), 0, 0,
		float32(transform.B), float32(transform.E), 0, 0,
		0, 0, 1, 0,
		float32(transform.C), float32(transform.F), 0, 1,
	}
}
