package render

import (
	"log"

	"github.com/rclancey/earcut"

	"github.com/irfansharif/wyckoff/internal/geom"
)

// earClip triangulates a polygon using the earcut algorithm. It takes
// the polygon's vertex loop and returns a slice of triangles, each
// represented as a [3]geom.Point.
func earClip(polygonPoints []geom.Point) [][3]geom.Point {
	if len(polygonPoints) < 3 {
		log.Fatalf("Degenerate polygon (%d vertices < 3)", len(polygonPoints))
	}

	// Flatten to the [x0, y0, x1, y1, ...] layout earcut expects.
	vertexCoords := make([]float64, len(polygonPoints)*2)
	for i, point := range polygonPoints {
		vertexCoords[i*2] = point.X
		vertexCoords[i*2+1] = point.Y
	}

	triangleIndices, err := earcut.Earcut(vertexCoords, nil /* holeIndices */, 2 /* dim */)
	if err != nil {
		log.Fatalf("Triangulation failed for %d-vertex polygon: %v", len(polygonPoints), err)
	}
	if len(triangleIndices)%3 != 0 {
		log.Fatalf("Invalid triangle count (indices: %d, not divisible by 3)", len(triangleIndices))
	}

	triangles := make([][3]geom.Point, len(triangleIndices)/3)
	for t := range triangles {
		base := t * 3
		for v := 0; v < 3; v++ {
			index := triangleIndices[base+v]
			triangles[t][v] = geom.MakePoint(vertexCoords[index*2], vertexCoords[index*2+1])
		}
	}
	return triangles
}
