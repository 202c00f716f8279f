package app

const (
	minZoom = 0.1
	maxZoom = 8.0
)

// View manages the current view state including zoom, pan, and viewport.
type View struct {
	Zoom          float64
	PanX, PanY    float64
	Width, Height int
}

// NewView creates a new view state with default values.
func NewView(width, height int) *View {
	return &View{
		Zoom:   1.0,
		Width:  width,
		Height: height,
	}
}

// SetZoom sets the zoom level, clamping to valid range.
func (vs *View) SetZoom(zoom float64) {
	if zoom < minZoom {
		vs.Zoom = minZoom
	} else if zoom > maxZoom {
		vs.Zoom = maxZoom
	} else {
		vs.Zoom = zoom
	}
}

// SetPan sets the pan position to the given coordinates.
func (vs *View) SetPan(x, y float64) {
	vs.PanX = x
	vs.PanY = y
}

// SetViewport updates the viewport dimensions.
func (vs *View) SetViewport(width, height int) {
	vs.Width = width
	vs.Height = height
}

// Reset restores the default zoom and pan. The scene is laid out
// around the viewport center, so zero pan recenters it.
func (vs *View) Reset() {
	vs.Zoom = 1.0
	vs.PanX = 0
	vs.PanY = 0
}
