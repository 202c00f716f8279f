package main

import (
	"strconv"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/irfansharif/wyckoff/internal/app"
)

const repeatInterval = 125 * time.Millisecond // time between successive bursts/pans when pressed down
const basePanDistance = 100.0

// EventHandlers manages all event handling for the application.
type EventHandlers struct {
	application *app.App

	// Space anneals a burst, shift+space quenches (zero-temperature
	// descent). If held down, we do so continuously.
	spaceHeld, shiftHeld bool
	lastAnnealTime       time.Time

	// J/K/H/L allow panning through keypresses. They also do so
	// continuously if held.
	panKeyHeld                   bool
	panDirectionX, panDirectionY float64
	lastPanTime                  time.Time

	// Drag/pan state (per-gesture), captured on mouse press.
	isDragging                       bool
	dragStartMouseX, dragStartMouseY float64
	dragStartPanX, dragStartPanY     float64

	// Input buffer for numeric input (trials per burst). Accumulates
	// digits until Space is pressed.
	inputBuffer string
}

// NewEventHandlers creates a new event handlers manager.
func NewEventHandlers(application *app.App) *EventHandlers {
	eh := &EventHandlers{
		application:    application,
		lastAnnealTime: time.Now(),
		lastPanTime:    time.Now(),
	}
	eh.SetupCallbacks(application.Window)
	return eh
}

// SetupCallbacks configures all GLFW event callbacks.
func (eh *EventHandlers) SetupCallbacks(window *glfw.Window) {
	window.SetKeyCallback(func(wnd *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		eh.handleKey(key, action, mods) // for various actions
	})
	window.SetMouseButtonCallback(func(wnd *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		eh.handleMouseButton(button, action) // for panning
	})
	window.SetCursorPosCallback(func(wnd *glfw.Window, xpos, ypos float64) {
		eh.handleCursorPos(xpos, ypos) // for drag-panning
	})
	window.SetScrollCallback(func(wnd *glfw.Window, _, zoomDelta float64) {
		eh.performZoom(zoomDelta) // for zooming
	})
	window.SetFramebufferSizeCallback(func(wnd *glfw.Window, newW, newH int) {
		eh.handleFramebufferSize(newW, newH) // for window resize
	})
}

// updateRendererView updates the renderer with the current view state and
// framebuffer size.
func (eh *EventHandlers) updateRendererView() {
	view := eh.application.View
	cw, ch := eh.application.Window.GetFramebufferSize()
	eh.application.Renderer.SetView(cw, ch, view.Zoom, view.PanX, view.PanY)
}

// handleFramebufferSize handles window resize events.
func (eh *EventHandlers) handleFramebufferSize(newW, newH int) {
	eh.application.View.SetViewport(newW, newH)
	// The scene is laid out relative to the viewport, so a resize needs
	// a re-prepare, not just a view update.
	eh.application.PrepareRenderer(newW, newH)
}

// handleKey handles keyboard input events.
func (eh *EventHandlers) handleKey(key glfw.Key, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Press {
		// Handle number keys for input.
		if key >= glfw.Key0 && key <= glfw.Key9 {
			eh.inputBuffer += string(rune('0' + int(key-glfw.Key0)))
			return
		}

		// Handle Escape key to clear input buffer.
		if key == glfw.KeyEscape {
			eh.inputBuffer = ""
			return
		}

		// Clear input buffer on non-input keys (except Space, the
		// action key).
		if key != glfw.KeySpace {
			eh.inputBuffer = ""
		}
	}

	switch key {
	case glfw.KeySpace:
		eh.handleAnnealKeys(action, mods)
	case glfw.KeyR:
		if action == glfw.Press {
			eh.handleResetKey()
		}
	case glfw.KeyJ:
		eh.handlePanKeys(action, 0 /*dx*/, -1 /*dy*/) // pan down
	case glfw.KeyK:
		eh.handlePanKeys(action, 0 /*dx*/, 1 /*dy*/) // pan up
	case glfw.KeyH:
		eh.handlePanKeys(action, 1 /*dx*/, 0 /*dy*/) // pan right
	case glfw.KeyL:
		eh.handlePanKeys(action, -1 /*dx*/, 0 /*dy*/) // pan left
	case glfw.KeyEqual:
		if action == glfw.Press && (mods&glfw.ModSuper) != 0 {
			eh.performZoom(1) // zoom in
		}
	case glfw.KeyMinus:
		if action == glfw.Press && (mods&glfw.ModSuper) != 0 {
			eh.performZoom(-1) // zoom out
		}
	}
}

// handleAnnealKeys handles space and shift+space presses/releases
// (anneal or quench a burst).
func (eh *EventHandlers) handleAnnealKeys(action glfw.Action, mods glfw.ModifierKey) {
	shiftHeld := (mods & glfw.ModShift) != 0

	switch action {
	case glfw.Press:
		burst := eh.parseInput()

		if shiftHeld {
			eh.shiftHeld = true
			eh.spaceHeld = false
		} else {
			eh.spaceHeld = true
			eh.shiftHeld = false
		}
		eh.runBurst(burst)
		eh.lastAnnealTime = time.Now()

	case glfw.Release:
		eh.spaceHeld = false
		eh.shiftHeld = false

	case glfw.Repeat:
		// Ignore repeat events - we handle continuous annealing ourselves to
		// ensure consistent timing.
	}
}

// runBurst anneals (or quenches, when shift is held) one burst and
// refreshes the scene.
func (eh *EventHandlers) runBurst(burst *int) {
	if eh.shiftHeld {
		eh.application.Quench()
	} else {
		eh.application.Anneal(burst)
	}
	w, h := eh.application.Window.GetFramebufferSize()
	eh.application.PrepareRenderer(w, h)
}

// handlePanKeys handles j/k/h/l key presses, and also releases for
// continuous panning.
func (eh *EventHandlers) handlePanKeys(action glfw.Action, dx, dy float64) {
	switch action {
	case glfw.Press:
		eh.panKeyHeld = true
		eh.panDirectionX = dx
		eh.panDirectionY = dy
		eh.performPan(dx, dy)
		eh.lastPanTime = time.Now()

	case glfw.Release:
		eh.panKeyHeld = false

	case glfw.Repeat:
		// Ignore repeat events - we handle continuous panning ourselves to
		// ensure consistent timing.
	}
}

// performPan executes a single pan operation.
func (eh *EventHandlers) performPan(dx, dy float64) {
	// Scale by inverse of zoom: when zoomed out (zoom < 1), we move further in
	// canvas space and vice-versa.
	view := eh.application.View
	zoom := view.Zoom
	scaledDistance := basePanDistance / zoom

	view.SetPan(view.PanX+dx*scaledDistance, view.PanY+dy*scaledDistance)
	eh.updateRendererView()
}

// handleResetKey handles R key press (restore the dilute starting
// configuration and recenter the view).
func (eh *EventHandlers) handleResetKey() {
	eh.application.Reset()
	eh.application.View.Reset()

	w, h := eh.application.Window.GetFramebufferSize()
	eh.application.PrepareRenderer(w, h)
}

// handleContinuousAnnealing keeps annealing while space is held.
func (eh *EventHandlers) handleContinuousAnnealing() {
	if !(eh.spaceHeld || eh.shiftHeld) {
		return // nothing to do
	}

	now := time.Now()
	if now.Sub(eh.lastAnnealTime) < repeatInterval {
		return // not enough time has passed since the last burst
	}

	eh.runBurst(nil /* burst */)
	eh.lastAnnealTime = now
}

// handleContinuousPanning handles continuous panning while pan keys are held.
func (eh *EventHandlers) handleContinuousPanning() {
	if !eh.panKeyHeld {
		return // nothing to do
	}

	now := time.Now()
	if now.Sub(eh.lastPanTime) < repeatInterval {
		return // not enough time has passed since the last pan
	}

	eh.performPan(eh.panDirectionX, eh.panDirectionY)
	eh.lastPanTime = now
}

// handleMouseButton handles mouse button events for panning.
func (eh *EventHandlers) handleMouseButton(button glfw.MouseButton, action glfw.Action) {
	if button != glfw.MouseButtonLeft {
		return // nothing to do
	}

	switch action {
	case glfw.Press:
		eh.startPanning()
	case glfw.Release:
		eh.stopPanning()
	}
}

// handleCursorPos handles mouse movement for panning.
func (eh *EventHandlers) handleCursorPos(xpos, ypos float64) {
	eh.updatePanning(xpos, ypos)
}

// startPanning starts the panning operation.
func (eh *EventHandlers) startPanning() {
	eh.isDragging = true
	eh.dragStartMouseX, eh.dragStartMouseY = eh.application.Window.GetCursorPos()
	view := eh.application.View
	eh.dragStartPanX, eh.dragStartPanY = view.PanX, view.PanY
}

// stopPanning ends panning operation.
func (eh *EventHandlers) stopPanning() {
	eh.isDragging = false
}

// updatePanning updates pan position based on mouse movement.
func (eh *EventHandlers) updatePanning(xpos, ypos float64) {
	if !eh.isDragging {
		return
	}

	scaleX, scaleY := eh.application.Window.GetContentScale()
	dx := (xpos - eh.dragStartMouseX) * float64(scaleX)
	dy := (ypos - eh.dragStartMouseY) * float64(scaleY)

	eh.application.View.SetPan(eh.dragStartPanX+dx, eh.dragStartPanY+dy)
	eh.updateRendererView() // direct update for maximum smoothness
}

// performZoom handles zoom operations with cursor-centered zooming.
func (eh *EventHandlers) performZoom(zoomDelta float64) {
	wnd := eh.application.Window
	cw, ch := wnd.GetFramebufferSize()
	centerX, centerY := float64(cw)/2, float64(ch)/2
	mouseX, mouseY := wnd.GetCursorPos()

	scaleX, scaleY := wnd.GetContentScale()
	fbMouseX, fbMouseY := mouseX*float64(scaleX), mouseY*float64(scaleY)

	// Apply zoom with responsive increments for smooth zooming
	zoomFactor := 1.0 + zoomDelta*0.15
	view := eh.application.View
	oldZoom := view.Zoom

	// Cursor position relative to viewport center.
	cursorOffsetX, cursorOffsetY := fbMouseX-centerX, fbMouseY-centerY

	// What canvas point (relative to center) is under the cursor right now?
	canvasOffsetX, canvasOffsetY := (cursorOffsetX-view.PanX)/oldZoom, (cursorOffsetY-view.PanY)/oldZoom

	// Update zoom.
	view.SetZoom(oldZoom * zoomFactor)

	// Calculate new pan to keep that canvas point at the cursor.
	newZoom := view.Zoom
	view.SetPan(cursorOffsetX-canvasOffsetX*newZoom, cursorOffsetY-canvasOffsetY*newZoom)
	eh.updateRendererView() // direct update for maximum smoothness
}

// parseInput consumes the numeric input buffer as a trials-per-burst
// override.
func (eh *EventHandlers) parseInput() *int {
	input := eh.inputBuffer
	eh.inputBuffer = ""
	if input == "" {
		return nil
	}
	if val, err := strconv.Atoi(input); err == nil && val > 0 {
		return &val
	}
	return nil
}
