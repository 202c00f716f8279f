// Package app wires the interactive annealing session together: the
// GLFW window, the renderer, the view state, and the packing state
// being optimised.
package app

import (
	"log"
	"math/rand"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/irfansharif/wyckoff/internal/optimise"
	"github.com/irfansharif/wyckoff/internal/packing"
	"github.com/irfansharif/wyckoff/internal/palette"
	"github.com/irfansharif/wyckoff/internal/render"
)

// defaultBurstSteps is the number of Monte-Carlo trials run per
// keypress (or per repeat interval while held).
const defaultBurstSteps = 500

// ktDecayPerBurst cools the session between bursts, so holding the
// anneal key walks the full schedule.
const ktDecayPerBurst = 0.95

// App encapsulates the main application state and logic.
type App struct {
	Window   *glfw.Window
	Renderer *render.Renderer
	View     *View
	State    *packing.State
	Palette  palette.Palette

	initial packing.Snapshot // starting configuration, for resets
	seed    int64
	kt      float64
	burst   int
	bursts  int
	trials  int
	score   float64
}

// NewApp creates a new application instance around a scorable starting
// state.
func NewApp(window *glfw.Window, state *packing.State, view *View, seed int64) *App {
	score, err := state.Score()
	if err != nil {
		log.Fatalf("Starting configuration is unscorable: %v", err)
	}

	return &App{
		Window:   window,
		Renderer: render.NewRenderer(),
		View:     view,
		State:    state,
		Palette:  palette.ForCopies(state.TotalShapes(), rand.New(rand.NewSource(seed))),
		initial:  state.Snapshot(),
		seed:     seed,
		kt:       optimise.DefaultConfig().KTStart,
		burst:    defaultBurstSteps,
		score:    score,
	}
}

// Anneal runs one burst of Monte-Carlo trials at the session's current
// temperature, then cools. A non-nil steps overrides the burst size for
// this and later bursts.
func (app *App) Anneal(steps *int) {
	if steps != nil && *steps > 0 {
		app.burst = *steps
	}
	app.runBurst(app.kt)
	app.kt *= ktDecayPerBurst
}

// Quench runs one burst at zero temperature: only improving moves are
// accepted. The session temperature is left alone.
func (app *App) Quench() {
	app.runBurst(0)
}

func (app *App) runBurst(kt float64) {
	cfg := optimise.DefaultConfig()
	cfg.KTStart = kt
	cfg.KTFinish = kt
	cfg.Steps = app.burst
	cfg.InnerSteps = app.burst
	cfg.Seed = app.seed + int64(app.bursts)
	app.bursts++
	app.trials += app.burst

	score, err := cfg.Build().OptimiseState(app.State)
	if err != nil {
		log.Printf("WARNING: annealing burst failed: %v", err)
		return
	}
	app.score = score
}

// Reset restores the starting configuration and reheats the session.
func (app *App) Reset() {
	if err := app.State.Restore(app.initial); err != nil {
		log.Fatalf("Failed to restore starting configuration: %v", err)
	}
	app.kt = optimise.DefaultConfig().KTStart
	app.bursts = 0
	app.trials = 0
	app.score = app.initial.Score
}

// PrepareRenderer regenerates and uploads the scene geometry.
func (app *App) PrepareRenderer(cw, ch int) {
	app.Renderer.SetView(cw, ch, app.View.Zoom, app.View.PanX, app.View.PanY)
	if err := app.Renderer.Prepare(app.State, app.Palette, cw, ch); err != nil {
		log.Fatalf("Failed to prepare renderer: %v", err)
	}
}

// Score returns the score after the most recent burst.
func (app *App) Score() float64 { return app.score }

// Temperature returns the session's current annealing temperature.
func (app *App) Temperature() float64 { return app.kt }

// Trials returns the total number of Monte-Carlo trials run since the
// last reset.
func (app *App) Trials() int { return app.trials }
