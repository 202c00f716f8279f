package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/cobra"

	"github.com/irfansharif/wyckoff/internal/app"
	"github.com/irfansharif/wyckoff/internal/render"
)

var runtimeLogger *log.Logger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("WYCKOFF_DEBUG_RUNTIME") == "1" {
		runtimeLogger = log.New(os.Stdout, "[runtime] ", log.Ltime|log.Lmsgprefix)
	}
}

var viewArgs struct {
	job string
}

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Anneal a job interactively in an OpenGL window",
	Long: `Anneal a job interactively in an OpenGL window.

Hold Space to anneal, Shift+Space to quench (zero-temperature descent),
R resets to the dilute starting configuration. Type digits before Space
to change the trials per burst. Pan with the mouse or H/J/K/L, zoom
with the scroll wheel.`,
	RunE: runView,
}

func init() {
	viewCmd.Flags().StringVarP(&viewArgs.job, "job", "j", "", "path to the YAML job file")
	_ = viewCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(viewCmd)
}

func makeTitle(application *app.App, fps, avgFrameTime float64, renderStats render.Stats) string {
	return fmt.Sprintf("Wyckoff %s in %s (score %.4f, kt %.2e, %d trials | %.1f FPS, %.2fms/frame, %d vertices, %.2fµs/draw, %.2fms/prepare)",
		application.State.Shape().Name,
		application.State.Group().Name,
		application.Score(),
		application.Temperature(),
		application.Trials(),
		fps,
		avgFrameTime,
		renderStats.Vertices,
		renderStats.LastDrawTimeUs,
		renderStats.LastPrepareTimeMs,
	)
}

func runView(cmd *cobra.Command, args []string) error {
	job, err := loadJob(viewArgs.job)
	if err != nil {
		return err
	}
	state, err := job.BuildState()
	if err != nil {
		return err
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	defer glfw.Terminate()

	// Configure GLFW window hints - use OpenGL 4.1.
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)

	window, err := glfw.CreateWindow(
		1280, // width
		960,  // height
		"Wyckoff",
		nil, nil,
	)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	cw, ch := window.GetFramebufferSize()
	application := app.NewApp(window, state, app.NewView(cw, ch), seed())
	application.PrepareRenderer(cw, ch)

	eventHandlers := NewEventHandlers(application)

	frameCount, frameTimeSum := 0, 0.0
	lastFPSUpdate := time.Now()

	for !application.Window.ShouldClose() {
		frameStart := time.Now()

		eventHandlers.handleContinuousAnnealing()
		eventHandlers.handleContinuousPanning()

		w, h := application.Window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(w), int32(h))
		gl.ClearColor(1, 1, 1, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		application.Renderer.Draw()
		application.Window.SwapBuffers()
		glfw.PollEvents()

		frameTime := time.Since(frameStart).Seconds() * 1000.0 // ms
		frameTimeSum += frameTime

		frameCount++
		now := time.Now()
		if now.Sub(lastFPSUpdate) >= time.Second {
			fps := float64(frameCount) / now.Sub(lastFPSUpdate).Seconds()
			avgFrameTime := frameTimeSum / float64(frameCount)
			frameCount, frameTimeSum = 0, 0.0
			lastFPSUpdate = now

			renderStats := application.Renderer.Stats()
			application.Window.SetTitle(
				makeTitle(application, fps, avgFrameTime, renderStats),
			)

			runtimeLogger.Printf("score: %.6f, kt: %.3e, trials: %d", application.Score(), application.Temperature(), application.Trials())
			runtimeLogger.Printf("frame rate: %.1f FPS (%.2f ms/frame), %d vertices", fps, avgFrameTime, renderStats.Vertices)
			runtimeLogger.Printf("render time: %.2f µs (last draw), %.2f ms (last prepare)", renderStats.LastDrawTimeUs, renderStats.LastPrepareTimeMs)
		}
	}
	return nil
}
