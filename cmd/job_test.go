package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJob(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadJob(t *testing.T) {
	path := writeJob(t, `
shape:
  kind: polygon
  radii: [1, 1, 1, 1]
  symmetry: 4
group: p2mg
replicates: 8
schedule:
  steps: 2000
output:
  json: best.json
`)

	job, err := loadJob(path)
	require.NoError(t, err)
	assert.Equal(t, "p2mg", job.Group)
	assert.Equal(t, 8, job.Replicates)
	assert.Equal(t, 2000, job.Schedule.Steps)
	assert.Equal(t, "best.json", job.Output.JSON)
	assert.Empty(t, job.Output.SVG)
}

func TestLoadJobDefaultsReplicates(t *testing.T) {
	path := writeJob(t, `
shape:
  kind: circle
group: p1
`)

	job, err := loadJob(path)
	require.NoError(t, err)
	assert.Equal(t, 1, job.Replicates)
}

func TestLoadJobRejectsUnknownFields(t *testing.T) {
	path := writeJob(t, `
group: p1
shape:
  kind: circle
temperature: 42
`)

	_, err := loadJob(path)
	assert.Error(t, err)
}

func TestLoadJobRequiresGroup(t *testing.T) {
	path := writeJob(t, `
shape:
  kind: circle
`)

	_, err := loadJob(path)
	assert.Error(t, err)
}

func TestBuildStatePlacesShape(t *testing.T) {
	job := Job{
		Shape: ShapeSpec{Kind: "trimer", Radius: 0.7, Angle: 120, Distance: 1},
		Group: "p2",
	}

	state, err := job.BuildState()
	require.NoError(t, err)
	assert.Equal(t, 2, state.TotalShapes())
	assert.Equal(t, "Trimer", state.Shape().Name)
}

func TestBuildShapeRejectsUnknownKind(t *testing.T) {
	job := Job{Shape: ShapeSpec{Kind: "pentomino"}, Group: "p1"}
	_, err := job.BuildShape()
	assert.ErrorContains(t, err, "pentomino")
}

func TestBuildConfigOverlaysDefaults(t *testing.T) {
	job := Job{
		Group: "p1",
		Schedule: ScheduleSpec{
			Steps:       5000,
			Convergence: 1e-5,
		},
	}

	cfg := job.BuildConfig(42)
	assert.Equal(t, 5000, cfg.Steps)
	assert.Equal(t, 1e-5, cfg.Convergence)
	assert.Equal(t, int64(42), cfg.Seed)
	// Untouched fields keep their defaults.
	assert.Equal(t, 0.1, cfg.KTStart)
	assert.Equal(t, 0.001, cfg.KTFinish)
	assert.Equal(t, 0.01, cfg.MaxStepSize)
}
