package main

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/irfansharif/wyckoff/internal/optimise"
	"github.com/irfansharif/wyckoff/internal/packing"
	"github.com/irfansharif/wyckoff/internal/shape"
	"github.com/irfansharif/wyckoff/internal/wallpaper"
)

// Job is the YAML description of a single packing search: the shape,
// the wallpaper group constraining it, and the annealing schedule.
//
//	shape:
//	  kind: polygon
//	  radii: [1, 1, 1, 1]
//	  symmetry: 4
//	group: p2mg
//	replicates: 8
//	schedule:
//	  steps: 2000
//	output:
//	  json: best.json
//	  svg: best.svg
type Job struct {
	Shape      ShapeSpec    `yaml:"shape"`
	Group      string       `yaml:"group"`
	Replicates int          `yaml:"replicates"`
	Schedule   ScheduleSpec `yaml:"schedule"`
	Output     OutputSpec   `yaml:"output"`
}

// ShapeSpec describes the shape being packed. Kind selects which of
// the remaining fields apply.
type ShapeSpec struct {
	Kind string `yaml:"kind"` // polygon, trimer, circle, lj-trimer, or lj-circle

	// Polygon parameters: the distance from the center to each vertex,
	// and the rotational symmetry order.
	Radii    []float64 `yaml:"radii"`
	Symmetry int       `yaml:"symmetry"`

	// Trimer parameters. Angle is in degrees; Cutoff only applies to
	// the lj-trimer kind.
	Radius   float64 `yaml:"radius"`
	Angle    float64 `yaml:"angle"`
	Distance float64 `yaml:"distance"`
	Cutoff   float64 `yaml:"cutoff"`
}

// ScheduleSpec overrides parts of the default annealing schedule. Zero
// fields keep their defaults.
type ScheduleSpec struct {
	KTStart     float64 `yaml:"kt_start"`
	KTFinish    float64 `yaml:"kt_finish"`
	KTRatio     float64 `yaml:"kt_ratio"`
	MaxStepSize float64 `yaml:"max_step_size"`
	Steps       int     `yaml:"steps"`
	InnerSteps  int     `yaml:"inner_steps"`
	Convergence float64 `yaml:"convergence"`
}

// OutputSpec names where the best result lands. Empty paths skip that
// output; "-" writes to stdout.
type OutputSpec struct {
	JSON string `yaml:"json"`
	SVG  string `yaml:"svg"`
}

// loadJob reads and validates a job file.
func loadJob(path string) (Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return Job{}, err
	}
	defer f.Close()

	var job Job
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&job); err != nil {
		return Job{}, fmt.Errorf("parsing job file %s: %w", path, err)
	}

	if job.Group == "" {
		return Job{}, fmt.Errorf("job file %s: missing group", path)
	}
	if job.Replicates == 0 {
		job.Replicates = 1
	}
	return job, nil
}

// BuildShape constructs the job's shape.
func (j Job) BuildShape() (*shape.Shape, error) {
	spec := j.Shape
	angle := spec.Angle * math.Pi / 180

	switch spec.Kind {
	case "polygon":
		return shape.FromRadial("Polygon", spec.Radii, spec.Symmetry)
	case "trimer":
		return shape.FromTrimer(spec.Radius, angle, spec.Distance), nil
	case "circle":
		return shape.Circle(), nil
	case "lj-trimer":
		return shape.LJTrimer(spec.Radius, angle, spec.Distance, spec.Cutoff), nil
	case "lj-circle":
		return shape.LJCircle(spec.Cutoff), nil
	default:
		return nil, fmt.Errorf("unknown shape kind %q (want polygon, trimer, circle, lj-trimer, or lj-circle)", spec.Kind)
	}
}

// BuildState constructs the dilute starting state for the job.
func (j Job) BuildState() (*packing.State, error) {
	s, err := j.BuildShape()
	if err != nil {
		return nil, err
	}
	group, err := wallpaper.Get(j.Group)
	if err != nil {
		return nil, err
	}
	return packing.FromGroup(s, group)
}

// BuildConfig overlays the job's schedule on the defaults.
func (j Job) BuildConfig(seed int64) optimise.Config {
	cfg := optimise.DefaultConfig()
	cfg.Seed = seed

	s := j.Schedule
	if s.KTStart > 0 {
		cfg.KTStart = s.KTStart
	}
	if s.KTFinish > 0 {
		cfg.KTFinish = s.KTFinish
	}
	if s.KTRatio > 0 {
		cfg.KTRatio = s.KTRatio
	}
	if s.MaxStepSize > 0 {
		cfg.MaxStepSize = s.MaxStepSize
	}
	if s.Steps > 0 {
		cfg.Steps = s.Steps
	}
	if s.InnerSteps > 0 {
		cfg.InnerSteps = s.InnerSteps
	}
	if s.Convergence > 0 {
		cfg.Convergence = s.Convergence
	}
	return cfg
}
