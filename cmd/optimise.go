package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/irfansharif/wyckoff/internal/optimise"
	"github.com/irfansharif/wyckoff/internal/svgout"
)

var optimiseArgs struct {
	job        string
	replicates int
	steps      int
	jsonOut    string
	svgOut     string
}

var optimiseCmd = &cobra.Command{
	Use:   "optimise",
	Short: "Run the annealing search described by a job file",
	Long: `Run the annealing search described by a job file.

Independent replicates anneal in parallel from the same dilute starting
configuration, each with its own seed; the best-scoring result is kept
and written to the configured outputs. Set WYCKOFF_SEED to pin the run.`,
	RunE: runOptimise,
}

func init() {
	optimiseCmd.Flags().StringVarP(&optimiseArgs.job, "job", "j", "", "path to the YAML job file")
	optimiseCmd.Flags().IntVarP(&optimiseArgs.replicates, "replicates", "r", 0, "override the job's replicate count")
	optimiseCmd.Flags().IntVar(&optimiseArgs.steps, "steps", 0, "override the job's Monte-Carlo step budget")
	optimiseCmd.Flags().StringVar(&optimiseArgs.jsonOut, "json", "", "override the job's JSON output path ('-' for stdout)")
	optimiseCmd.Flags().StringVar(&optimiseArgs.svgOut, "svg", "", "override the job's SVG output path ('-' for stdout)")
	_ = optimiseCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(optimiseCmd)
}

func runOptimise(cmd *cobra.Command, args []string) error {
	job, err := loadJob(optimiseArgs.job)
	if err != nil {
		return err
	}
	if optimiseArgs.replicates > 0 {
		job.Replicates = optimiseArgs.replicates
	}
	if optimiseArgs.steps > 0 {
		job.Schedule.Steps = optimiseArgs.steps
	}
	if optimiseArgs.jsonOut != "" {
		job.Output.JSON = optimiseArgs.jsonOut
	}
	if optimiseArgs.svgOut != "" {
		job.Output.SVG = optimiseArgs.svgOut
	}

	state, err := job.BuildState()
	if err != nil {
		return err
	}
	cfg := job.BuildConfig(seed())

	log.Printf("annealing %s in %s: %d replicates, %d steps each",
		state.Shape().Name, state.Group().Name, job.Replicates, cfg.Steps)

	best, score, err := optimise.Replicates(cmd.Context(), state, cfg, job.Replicates)
	if err != nil {
		return err
	}
	log.Printf("best score %.6f with %s", score, best.Cell())

	if err := writeOutput(job.Output.JSON, func(w io.Writer) error {
		return best.WriteJSON(w)
	}); err != nil {
		return fmt.Errorf("writing JSON output: %w", err)
	}
	if err := writeOutput(job.Output.SVG, func(w io.Writer) error {
		return svgout.Write(w, best)
	}); err != nil {
		return fmt.Errorf("writing SVG output: %w", err)
	}
	return nil
}

// writeOutput writes through fn to the named path, stdout for "-", or
// nowhere for "".
func writeOutput(path string, fn func(io.Writer) error) error {
	switch path {
	case "":
		return nil
	case "-":
		return fn(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
