// Command wyckoff searches for dense two-dimensional crystal packings:
// a shape is placed on the Wyckoff sites of a wallpaper group and the
// cell and site parameters are annealed to maximise the packing
// fraction (or minimise the Lennard-Jones energy, for soft shapes).
package main

import (
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

const logFlags = log.Ltime | log.Lshortfile

func init() {
	// OpenGL contexts are tied to specific OS threads - let's pin to just one.
	runtime.LockOSThread()
	log.SetFlags(logFlags)
}

var rootCmd = &cobra.Command{
	Use:           "wyckoff",
	Short:         "Symmetry-constrained crystal packing search",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

// seed returns the run seed: WYCKOFF_SEED if set, the wall clock
// otherwise.
func seed() int64 {
	seedStr := os.Getenv("WYCKOFF_SEED")
	now := time.Now().Unix()
	if seedStr == "" {
		return now
	}
	seed, err := strconv.ParseInt(seedStr, 10, 64)
	if err != nil {
		log.Fatalf("Invalid WYCKOFF_SEED value '%s': %v", seedStr, err)
	}
	return seed
}
