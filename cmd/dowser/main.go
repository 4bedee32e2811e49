// Command dowser exposes the engine's clustering and tuning subsystems for
// inspection from the shell: compute tree distances between elements of a
// page, cluster selector matches, and anneal distance coefficients against
// a labeled sample corpus.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verbose bool

func main() {
	root := &cobra.Command{
		Use:          "dowser",
		Short:        "Inspect and tune the dowser page-extraction engine",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newDistanceCommand())
	root.AddCommand(newClusterCommand())
	root.AddCommand(newTuneCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
