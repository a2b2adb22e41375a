package main

import (
	"log/slog"
	"os"

	"github.com/dgallion1/codedoc/internal/scanner"
	"github.com/spf13/cobra"
)

var (
	verbose  bool
	maxDepth int
)

var rootCmd = &cobra.Command{
	Use:   "codedoc",
	Short: "codedoc - C/C++ documentation scanner",
	Long: `codedoc scans C and C++ sources for declarations and their comments and
keeps the result as an XML documentation tree that later runs update in place.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log scanner decisions to stderr")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", scanner.DefaultMaxDepth, "Maximum nesting depth of declaration bodies")
}

// newLogger returns a text logger on stderr; debug level with --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
