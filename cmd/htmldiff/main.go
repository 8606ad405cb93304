package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/htmldiff/internal/errors"
)

// Version information set at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var noColor bool

	rootCmd := &cobra.Command{
		Use:   "htmldiff",
		Short: "Minimal-diff patches between two HTML documents",
		Long: `htmldiff computes the patch stream that transforms one HTML document
into another, matching subtrees with a GumTree-style structural hash and
generating Insert/Move/Delete/UpdateProps/SetText operations instead of a
full re-render.

  htmldiff diff old.html new.html   one-shot diff, prints the patch list
  htmldiff serve <dir>              live-reload server over a static tree`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				errors.DisableColors()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		serveCmd(),
		diffCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		if ve, ok := err.(*errors.VangoError); ok {
			errors.PrintError(ve)
		} else {
			errorMsg("%s", err)
		}
		os.Exit(1)
	}
}

func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
