package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌─┐┬  ┬  ┌─┐┬  ┌─┐┬ ┬
  │  ├┤ │  │  ├┤ │  │ ││││
  └─┘└─┘┴─┘┴─┘└  ┴─┘└─┘└┴┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "cellflow",
		Short: "Reactive dataflow propagation for Go",
		Long: `Cellflow is a reactive dataflow engine.

Scalar cells, reactive sequences and derived views propagate
changes through batched, glitch-free runs. This CLI ships:

  • A scripted demo graph that prints propagation as it happens
  • An inspector server with a stats snapshot, prometheus
    metrics and a WebSocket live feed`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		demoCmd(),
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// printBanner prints the cellflow ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
