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
  ╦  ╦ ╦╔╦╗╔═╗╔╗╔
  ║  ║ ║║║║║╣ ║║║
  ╩═╝╚═╝╩ ╩╚═╝╝╚╝
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "lumen",
		Short: "Reactive desktop applications in Go",
		Long: `Lumen builds desktop applications from reactive Go components.

Components render markup, signals drive fine-grained updates, and a
GPU pipeline paints the result into native windows. Features include:

  • Hook-based component state (signals, memos, effects)
  • Automatic dependency tracking
  • Batched, parent-before-child re-rendering
  • Native windows, menus, and transparent surfaces
  • Devtools server with live component tree and metrics`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		createCmd(),
		devCmd(),
		inspectCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// printBanner prints the Lumen ASCII art banner.
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
