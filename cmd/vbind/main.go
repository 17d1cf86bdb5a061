package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vbind/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦  ╦┌┐ ┬┌┐┌┌┬┐
  ╚╗╔╝├┴┐││││ ││
   ╚╝ └─┘┴┘└┘─┴┘
`

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	config   string
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "vbind",
		Short: "Reactive data binding for HTML templates",
		Long: `vbind binds HTML templates to reactive data.

Templates use {{ path }} text markers, v-value and v-model
directives and @event="method(arg)" handlers. The CLI renders
bound templates, checks them for errors and serves a live
preview over WebSocket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "Config file (default ./vbind.yaml or ./vbind.json)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(
		renderCmd(flags),
		checkCmd(flags),
		serveCmd(flags),
		versionCmd(),
	)

	return rootCmd
}

// printBanner prints the vbind banner.
func printBanner(cmd *cobra.Command) {
	fmt.Fprint(cmd.OutOrStdout(), banner)
}

// success prints a success message.
func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", fmt.Sprintf(format, args...))
}
