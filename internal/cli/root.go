// Package cli implements the dataproject command line.
package cli

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

// ExitCode is the process exit status returned by Run.
type ExitCode int

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

// EnvVar sets the default configuration environment of the run command.
const EnvVar = "DATAPROJECT_ENV"

// Version is set at build time.
var Version = "dev"

// Run executes the command line and reports whether it succeeded.
func Run() ExitCode {
	if err := NewRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		return exitCodeError
	}

	return exitCodeSuccess
}

// NewRootCmd builds the command tree. Command output goes to stdout, logs to stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "dataproject",
		Short:        "Run the data pipelines of the project.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "set debug logging level")

	rootCmd.AddCommand(
		NewRunCmd().Command(),
		NewPipelinesCmd().Command(),
		NewVersionCmd().Command(),
	)

	return rootCmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}
