package cli

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/go-dataproject/internal/pipelines"
	"github.com/askiada/go-dataproject/internal/session"
)

// RunCmd runs a pipeline through a session.
type RunCmd struct{}

func NewRunCmd() *RunCmd {
	return &RunCmd{}
}

func (c *RunCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
			if err != nil {
				return errors.Wrap(err, "failed to get verbose flag")
			}

			opts := session.Options{
				Stdout: cmd.OutOrStdout(),
				Logger: newLogger(cmd.ErrOrStderr(), verbose),
			}

			flags := cmd.Flags()
			if opts.Pipeline, err = flags.GetString("pipeline"); err != nil {
				return errors.Wrap(err, "failed to get pipeline flag")
			}
			if opts.Env, err = flags.GetString("env"); err != nil {
				return errors.Wrap(err, "failed to get env flag")
			}
			if opts.ConfSource, err = flags.GetString("conf-source"); err != nil {
				return errors.Wrap(err, "failed to get conf-source flag")
			}
			if opts.Concurrency, err = flags.GetInt("runner-concurrency"); err != nil {
				return errors.Wrap(err, "failed to get runner-concurrency flag")
			}
			if opts.NodeNames, err = flags.GetStringSlice("nodes"); err != nil {
				return errors.Wrap(err, "failed to get nodes flag")
			}
			if opts.Tags, err = flags.GetStringSlice("tags"); err != nil {
				return errors.Wrap(err, "failed to get tags flag")
			}
			if opts.GraphFile, err = flags.GetString("graph"); err != nil {
				return errors.Wrap(err, "failed to get graph flag")
			}
			if opts.MetricsFile, err = flags.GetString("metrics"); err != nil {
				return errors.Wrap(err, "failed to get metrics flag")
			}
			params, err := flags.GetStringToString("params")
			if err != nil {
				return errors.Wrap(err, "failed to get params flag")
			}
			if len(params) > 0 {
				opts.RuntimeParams = make(map[string]any, len(params))
				for k, v := range params {
					opts.RuntimeParams[k] = v
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			outputs, err := session.Run(ctx, opts)
			if err != nil {
				opts.Logger.Error("Pipeline failed", "error", err)

				return err
			}

			printOutputs(cmd, outputs)

			return nil
		},
	}

	cmd.Flags().String("pipeline", pipelines.DefaultPipeline, "name of the pipeline to run")
	cmd.Flags().String("env", os.Getenv(EnvVar), "configuration environment, $"+EnvVar+" by default")
	cmd.Flags().String("conf-source", session.DefaultConfSource, "configuration directory")
	cmd.Flags().Int("runner-concurrency", 1, "number of nodes run at the same time")
	cmd.Flags().StringSlice("nodes", nil, "run only these nodes")
	cmd.Flags().StringSlice("tags", nil, "run only the nodes with any of these tags")
	cmd.Flags().String("graph", "", "write a DOT drawing of the run to this file")
	cmd.Flags().String("metrics", "", "write Prometheus metrics of the run to this file")
	cmd.Flags().StringToString("params", nil, "runtime parameters, key=value")

	return cmd
}

func printOutputs(cmd *cobra.Command, outputs map[string]any) {
	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", name, outputs[name])
	}
}
