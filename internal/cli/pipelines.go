package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/askiada/go-dataproject/internal/pipelines"
)

// PipelinesCmd lists the registered pipelines.
type PipelinesCmd struct{}

func NewPipelinesCmd() *PipelinesCmd {
	return &PipelinesCmd{}
}

func (c *PipelinesCmd) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "pipelines",
		Short: "List the registered pipelines and their nodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipes, err := pipelines.Register(io.Discard, nil)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(pipes))
			for name := range pipes {
				names = append(names, name)
			}
			sort.Strings(names)

			out := cmd.OutOrStdout()
			for _, name := range names {
				fmt.Fprintf(out, "%s\n", name)
				for _, line := range strings.Split(strings.TrimRight(pipes[name].Describe(), "\n"), "\n") {
					fmt.Fprintf(out, "  %s\n", line)
				}
			}

			return nil
		},
	}
}
