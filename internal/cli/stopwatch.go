package cli

import (
	"github.com/spf13/cobra"
)

func newStopwatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stopwatch",
		Short: "Stopwatch commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <code>",
		Short: "Show the stopwatch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Stopwatch

			if err := client.Get(boardPath(args[0])+"/stopwatch", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	})

	for _, action := range []struct{ name, short string }{
		{"start", "Start the stopwatch"},
		{"stop", "Stop the stopwatch"},
		{"reset", "Reset the stopwatch to zero"},
	} {
		cmd.AddCommand(newStopwatchActionCmd(action.name, action.short))
	}

	return cmd
}

func newStopwatchActionCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <code>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Stopwatch

			if err := client.Post(boardPath(args[0])+"/stopwatch/"+action, nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
