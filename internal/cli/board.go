package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Board management commands",
	}

	cmd.AddCommand(newBoardCreateCmd())
	cmd.AddCommand(newBoardGetCmd())
	cmd.AddCommand(newBoardListCmd())
	cmd.AddCommand(newBoardDeleteCmd())

	return cmd
}

func newBoardCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a new board with the default roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Board

			if err := client.Post("/api/v1/boards", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newBoardGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Get board details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Board

			if err := client.Get(boardPath(args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newBoardListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active boards",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result BoardList

			if err := client.Get("/api/v1/boards", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newBoardDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <code>",
		Short: "Delete a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := normalizeCode(args[0])

			if err := client.Delete(boardPath(code), nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Deleted board %s", code))
			return nil
		},
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func boardPath(code string) string {
	return "/api/v1/boards/" + normalizeCode(code)
}
