package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Roster commands",
		Long: `Roster commands.

A player is addressed either by ID or by its 1-based position in the
roster as currently displayed.`,
	}

	cmd.AddCommand(newPlayerListCmd())
	cmd.AddCommand(newPlayerAddCmd())
	cmd.AddCommand(newPlayerScoreCmd())
	cmd.AddCommand(newPlayerRemoveCmd())
	cmd.AddCommand(newPlayerStatsCmd())

	return cmd
}

func newPlayerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <code>",
		Short: "List the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Roster

			if err := client.Get(boardPath(args[0])+"/players", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayerAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <code> <name>",
		Short: "Add a player with a score of 0",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": args[1]}
			var result Player

			if err := client.Post(boardPath(args[0])+"/players", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayerScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <code> <player> <delta>",
		Short: "Change a player's score by delta",
		Example: `  scoreboard player score AB12CD 2 5
  scoreboard player score AB12CD 2 -- -1`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("delta must be an integer: %q", args[2])
			}

			path, err := playerPath(args[0], args[1])
			if err != nil {
				return err
			}

			req := map[string]int{"delta": delta}
			var result Player

			if err := client.Post(path+"/score", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayerRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <code> <player>",
		Short: "Remove a player from the roster",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := playerPath(args[0], args[1])
			if err != nil {
				return err
			}

			var result Player

			if err := client.Delete(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Removed %s (%d)", result.Name, result.Score))
			return nil
		},
	}
}

func newPlayerStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <code>",
		Short: "Show player count and total points",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Stats

			if err := client.Get(boardPath(args[0])+"/stats", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

// playerPath resolves a player reference to its API path. Numeric references
// are 1-based positions; anything else is a player ID.
func playerPath(code, ref string) (string, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 {
			return "", fmt.Errorf("position must be 1 or greater, got %d", n)
		}
		return fmt.Sprintf("%s/positions/%d", boardPath(code), n-1), nil
	}
	return boardPath(code) + "/players/" + ref, nil
}
