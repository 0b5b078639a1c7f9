// Command scorecard replays a ball log file through the scoring engine and prints the
// scorecards.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "scorecard",
		Short: "Offline cricket scorecards from ball logs",
		Long: `scorecard rebuilds a match from its ball-by-ball log.

Commands:
  replay    Replay a YAML or JSON match file and print the scorecards`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newReplayCommand())
	return rootCmd
}

func newReplayCommand() *cobra.Command {
	var innings int

	cmd := &cobra.Command{
		Use:   "replay <match-file>",
		Short: "Replay a match file and print batting, bowling, fall of wickets and partnerships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if innings < 0 || innings > 2 {
				return fmt.Errorf("--innings must be 1 or 2, got %d", innings)
			}
			mf, err := loadMatchFile(args[0])
			if err != nil {
				return err
			}
			m, err := replay(mf)
			if err != nil {
				return err
			}
			return newRenderer(cmd.OutOrStdout(), mf).render(m, innings)
		},
	}

	cmd.Flags().IntVarP(&innings, "innings", "i", 0, "print only this innings (1 or 2)")
	return cmd
}
