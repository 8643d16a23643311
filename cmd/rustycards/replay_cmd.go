package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TrevorCOConnor/rusty-cards/internal/game"
)

var replayAt int

var replayCmd = &cobra.Command{
	Use:   "replay <game-id>",
	Short: "Print a recorded game state by state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		replay, err := game.LoadReplayFromFile(cfg.Replay.Dir, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if replayAt >= 0 {
			view := replay.StateAt(replayAt)
			if view == nil {
				return fmt.Errorf("state %d out of range, replay has %d", replayAt, replay.Size())
			}
			sum, err := view.Checksum()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%4d %s\n     checksum %s\n", replayAt, view.Summary(), sum.Hash)
			return nil
		}

		fmt.Fprintf(out, "replay %s: %d states\n", replay.GameID, replay.Size())
		replay.Start()
		for i := 0; ; i++ {
			view := replay.Next()
			if view == nil {
				break
			}
			fmt.Fprintf(out, "%4d %s\n", i, view.Summary())
		}
		return nil
	},
}

func init() {
	replayCmd.Flags().IntVar(&replayAt, "at", -1, "print only the state at this index, with its checksum")
}
