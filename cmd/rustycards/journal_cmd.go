package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/TrevorCOConnor/rusty-cards/internal/journal"
)

var journalPrune bool

var journalCmd = &cobra.Command{
	Use:   "journal [game-id]",
	Short: "Inspect the event journal",
	Long: `Without arguments lists every journaled game. With a game ID prints that
game's events in order; --prune deletes them instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		store, err := journal.NewStore(cfg.Journal.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer w.Flush()

		if len(args) == 0 {
			games, err := store.Games(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "GAME\tEVENTS\tSTARTED\tLAST\tWINNER")
			for _, g := range games {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", g.GameID, g.Events,
					g.StartedAt.Format(time.RFC3339), g.LastAt.Format(time.RFC3339), g.Winner)
			}
			return nil
		}

		if journalPrune {
			n, err := store.Prune(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "deleted %d events of %s\n", n, args[0])
			return nil
		}

		entries, err := store.List(ctx, args[0])
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("no events journaled for %s", args[0])
		}
		fmt.Fprintln(w, "SEQ\tTYPE\tACTOR\tSOURCE\tTARGET\tAMOUNT\tDETAIL")
		for _, e := range entries {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n", e.Seq, e.Type, e.Actor, e.Source, e.Target, e.Amount, e.Detail)
		}
		return nil
	},
}

func init() {
	journalCmd.Flags().BoolVar(&journalPrune, "prune", false, "delete the game's events")
}
