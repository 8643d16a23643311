package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/TrevorCOConnor/rusty-cards/internal/game/effects"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the heroes and cards games can use",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		cat, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer w.Flush()

		heroIDs := make([]string, 0, len(cat.Heroes))
		for id := range cat.Heroes {
			heroIDs = append(heroIDs, id)
		}
		sort.Strings(heroIDs)
		fmt.Fprintln(w, "HERO\tNAME\tHEALTH\tINTELLECT")
		for _, id := range heroIDs {
			h := cat.Heroes[id]
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", h.ID, h.Name, h.Health, h.Intellect)
		}
		fmt.Fprintln(w)

		hooked := make(map[string]bool)
		for _, kind := range effects.NewDefaultRegistry(cat).Kinds() {
			hooked[kind] = true
		}
		fmt.Fprintln(w, "CARD\tNAME\tTYPE\tCOST\tCOLOR\tATTACK\tDEFENSE\tKEYWORDS")
		for _, id := range cat.CardIDs() {
			c, _ := cat.Card(id)
			var keywords []string
			if c.GoAgain {
				keywords = append(keywords, "go again")
			}
			if hooked[c.ID] {
				keywords = append(keywords, "hooks")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
				c.ID, c.Name, c.Type, c.Cost, c.Color, stat(c.Attack), stat(c.Defense), strings.Join(keywords, ","))
		}
		return nil
	},
}

func stat(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}
