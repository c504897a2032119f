package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/vocabdrill/internal/spacedrep"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the item that would be presented next",
	Long: "Runs the queue selection for a language without changing anything: the oldest due item,\n" +
		"else the earliest new item, else how long until the next review.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		lang := e.cfg.Language
		sel, err := e.svc.NextItem(cmd.Context(), lang)
		if err != nil {
			return err
		}

		switch {
		case sel.Available():
			fmt.Printf("%s  [%s, %s]  %s\n", sel.Item.Text, lang, sel.Tier, sel.Item.ID)
		case sel.HasETA:
			fmt.Printf("Nothing due in %s. Next review in %s.\n", lang.DisplayName(), spacedrep.FormatMinutes(sel.ETAMinutes))
		default:
			fmt.Printf("Nothing to review in %s.\n", lang.DisplayName())
		}
		return nil
	},
}
