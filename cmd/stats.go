package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/vocabdrill/internal/spacedrep"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show review queue counts per language",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		items, err := e.store.ItemRepo().ListItems(cmd.Context())
		if err != nil {
			return err
		}
		now := e.svc.Now()

		fmt.Printf("%-10s  %6s  %6s  %6s  %8s  %8s  %9s  %s\n",
			"Language", "Total", "Due", "New", "Upcoming", "Mastered", "Graduated", "Next")
		fmt.Println(strings.Repeat("─", 80))
		for _, s := range spacedrep.Summarize(items, now) {
			next := "-"
			if s.NextDue != nil {
				next = "in " + spacedrep.FormatMinutes(spacedrep.MinutesUntil(now, *s.NextDue))
			}
			fmt.Printf("%-10s  %6d  %6d  %6d  %8d  %8d  %9d  %s\n",
				s.Language, s.Total, s.Due, s.New, s.Upcoming, s.Mastered, s.Graduated, next)
		}
		return nil
	},
}
