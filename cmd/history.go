package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/vocabdrill/internal/store"
	"github.com/abhisek/vocabdrill/internal/ui/layout"
	"github.com/abhisek/vocabdrill/internal/vocab"
)

var historyCmd = &cobra.Command{
	Use:   "history [item]",
	Short: "List recent track changes, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		all, _ := cmd.Flags().GetBool("all-languages")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		filter := store.TrackEventFilter{QueryOpts: store.QueryOpts{Limit: limit}}
		if !all {
			filter.Language = e.cfg.Language
		}
		names := map[string]string{}
		if len(args) == 1 {
			item, err := e.findItem(cmd, args[0])
			if err != nil {
				return err
			}
			filter.ItemID = item.ID
			names[item.ID] = item.Text
		} else {
			items, err := e.store.ItemRepo().ListItems(cmd.Context())
			if err != nil {
				return err
			}
			for _, it := range items {
				names[it.ID] = it.Text
			}
		}

		events, err := e.store.EventRepo().QueryTrackEvents(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No track changes recorded.")
			return nil
		}

		fmt.Printf("%-5s  %-16s  %s  %-10s  %-11s  %-14s  %-16s  %s\n",
			"Seq", "Time", layout.PadRight("Word", 12), "Language", "Change", "Reason", "Next due", "Progress")
		fmt.Println(strings.Repeat("─", 104))
		for _, ev := range events {
			fmt.Printf("%-5d  %-16s  %s  %-10s  %-11s  %-14s  %-16s  %s\n",
				ev.Sequence,
				ev.Timestamp.Local().Format("2006-01-02 15:04"),
				layout.PadRight(names[ev.ItemID], 12),
				ev.Language,
				ev.Kind,
				ev.Reason,
				formatTime(ev.After.NextDueAt),
				progressChange(ev.Before, ev.After),
			)
		}
		return nil
	},
}

func progressChange(before, after vocab.Track) string {
	s := fmt.Sprintf("%d→%d", before.ProgressCount, after.ProgressCount)
	if after.Mastered {
		s += " (mastered)"
	}
	return s
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	historyCmd.Flags().Bool("all-languages", false, "Include every language, not just the selected one")
}
