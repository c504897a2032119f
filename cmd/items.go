package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/vocabdrill/internal/spacedrep"
	"github.com/abhisek/vocabdrill/internal/store"
	"github.com/abhisek/vocabdrill/internal/ui/layout"
	"github.com/abhisek/vocabdrill/internal/vocab"
)

var addCmd = &cobra.Command{
	Use:   "add <word>",
	Short: "Add a vocabulary item with a new track per language",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mandarin, _ := cmd.Flags().GetString("mandarin-entry")
		cantonese, _ := cmd.Flags().GetString("cantonese-entry")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		entries := map[vocab.Language]string{}
		if mandarin != "" {
			entries[vocab.Mandarin] = mandarin
		}
		if cantonese != "" {
			entries[vocab.Cantonese] = cantonese
		}

		item, err := e.store.ItemRepo().CreateItem(cmd.Context(), store.NewItem{Text: args[0], Entries: entries})
		if err != nil {
			return err
		}
		fmt.Printf("Added %s  %s\n", item.Text, item.ID)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List items with their track state per language",
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
		if len(items) == 0 {
			fmt.Println("No items yet. Add one with `vocabdrill add <word>`.")
			return nil
		}

		now := e.svc.Now()
		fmt.Printf("%-36s  %s", "ID", layout.PadRight("Word", 12))
		for _, lang := range vocab.Languages {
			fmt.Printf("  %-14s", lang)
		}
		fmt.Println()
		fmt.Println(strings.Repeat("─", 52+16*len(vocab.Languages)))

		for _, it := range items {
			fmt.Printf("%-36s  %s", it.ID, layout.PadRight(it.Text, 12))
			for _, lang := range vocab.Languages {
				tr := it.Track(lang)
				fmt.Printf("  %-14s", fmt.Sprintf("%s p%d", trackState(tr, now), tr.ProgressCount))
			}
			fmt.Println()
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <item>",
	Short: "Show an item's entries and tracks (by ID or word)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		item, err := e.findItem(cmd, args[0])
		if err != nil {
			return err
		}

		now := e.svc.Now()
		fmt.Printf("Word:      %s\n", item.Text)
		fmt.Printf("ID:        %s\n", item.ID)
		fmt.Printf("Created:   %s\n", formatTime(&item.CreatedAt))
		for _, lang := range vocab.Languages {
			tr := item.Track(lang)
			fmt.Println()
			fmt.Printf("[%s]\n", lang.DisplayName())
			if entry := item.Entry(lang); entry != "" {
				fmt.Printf("  Entry:     %s\n", entry)
			}
			fmt.Printf("  State:     %s (%s)\n", trackState(tr, now), tr.Phase(spacedrep.GraduationProgress))
			fmt.Printf("  Progress:  %d\n", tr.ProgressCount)
			fmt.Printf("  Next due:  %s\n", formatTime(tr.NextDueAt))
		}
		return nil
	},
}

func init() {
	addCmd.Flags().String("mandarin-entry", "", "Reference entry for the Mandarin track")
	addCmd.Flags().String("cantonese-entry", "", "Reference entry for the Cantonese track (used to detect colloquial forms)")
}
