package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/vocabdrill/internal/spacedrep"
)

var submitCmd = &cobra.Command{
	Use:   "submit <item>",
	Short: "Record an evaluation for an item without the LLM judge",
	Long: "Applies an outcome to the item's track in the selected language. With no flags the answer\n" +
		"counts as a full success. --key makes the call safe to retry.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var o spacedrep.Outcome
		o.HadDifficulty, _ = cmd.Flags().GetBool("difficulty")
		notFluent, _ := cmd.Flags().GetBool("not-fluent")
		o.Fluent = !notFluent
		o.HasFillers, _ = cmd.Flags().GetBool("fillers")
		o.MinimalUsage, _ = cmd.Flags().GetBool("minimal")
		key, _ := cmd.Flags().GetString("key")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		item, err := e.findItem(cmd, args[0])
		if err != nil {
			return err
		}

		lang := e.cfg.Language
		due, err := e.svc.SubmitEvaluation(cmd.Context(), spacedrep.Evaluation{
			ItemID:     item.ID,
			Language:   lang,
			Outcome:    o,
			RequestKey: key,
		})
		if err != nil {
			return err
		}
		fmt.Printf("%s [%s] %s: next review %s (in %s)\n",
			item.Text, lang, o.Rule(), formatTime(&due),
			spacedrep.FormatMinutes(spacedrep.MinutesUntil(e.svc.Now(), due)))
		return nil
	},
}

var rescheduleCmd = &cobra.Command{
	Use:   "reschedule <item> <timestamp>",
	Short: "Override an item's next review time",
	Long: "Sets the next review time of the item's track in the selected language. Accepts RFC 3339\n" +
		"or zone-less ISO timestamps (read as UTC), e.g. 2025-01-10T09:30:00Z or \"2025-01-10 09:30:00\".\n" +
		"Past times make the item due immediately.",
	Args: cobra.ExactArgs(2),
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

		lang := e.cfg.Language
		due, err := e.svc.OverrideReviewTime(cmd.Context(), item.ID, lang, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s [%s]: next review %s\n", item.Text, lang, due.UTC().Format(time.RFC3339))
		return nil
	},
}

var masterCmd = &cobra.Command{
	Use:   "master <item>",
	Short: "Mark an item as mastered so it is no longer selected",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		undo, _ := cmd.Flags().GetBool("undo")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		item, err := e.findItem(cmd, args[0])
		if err != nil {
			return err
		}

		lang := e.cfg.Language
		if err := e.svc.SetMastered(cmd.Context(), item.ID, lang, !undo); err != nil {
			return err
		}
		if undo {
			fmt.Printf("%s [%s]: back in the review queue\n", item.Text, lang)
		} else {
			fmt.Printf("%s [%s]: mastered\n", item.Text, lang)
		}
		return nil
	},
}

func init() {
	submitCmd.Flags().Bool("difficulty", false, "The learner struggled (5 min, progress reset)")
	submitCmd.Flags().Bool("not-fluent", false, "The answer was not fluent (15 min, progress reset)")
	submitCmd.Flags().Bool("fillers", false, "The answer relied on filler words (15 min, progress reset)")
	submitCmd.Flags().Bool("minimal", false, "The word was used only minimally (30 min, progress reset)")
	submitCmd.Flags().String("key", "", "Idempotency key; resubmitting the same key is applied once")

	masterCmd.Flags().Bool("undo", false, "Clear the mastered flag and resume the previous schedule")
}
