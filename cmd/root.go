package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/vocabdrill/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "vocabdrill",
	Short: "Spaced-repetition vocabulary drills for Mandarin and Cantonese",
	Long: "vocabdrill asks you to use each word in a sentence of your own, grades the answer with an LLM\n" +
		"and schedules the next review per language.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger.SetVerbose(verbose)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReview(cmd, false)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides VOCABDRILL_DB and the config file)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/vocabdrill/config.toml)")
	rootCmd.PersistentFlags().StringP("lang", "l", "", "Language track: mandarin or cantonese (default from config)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print diagnostic logs to stderr")

	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(rescheduleCmd)
	rootCmd.AddCommand(masterCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
