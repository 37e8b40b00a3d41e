package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "quranqa",
	Short: "Arabic question answering over the Quranic corpus",
	Long: `QuranQA answers Arabic questions about Quranic vocabulary: word
meanings, root frequencies, word comparisons, verse extraction by root,
morphological forms, and dictionary lookups. Every answer is grounded in
the loaded corpus; what the corpus does not contain is reported as not
found rather than guessed.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".quranqa.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
