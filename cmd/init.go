package cmd

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Tameem1/quran-chatbot/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file interactively",
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfgFile); err == nil {
		confirm := promptui.Prompt{
			Label:     fmt.Sprintf("%s already exists, overwrite", cfgFile),
			IsConfirm: true,
		}
		if _, err := confirm.Run(); err != nil {
			return nil
		}
	}

	cfg := config.DefaultConfig()

	modelPrompt := promptui.Prompt{
		Label:   "OpenAI model for answer generation",
		Default: cfg.Model,
	}
	model, err := modelPrompt.Run()
	if err != nil {
		return fmt.Errorf("model selection: %w", err)
	}
	cfg.Model = model

	dataPrompt := promptui.Prompt{
		Label:   "Directory containing the corpus JSONL files",
		Default: cfg.DataDir,
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return fmt.Errorf("data dir: %w", err)
	}
	cfg.DataDir = dataDir

	if err := cfg.Save(cfgFile); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", cfgFile)
	fmt.Printf("Set %s before running `quranqa ask` or `quranqa serve`.\n",
		config.APIKeyEnvVar(cfg.Provider))
	return nil
}
