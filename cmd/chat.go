package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Tameem1/quran-chatbot/internal/pipeline"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question-answering session",
	Long:  `Starts an interactive loop: type Arabic questions, get grounded answers. Enter "exit" or press Ctrl+C to quit.`,
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, store, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("QuranQA — corpus loaded: %d tokens, %d verses, %d roots, %d dictionary entries\n",
		stats.Tokens, stats.Verses, stats.Roots, stats.Dictionary)
	fmt.Println(`اكتب سؤالك بالعربية، أو "exit" للخروج.`)

	prompt := promptui.Prompt{Label: "سؤال"}
	for {
		question, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}
			return fmt.Errorf("reading question: %w", err)
		}
		if question == "exit" || question == "quit" || question == "خروج" {
			return nil
		}

		res := p.Answer(context.Background(), pipeline.Question{Text: question, Verbose: verbose})
		fmt.Println(res.Answer)
		if verbose {
			fmt.Printf("(type=%s target=%s took=%s)\n",
				res.QuestionType, res.TargetEntity, res.ProcessingTime.Round(1e6))
		}
		fmt.Println()
	}
}
