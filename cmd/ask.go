package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tameem1/quran-chatbot/internal/pipeline"
	"github.com/Tameem1/quran-chatbot/internal/progress"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single Arabic question about the Quranic corpus",
	Long:  `Runs the full answering pipeline once for the given question and prints the answer.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().Bool("json", false, "output the full result as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, store, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	var sink func(pipeline.StatusEvent)
	var reporter progress.Reporter
	if verbose && !jsonOutput {
		reporter = progress.NewReporter()
		reporter.Start()
		sink = reporter.Event
	}

	res := p.AnswerWithEvents(context.Background(), pipeline.Question{Text: args[0], Verbose: verbose}, sink)
	if reporter != nil {
		reporter.Finish()
	}

	if jsonOutput {
		return printAskJSON(res)
	}

	fmt.Println(res.Answer)
	if verbose {
		fmt.Fprintf(os.Stderr, "\ntype=%s target=%s took=%s\n",
			res.QuestionType, res.TargetEntity, res.ProcessingTime.Round(1e6))
	}
	if res.Err != nil {
		// The Arabic explanation was already printed; signal failure to the shell.
		return fmt.Errorf("answering failed: %w", res.Err)
	}
	return nil
}

func printAskJSON(res *pipeline.Result) error {
	out := map[string]any{
		"run_id":             res.RunID,
		"answer":             res.Answer,
		"question_type":      res.QuestionType,
		"target_entity":      res.TargetEntity,
		"surah_filter":       res.SurahFilter,
		"processing_time_ms": res.ProcessingTime.Milliseconds(),
		"status_events":      res.Events,
	}
	if res.Err != nil {
		out["error"] = res.Err.Error()
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
