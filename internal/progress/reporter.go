package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/Tameem1/quran-chatbot/internal/pipeline"
)

// Reporter provides stage-by-stage feedback while a question is answered.
type Reporter interface {
	Start()
	Event(ev pipeline.StatusEvent)
	Finish()
}

// NewReporter returns a TerminalReporter if running in an interactive
// terminal, or a PlainReporter if the CI environment variable is set.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &PlainReporter{}
	}
	return &TerminalReporter{}
}

// stageIndex maps each stage to its 1-based position on the bar. PENDING is
// the zero mark; FAILED pins the bar wherever it stopped.
var stageIndex = map[pipeline.Stage]int{
	pipeline.StagePending:    0,
	pipeline.StageClassified: 1,
	pipeline.StageExtracted:  2,
	pipeline.StageRetrieved:  3,
	pipeline.StagePrompted:   4,
	pipeline.StageAnswered:   5,
}

// TerminalReporter displays a progress bar in the terminal.
type TerminalReporter struct {
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start() {
	r.bar = progressbar.NewOptions(pipeline.TotalStages,
		progressbar.OptionSetDescription("Answering"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Event(ev pipeline.StatusEvent) {
	if r.bar == nil {
		return
	}
	r.bar.Describe(ev.Message)
	if idx, ok := stageIndex[ev.Stage]; ok {
		_ = r.bar.Set(idx)
	}
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// PlainReporter prints line-by-line progress suitable for CI logs.
type PlainReporter struct{}

func (r *PlainReporter) Start() {}

func (r *PlainReporter) Event(ev pipeline.StatusEvent) {
	idx := stageIndex[ev.Stage]
	fmt.Fprintf(os.Stderr, "[%d/%d] %s: %s\n", idx, pipeline.TotalStages, ev.Stage, ev.Message)
}

func (r *PlainReporter) Finish() {}
