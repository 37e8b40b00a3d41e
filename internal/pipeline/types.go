// Package pipeline implements the five-stage Quranic question-answering
// pipeline: classification, entity extraction, context retrieval, prompt
// construction, and answer generation.
//
// Every component is a pure function of its inputs plus the read-only corpus
// store; the orchestrator in pipeline.go owns sequencing, per-stage error
// policy, and progress events.
package pipeline

import (
	"time"

	"github.com/Tameem1/quran-chatbot/internal/corpus"
)

// QuestionType is the closed set of question categories the pipeline can
// answer. It drives dispatch in the extractor, retriever, and prompt builder.
type QuestionType string

const (
	TypeWordMeaning QuestionType = "word_meaning"
	TypeFrequency   QuestionType = "frequency_word_root"
	TypeDifference  QuestionType = "difference_two_words"
	TypeRootAyah    QuestionType = "root_ayah_extraction"
	TypeMorphology  QuestionType = "morphology"
	TypeDictionary  QuestionType = "dictionary_lookup"
)

// AllQuestionTypes returns the enumeration in a fixed order.
func AllQuestionTypes() []QuestionType {
	return []QuestionType{
		TypeWordMeaning,
		TypeFrequency,
		TypeDifference,
		TypeRootAyah,
		TypeMorphology,
		TypeDictionary,
	}
}

// Valid reports whether t is a member of the enumeration.
func (t QuestionType) Valid() bool {
	for _, known := range AllQuestionTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Question is one incoming user question. Immutable once received.
type Question struct {
	Text    string
	Verbose bool
}

// ClassificationResult is the outcome of stage 1.
type ClassificationResult struct {
	Type       QuestionType
	Confidence float64
	RawSignal  string
}

// ExtractionMethod records which tier produced an entity.
type ExtractionMethod string

const (
	MethodRule          ExtractionMethod = "rule"
	MethodModelAssisted ExtractionMethod = "model-assisted"
)

// ExtractedEntity is the linguistic target isolated from the question: one or
// two words/roots plus an optional surah filter.
type ExtractedEntity struct {
	Primary   string
	Secondary string // second word of a difference question
	Surah     int    // 0 when the question names no chapter
	Method    ExtractionMethod
}

// DefinitionSlot is one side of a pairwise comparison. Found is per-slot: a
// missing definition on one side is partial grounding, not total failure.
type DefinitionSlot struct {
	Word       string `json:"word"`
	Found      bool   `json:"found"`
	Definition string `json:"definition,omitempty"`
}

// Comparison holds two independent dictionary lookups side by side.
type Comparison struct {
	First  DefinitionSlot `json:"first"`
	Second DefinitionSlot `json:"second"`
}

// Frequency holds an exact corpus occurrence count with its verse references.
type Frequency struct {
	Target string            `json:"target"`
	Count  int               `json:"count"`
	Refs   []corpus.VerseRef `json:"refs,omitempty"`
}

// GroundingPayload is the type-tagged union of retrieval results. Found=false
// is a valid terminal state: downstream stages must surface "not found" rather
// than fabricate. For root_ayah_extraction, Found=true with an empty verse
// list means the root is known but has zero occurrences; that is distinct
// from Found=false (unknown root).
type GroundingPayload struct {
	Kind       QuestionType   `json:"kind"`
	Found      bool           `json:"found"`
	Definition string         `json:"definition,omitempty"`
	Comparison *Comparison    `json:"comparison,omitempty"`
	Frequency  *Frequency     `json:"frequency,omitempty"`
	Verses     []corpus.Verse `json:"verses,omitempty"`
	Forms      []string       `json:"forms,omitempty"`
}

// Stage names the orchestrator states. Transitions are strictly sequential
// and forward-only; FAILED is reachable from any non-initial state.
type Stage string

const (
	StagePending    Stage = "PENDING"
	StageClassified Stage = "CLASSIFIED"
	StageExtracted  Stage = "EXTRACTED"
	StageRetrieved  Stage = "RETRIEVED"
	StagePrompted   Stage = "PROMPTED"
	StageAnswered   Stage = "ANSWERED"
	StageFailed     Stage = "FAILED"
)

// TotalStages is the number of pipeline stages reported to streaming clients.
const TotalStages = 5

// StatusEvent is one append-only log entry emitted per stage transition.
// Events are per-run and never mixed across concurrent runs.
type StatusEvent struct {
	Stage     Stage     `json:"stage"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Result is the terminal, externally visible artifact of one pipeline run.
// Err is nil on success; on failure it wraps one of the sentinel conditions
// in errors.go while Answer still carries a user-safe explanation.
type Result struct {
	RunID          string
	Answer         string
	QuestionType   QuestionType
	TargetEntity   string
	SurahFilter    int
	ProcessingTime time.Duration
	Events         []StatusEvent
	Err            error
}
