package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Tameem1/quran-chatbot/internal/corpus"
	"github.com/Tameem1/quran-chatbot/internal/llm"
)

// Settings configures the per-call behaviour of the pipeline's LLM usage.
type Settings struct {
	Model           string
	ClassifierModel string
	Timeout         time.Duration
	MaxRetries      int
}

// Pipeline sequences the five stages, applies per-stage error policy, and
// reports progress. It is safe for concurrent use: each run owns its own
// event log and the only shared state is the immutable corpus store.
type Pipeline struct {
	classifier *Classifier
	extractor  *Extractor
	retriever  *Retriever
	prompts    *PromptBuilder
	generator  llm.Provider
	model      string
}

// New wires the five stages over the given corpus store and completion
// provider. The classifier fallback and the extractor's model tier get a
// per-call timeout; answer generation additionally retries with backoff.
func New(store *corpus.Store, provider llm.Provider, settings Settings) *Pipeline {
	if settings.Timeout <= 0 {
		settings.Timeout = 30 * time.Second
	}
	if settings.ClassifierModel == "" {
		settings.ClassifierModel = settings.Model
	}

	var bounded, generator llm.Provider
	if provider != nil {
		bounded = llm.NewTimeoutProvider(provider, settings.Timeout)
		generator = llm.NewRetryingProvider(bounded, settings.MaxRetries)
	}

	return &Pipeline{
		classifier: NewClassifier(bounded, settings.ClassifierModel),
		extractor:  NewExtractor(bounded, settings.ClassifierModel),
		retriever:  NewRetriever(store),
		prompts:    NewPromptBuilder(),
		generator:  generator,
		model:      settings.Model,
	}
}

// User-safe failure messages. Raw internal errors never reach the caller.
const (
	msgInvalidQuestion  = "السؤال فارغ أو غير صالح. من فضلك أدخل سؤالًا بالعربية عن كلمة أو جذر قرآني."
	msgExtractionFailed = "لم أستطع تحديد الكلمة أو الجذر المطلوب. من فضلك وضّح الكلمة القرآنية التي تريد شرحها."
	msgInternalFailure  = "تعذّرت معالجة السؤال حاليًا. حاول مرة أخرى لاحقًا."
	msgLLMUnavailable   = "تعذّر الوصول إلى خدمة الإجابة حاليًا. حاول مرة أخرى لاحقًا."
)

// Answer runs one full pipeline pass.
func (p *Pipeline) Answer(ctx context.Context, q Question) *Result {
	return p.AnswerWithEvents(ctx, q, nil)
}

// AnswerWithEvents runs one full pipeline pass, invoking sink for every
// status event as it is appended. The sink must be cheap: it is called
// inline between stages.
func (p *Pipeline) AnswerWithEvents(ctx context.Context, q Question, sink func(StatusEvent)) *Result {
	start := time.Now()
	res := &Result{RunID: uuid.NewString()}

	emit := func(stage Stage, format string, args ...any) {
		ev := StatusEvent{Stage: stage, Message: fmt.Sprintf(format, args...), Timestamp: time.Now()}
		res.Events = append(res.Events, ev)
		if sink != nil {
			sink(ev)
		}
	}
	fail := func(condition error, userMessage, detail string) *Result {
		emit(StageFailed, "%s", detail)
		res.Err = condition
		res.Answer = userMessage
		res.ProcessingTime = time.Since(start)
		return res
	}

	emit(StagePending, "question received")

	if strings.TrimSpace(q.Text) == "" {
		return fail(ErrInvalidQuestion, msgInvalidQuestion, "rejected: empty question")
	}

	// Stage 1: classification. Never fails; ambiguity degrades to the
	// default type with low confidence.
	classification := p.classifier.Classify(ctx, q)
	res.QuestionType = classification.Type
	emit(StageClassified, "classified as %s (confidence %.2f)", classification.Type, classification.Confidence)

	// Stage 2: entity extraction. No target means no grounding is possible.
	entity, err := p.extractor.Extract(ctx, q, classification.Type)
	if err != nil {
		return fail(ErrExtractionFailed, msgExtractionFailed, "extraction produced no target entity")
	}
	res.TargetEntity = entity.Primary
	res.SurahFilter = entity.Surah
	target := entity.Primary
	if entity.Secondary != "" {
		target += " / " + entity.Secondary
	}
	emit(StageExtracted, "target entity: %s (%s tier)", target, entity.Method)

	// Stage 3: context retrieval. Not-found is carried forward as data.
	payload, err := p.retriever.Retrieve(classification.Type, entity)
	if err != nil {
		return fail(fmt.Errorf("retrieval: %w", err), msgInternalFailure, "corpus retrieval failed")
	}
	emit(StageRetrieved, "grounding retrieved (found=%t)", payload.Found)

	// Stage 4: prompt construction.
	prompt := p.prompts.Build(q, classification, payload)
	emit(StagePrompted, "prompt built for %s", classification.Type)

	// Stage 5: answer generation.
	answer, err := p.generate(ctx, prompt)
	if err != nil {
		return fail(ErrLLMUnavailable, msgLLMUnavailable, "completion service unavailable after retries")
	}
	res.Answer = answer
	emit(StageAnswered, "answer generated")
	res.ProcessingTime = time.Since(start)
	return res
}

func (p *Pipeline) generate(ctx context.Context, prompt Prompt) (string, error) {
	if p.generator == nil {
		return "", ErrLLMUnavailable
	}
	resp, err := p.generator.Complete(ctx, llm.CompletionRequest{
		Model:       p.model,
		Messages:    prompt.Messages(),
		MaxTokens:   512,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLLMUnavailable, err)
	}
	return strings.TrimSpace(resp.Content), nil
}
