package pipeline

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/Tameem1/quran-chatbot/internal/arabic"
	"github.com/Tameem1/quran-chatbot/internal/llm"
)

// target captures one word up to whitespace or Arabic/Latin punctuation.
const target = `([^\s?.,،؟]+)`

// singleWordPatterns match one linguistic target in a normalized question.
// Ordered from most to least specific; the generic "كلمة X" rule comes last.
var singleWordPatterns = []*regexp.Regexp{
	// ما معنى / تفسير ... كلمة X
	regexp.MustCompile(`(?:ما\s+)?(?:معني|تفسير|مدلول|مقصود|دلالة)\s+(?:من\s+|ب)?(?:تعبير|كلمة|لفظة|لفظ|مفردة|عبارة)\s+` + target),
	// ماذا يعني لفظ X
	regexp.MustCompile(`(?:ماذا\s+)?يعني\s+(?:اصطلاحا\s+)?(?:لفظة|كلمة|لفظ|مفردة|عبارة)\s+` + target),
	// فسر / اشرح ... كلمة X
	regexp.MustCompile(`(?:فسر|اشرح|بين|وضح|دلني)\s+(?:لي\s+)?(?:معني\s+)?(?:جذر\s+|اشتقاق\s+|اصل\s+)?(?:ال)?(?:كلمة|لفظة|لفظ|مفردة|عبارة|تعبير|فعل)\s+` + target),
	// جذر كلمة X
	regexp.MustCompile(`(?:جذر|اشتقاق|اصل)\s+(?:ال)?(?:كلمة|لفظة|لفظ|فعل)\s+` + target),
	// تصريفات جذر X or bare جذر X
	regexp.MustCompile(`(?:تصريفات\s+|تصاريف\s+|صيغ\s+)?جذر\s+` + target),
	// generic "… كلمة X"
	regexp.MustCompile(`(?:كلمة|لفظة|لفظ|مفردة|عبارة)\s+` + target),
}

// twoWordPatterns match difference questions: "ما الفرق بين X وY". The second
// capture tolerates both a free-standing و and one attached to the word.
var twoWordPatterns = []*regexp.Regexp{
	regexp.MustCompile(`فرق\s+(?:في\s+معني\s+)?بين\s+` + target + `\s+و\s*` + target),
	regexp.MustCompile(`فرق.*?بين\s+` + target + `\s+و` + target),
}

// relativePronouns are common captures that are never the asked-about word.
var relativePronouns = func() map[string]bool {
	words := []string{"ذي", "الذي", "التي", "الذين", "اللذان", "اللذين", "اللتان", "اللاتي", "اللائي"}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[arabic.Normalize(w)] = true
	}
	return m
}()

const extractSystemPrompt = `You are a precise extractor. Given an Arabic user question, return ONLY the Qur'anic word or root being asked about. Respond JSON: {"word":"...","confidence":0.88}.`

const extractTwoSystemPrompt = `You are a precise extractor for difference questions. Given an Arabic question asking about the difference between two words, return ONLY the two words separated by '|'. Respond JSON: {"words":"word1|word2","confidence":0.88}.`

// extractConfidenceThreshold rejects low-confidence model extractions.
const extractConfidenceThreshold = 0.45

// Extractor isolates the linguistic target from a question. The rule tier
// runs first; the model-assisted tier is consulted only when no pattern
// yields a candidate.
type Extractor struct {
	provider llm.Provider
	model    string
}

// NewExtractor creates an extractor backed by the given completion provider
// for the model-assisted tier.
func NewExtractor(provider llm.Provider, model string) *Extractor {
	return &Extractor{provider: provider, model: model}
}

// Extract returns the entity for the classified question type, or
// ErrExtractionFailed when both tiers come up empty.
func (e *Extractor) Extract(ctx context.Context, q Question, qtype QuestionType) (ExtractedEntity, error) {
	if qtype == TypeDifference {
		return e.extractPair(ctx, q)
	}

	entity, err := e.extractSingle(ctx, q)
	if err != nil {
		return ExtractedEntity{}, err
	}
	if qtype == TypeRootAyah {
		entity.Surah = ExtractSurah(q.Text)
	}
	return entity, nil
}

func (e *Extractor) extractSingle(ctx context.Context, q Question) (ExtractedEntity, error) {
	norm := arabic.Normalize(q.Text)

	for _, p := range singleWordPatterns {
		m := p.FindStringSubmatch(norm)
		if m == nil {
			continue
		}
		word := m[1]
		if relativePronouns[word] {
			// Accidental capture of a relative pronoun; keep searching.
			continue
		}
		return ExtractedEntity{Primary: word, Method: MethodRule}, nil
	}

	word, conf, err := e.modelWord(ctx, q.Text)
	if err == nil && word != "" && conf >= extractConfidenceThreshold {
		return ExtractedEntity{Primary: arabic.Normalize(word), Method: MethodModelAssisted}, nil
	}
	return ExtractedEntity{}, ErrExtractionFailed
}

func (e *Extractor) extractPair(ctx context.Context, q Question) (ExtractedEntity, error) {
	norm := arabic.Normalize(q.Text)

	for _, p := range twoWordPatterns {
		if m := p.FindStringSubmatch(norm); m != nil {
			return ExtractedEntity{Primary: m[1], Secondary: m[2], Method: MethodRule}, nil
		}
	}

	first, second, conf, err := e.modelPair(ctx, q.Text)
	if err == nil && first != "" && second != "" && conf >= extractConfidenceThreshold {
		return ExtractedEntity{
			Primary:   arabic.Normalize(first),
			Secondary: arabic.Normalize(second),
			Method:    MethodModelAssisted,
		}, nil
	}
	return ExtractedEntity{}, ErrExtractionFailed
}

func (e *Extractor) modelWord(ctx context.Context, question string) (string, float64, error) {
	if e.provider == nil {
		return "", 0, ErrExtractionFailed
	}
	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Model: e.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: extractSystemPrompt},
			{Role: llm.RoleUser, Content: question},
		},
		MaxTokens:   20,
		Temperature: 0,
		JSONMode:    true,
	})
	if err != nil {
		return "", 0, err
	}

	var data struct {
		Word       string  `json:"word"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(resp.Content), &data); err != nil {
		return "", 0, err
	}
	return strings.TrimSpace(data.Word), data.Confidence, nil
}

func (e *Extractor) modelPair(ctx context.Context, question string) (string, string, float64, error) {
	if e.provider == nil {
		return "", "", 0, ErrExtractionFailed
	}
	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Model: e.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: extractTwoSystemPrompt},
			{Role: llm.RoleUser, Content: question},
		},
		MaxTokens:   30,
		Temperature: 0,
		JSONMode:    true,
	})
	if err != nil {
		return "", "", 0, err
	}

	var data struct {
		Words      string  `json:"words"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(resp.Content), &data); err != nil {
		return "", "", 0, err
	}
	first, second, ok := strings.Cut(data.Words, "|")
	if !ok {
		return "", "", 0, ErrExtractionFailed
	}
	return strings.TrimSpace(first), strings.TrimSpace(second), data.Confidence, nil
}
