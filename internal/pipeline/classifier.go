package pipeline

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/Tameem1/quran-chatbot/internal/arabic"
	"github.com/Tameem1/quran-chatbot/internal/llm"
)

// classifierRule maps an Arabic keyword to a question type. Rules are checked
// in order against the normalized question; the first hit wins and skips the
// model fallback entirely.
type classifierRule struct {
	keyword string
	qtype   QuestionType
}

// Rule order matters: استخرج must win over جذر in the same question, and the
// bare جذر rule comes last as the frequency catch-all.
var classifierRules = func() []classifierRule {
	raw := []classifierRule{
		{"استخرج", TypeRootAyah},
		{"الفرق", TypeDifference},
		{"فرق بين", TypeDifference},
		{"صيغ", TypeMorphology},
		{"صرفي", TypeMorphology},
		{"تصريف", TypeMorphology},
		{"كم مرة", TypeFrequency},
		{"معنى", TypeWordMeaning},
		{"قاموس", TypeDictionary},
		{"معجم", TypeDictionary},
		{"جذر", TypeFrequency},
	}
	rules := make([]classifierRule, len(raw))
	for i, r := range raw {
		rules[i] = classifierRule{keyword: arabic.Normalize(r.keyword), qtype: r.qtype}
	}
	return rules
}()

const classifierSystemPrompt = `أنت مصنف أسئلة قرآنية دقيق. لديك ست فئات فقط ويجب أن ترجع فقط اسم الفئة المطابق.

الفئات مع مثال لكل فئة:

0) word_meaning
   مثال: ما معنى كلمة غفر؟
1) frequency_word_root
   مثال: كم مرة ورد جذر سجد في القرآن؟
2) difference_two_words
   مثال: ما الفرق بين الرحمة والرأفة؟
3) root_ayah_extraction
   مثال: استخرج الآيات التي ورد فيها جذر صبر.
4) morphology
   مثال: ما الصيغ الصرفية لجذر كتب؟
5) dictionary_lookup
   مثال: ابحث في المعجم عن كلمة فطر.

أعد فقط اسم الفئة دون أي نص إضافي.`

// Classifier maps raw question text to exactly one question type. It never
// fails: unmatched questions degrade to word_meaning with low confidence.
type Classifier struct {
	provider llm.Provider
	model    string
}

// NewClassifier creates a classifier backed by the given completion provider
// for the fallback tier.
func NewClassifier(provider llm.Provider, model string) *Classifier {
	return &Classifier{provider: provider, model: model}
}

var leadingIndexPattern = regexp.MustCompile(`\D*?(\d)`)

// Classify runs the deterministic keyword rules first and asks the model only
// when no rule matches.
func (c *Classifier) Classify(ctx context.Context, q Question) ClassificationResult {
	norm := arabic.Normalize(q.Text)
	for _, rule := range classifierRules {
		if strings.Contains(norm, rule.keyword) {
			return ClassificationResult{
				Type:       rule.qtype,
				Confidence: 0.95,
				RawSignal:  "rule:" + rule.keyword,
			}
		}
	}
	return c.fallback(ctx, q)
}

func (c *Classifier) fallback(ctx context.Context, q Question) ClassificationResult {
	ambiguous := ClassificationResult{
		Type:       TypeWordMeaning,
		Confidence: 0.2,
		RawSignal:  "default",
	}

	if c.provider == nil {
		return ambiguous
	}

	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Model: c.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: classifierSystemPrompt},
			{Role: llm.RoleUser, Content: q.Text},
		},
		MaxTokens:   8,
		Temperature: 0,
	})
	if err != nil {
		// Classification ambiguity is non-fatal: degrade to the default type.
		return ambiguous
	}

	raw := strings.TrimSpace(resp.Content)
	if t := QuestionType(raw); t.Valid() {
		return ClassificationResult{Type: t, Confidence: 0.6, RawSignal: "llm:" + raw}
	}

	// The model may answer with the category index instead of the slug.
	if m := leadingIndexPattern.FindStringSubmatch(raw); m != nil {
		if idx, err := strconv.Atoi(m[1]); err == nil {
			types := AllQuestionTypes()
			if idx >= 0 && idx < len(types) {
				return ClassificationResult{Type: types[idx], Confidence: 0.6, RawSignal: "llm:" + raw}
			}
		}
	}

	return ambiguous
}
