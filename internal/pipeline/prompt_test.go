package pipeline

import (
	"strings"
	"testing"

	"github.com/Tameem1/quran-chatbot/internal/corpus"
)

func buildPrompt(qtype QuestionType, payload GroundingPayload) Prompt {
	b := NewPromptBuilder()
	return b.Build(Question{Text: "سؤال تجريبي"},
		ClassificationResult{Type: qtype}, payload)
}

func TestPromptAlwaysCarriesGroundingConstraint(t *testing.T) {
	payloads := []GroundingPayload{
		{Kind: TypeWordMeaning, Found: true, Definition: "تعريف"},
		{Kind: TypeWordMeaning, Found: false},
		{Kind: TypeFrequency, Found: true, Frequency: &Frequency{Target: "سجد", Count: 3}},
	}
	for _, payload := range payloads {
		prompt := buildPrompt(payload.Kind, payload)
		if !strings.Contains(prompt.System, "لم يتم العثور على إجابة في البيانات المتاحة") {
			t.Errorf("system prompt for %+v missing the not-found instruction", payload)
		}
		if !strings.Contains(prompt.System, "Never state a fact that is absent from the context") {
			t.Errorf("system prompt for %+v missing the grounding constraint", payload)
		}
	}
}

func TestPromptEmbedsPayloadVerbatim(t *testing.T) {
	payload := GroundingPayload{
		Kind:       TypeWordMeaning,
		Found:      true,
		Definition: "ستر الذنب وتجاوز عنه",
	}
	prompt := buildPrompt(TypeWordMeaning, payload)

	if !strings.Contains(prompt.User, "definition: ستر الذنب وتجاوز عنه") {
		t.Errorf("definition not embedded verbatim:\n%s", prompt.User)
	}
	if !strings.Contains(prompt.User, "<question>\nسؤال تجريبي\n</question>") {
		t.Errorf("question not embedded:\n%s", prompt.User)
	}
	if !strings.Contains(prompt.User, "found: true") {
		t.Errorf("found flag missing:\n%s", prompt.User)
	}
}

func TestPromptRendersNotFound(t *testing.T) {
	prompt := buildPrompt(TypeWordMeaning, GroundingPayload{Kind: TypeWordMeaning})

	if !strings.Contains(prompt.User, "found: false") {
		t.Errorf("missing found: false line:\n%s", prompt.User)
	}
	if strings.Contains(prompt.User, "definition:") {
		t.Errorf("ungrounded payload must not render a definition:\n%s", prompt.User)
	}
}

func TestPromptRendersFrequency(t *testing.T) {
	payload := GroundingPayload{
		Kind:  TypeFrequency,
		Found: true,
		Frequency: &Frequency{
			Target: "سجد",
			Count:  3,
			Refs:   []corpus.VerseRef{{Surah: 1, Ayah: 1}, {Surah: 2, Ayah: 5}},
		},
	}
	prompt := buildPrompt(TypeFrequency, payload)

	for _, want := range []string{"target: سجد", "count: 3", "verse_refs: 1:1, 2:5"} {
		if !strings.Contains(prompt.User, want) {
			t.Errorf("missing %q:\n%s", want, prompt.User)
		}
	}
}

func TestPromptRendersComparisonSlots(t *testing.T) {
	payload := GroundingPayload{
		Kind:  TypeDifference,
		Found: true,
		Comparison: &Comparison{
			First:  DefinitionSlot{Word: "غفر", Found: true, Definition: "ستر الذنب"},
			Second: DefinitionSlot{Word: "خزق"},
		},
	}
	prompt := buildPrompt(TypeDifference, payload)

	for _, want := range []string{
		"word_1: غفر",
		"word_1_found: true",
		"word_1_definition: ستر الذنب",
		"word_2: خزق",
		"word_2_found: false",
	} {
		if !strings.Contains(prompt.User, want) {
			t.Errorf("missing %q:\n%s", want, prompt.User)
		}
	}
	if strings.Contains(prompt.User, "word_2_definition") {
		t.Errorf("ungrounded slot must not render a definition:\n%s", prompt.User)
	}
}

func TestPromptRendersVerseList(t *testing.T) {
	payload := GroundingPayload{
		Kind:  TypeRootAyah,
		Found: true,
		Verses: []corpus.Verse{
			{Surah: 1, Ayah: 1, Text: "يسجد المؤمن"},
			{Surah: 2, Ayah: 5, Text: "سجدوا ساجدين لله"},
		},
	}
	prompt := buildPrompt(TypeRootAyah, payload)

	for _, want := range []string{"verse_count: 2", "- [1:1] يسجد المؤمن", "- [2:5] سجدوا ساجدين لله"} {
		if !strings.Contains(prompt.User, want) {
			t.Errorf("missing %q:\n%s", want, prompt.User)
		}
	}
}

func TestPromptRendersEmptyVerseList(t *testing.T) {
	prompt := buildPrompt(TypeRootAyah, GroundingPayload{Kind: TypeRootAyah, Found: true})

	if !strings.Contains(prompt.User, "verse_count: 0") {
		t.Errorf("grounded-but-empty list must state verse_count: 0:\n%s", prompt.User)
	}
}

func TestPromptTypeInstructions(t *testing.T) {
	for _, qtype := range AllQuestionTypes() {
		prompt := buildPrompt(qtype, GroundingPayload{Kind: qtype, Found: true})
		if !strings.Contains(prompt.System, typeInstructions[qtype]) {
			t.Errorf("%s prompt missing its type instruction", qtype)
		}
	}
}
