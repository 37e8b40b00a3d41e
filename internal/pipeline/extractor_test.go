package pipeline

import (
	"context"
	"errors"
	"testing"
)

func TestExtractSingleWordRules(t *testing.T) {
	// A failing provider proves the rule tier is sufficient here.
	provider := &scriptedProvider{err: errors.New("must not be called")}
	e := NewExtractor(provider, "test-model")

	tests := []struct {
		question string
		qtype    QuestionType
		want     string
	}{
		{"ما معنى كلمة غفر؟", TypeWordMeaning, "غفر"},
		{"ماذا يعني لفظ الصمد؟", TypeWordMeaning, "الصمد"},
		{"اشرح كلمة تقوى", TypeWordMeaning, "تقوي"},
		{"كم مرة ورد جذر سجد في القرآن؟", TypeFrequency, "سجد"},
		{"ما تصريفات جذر كتب؟", TypeMorphology, "كتب"},
		{"ابحث في المعجم عن كلمة فطر", TypeDictionary, "فطر"},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			entity, err := e.Extract(context.Background(), Question{Text: tt.question}, tt.qtype)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if entity.Primary != tt.want {
				t.Errorf("Primary = %q, want %q", entity.Primary, tt.want)
			}
			if entity.Method != MethodRule {
				t.Errorf("Method = %s, want rule", entity.Method)
			}
		})
	}
	if provider.calls != 0 {
		t.Errorf("rule-tier extractions must not invoke the LLM, got %d calls", provider.calls)
	}
}

func TestExtractPairRules(t *testing.T) {
	e := NewExtractor(nil, "")

	tests := []struct {
		question      string
		first, second string
	}{
		// Normalized forms: الرأفة loses its hamza carrier.
		{"ما الفرق بين الرحمة والرأفة؟", "الرحمة", "الرافة"},
		{"هل هناك فرق بين القتل و الذبح؟", "القتل", "الذبح"},
		{"الفرق بين الخوف والخشية", "الخوف", "الخشية"},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			entity, err := e.Extract(context.Background(), Question{Text: tt.question}, TypeDifference)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if entity.Primary != tt.first || entity.Secondary != tt.second {
				t.Errorf("got (%q, %q), want (%q, %q)", entity.Primary, entity.Secondary, tt.first, tt.second)
			}
		})
	}
}

func TestExtractRelativePronounGuard(t *testing.T) {
	// الذي is never the asked-about word; the rule tier rejects it and the
	// model tier supplies the real target.
	provider := &scriptedProvider{responses: []string{`{"word":"العدل","confidence":0.9}`}}
	e := NewExtractor(provider, "test-model")

	entity, err := e.Extract(context.Background(), Question{Text: "اشرح كلمة الذي وردت هنا"}, TypeWordMeaning)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if entity.Primary != "العدل" {
		t.Errorf("Primary = %q, want العدل", entity.Primary)
	}
	if entity.Method != MethodModelAssisted {
		t.Errorf("Method = %s, want model-assisted", entity.Method)
	}
}

func TestExtractModelTierLowConfidenceRejected(t *testing.T) {
	provider := &scriptedProvider{responses: []string{`{"word":"شيء","confidence":0.2}`}}
	e := NewExtractor(provider, "test-model")

	_, err := e.Extract(context.Background(), Question{Text: "ما معنى هذا؟"}, TypeWordMeaning)
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestExtractBothTiersFail(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("down")}
	e := NewExtractor(provider, "test-model")

	_, err := e.Extract(context.Background(), Question{Text: "ما معنى هذا؟"}, TypeWordMeaning)
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestExtractPairModelTier(t *testing.T) {
	provider := &scriptedProvider{responses: []string{`{"words":"الرحمة|الرأفة","confidence":0.8}`}}
	e := NewExtractor(provider, "test-model")

	entity, err := e.Extract(context.Background(), Question{Text: "وازن لي الرحمة مع الرأفة"}, TypeDifference)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if entity.Primary != "الرحمة" || entity.Secondary != "الرافة" {
		t.Errorf("got (%q, %q)", entity.Primary, entity.Secondary)
	}
}

func TestExtractRootAyahWithSurah(t *testing.T) {
	e := NewExtractor(nil, "")

	entity, err := e.Extract(context.Background(),
		Question{Text: "استخرج الآيات التي ورد فيها جذر سجد في سورة البقرة"}, TypeRootAyah)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if entity.Primary != "سجد" {
		t.Errorf("Primary = %q, want سجد", entity.Primary)
	}
	if entity.Surah != 2 {
		t.Errorf("Surah = %d, want 2", entity.Surah)
	}
}

func TestExtractRootAyahWithoutSurah(t *testing.T) {
	e := NewExtractor(nil, "")

	entity, err := e.Extract(context.Background(),
		Question{Text: "استخرج الآيات التي ورد فيها جذر سجد"}, TypeRootAyah)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if entity.Surah != 0 {
		t.Errorf("Surah = %d, want 0", entity.Surah)
	}
}
