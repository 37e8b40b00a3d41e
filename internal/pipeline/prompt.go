package pipeline

import (
	"fmt"
	"strings"

	"github.com/Tameem1/quran-chatbot/internal/llm"
)

// Prompt is the rendered instruction sent to the language model. It always
// embeds the grounding payload verbatim plus the answer-only-from-context
// constraint; that constraint is the mechanism behind the zero-hallucination
// guarantee and must never be omitted.
type Prompt struct {
	System string
	User   string
}

// Messages converts the prompt to chat-completion messages.
func (p Prompt) Messages() []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: p.System},
		{Role: llm.RoleUser, Content: p.User},
	}
}

// groundingConstraint is the fixed instruction present in every prompt.
const groundingConstraint = "You are a meticulous Quranic linguistics assistant. " +
	"Answer in Arabic, strictly from the facts inside <context/>, citing nothing else. " +
	"Never state a fact that is absent from the context. " +
	"If the context marks the data as not found, or a requested list is empty, " +
	"reply that the answer is not found in the data " +
	"(لم يتم العثور على إجابة في البيانات المتاحة) instead of inventing one."

// typeInstructions adds one type-specific line to the system message.
var typeInstructions = map[QuestionType]string{
	TypeWordMeaning: "اشرح معنى الكلمة اعتمادًا على التعريف الوارد في السياق فقط.",
	TypeFrequency:   "اذكر العدد الوارد في السياق حرفيًا ولا تقرّب أو تقدّر.",
	TypeDifference:  "قارن بين الكلمتين باستخدام التعريفين الواردين فقط، وإن غاب تعريف إحداهما فصرّح بذلك لتلك الكلمة وحدها.",
	TypeRootAyah:    "اسرد الآيات كما وردت في السياق دون إضافة أو حذف.",
	TypeMorphology:  "اذكر الصيغ الصرفية كما وردت في السياق دون إضافة.",
	TypeDictionary:  "أعد التعريف المعجمي الوارد في السياق كما هو.",
}

// PromptBuilder renders a fixed template per question type.
type PromptBuilder struct{}

// NewPromptBuilder creates a prompt builder.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// Build renders the question and grounding payload into the final prompt.
// Payload facts are embedded verbatim: paraphrasing retrieved facts here
// would risk introducing exactly the hallucination being guarded against.
func (b *PromptBuilder) Build(q Question, classification ClassificationResult, payload GroundingPayload) Prompt {
	system := groundingConstraint
	if extra, ok := typeInstructions[classification.Type]; ok {
		system += "\n" + extra
	}

	return Prompt{
		System: system,
		User: fmt.Sprintf("<question>\n%s\n</question>\n<context>\n%s\n</context>",
			q.Text, renderContext(payload)),
	}
}

// renderContext flattens the payload into plain "key: value" lines.
func renderContext(payload GroundingPayload) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("found: %t", payload.Found))

	if payload.Definition != "" {
		lines = append(lines, "definition: "+payload.Definition)
	}

	if c := payload.Comparison; c != nil {
		lines = append(lines, renderSlot("word_1", c.First)...)
		lines = append(lines, renderSlot("word_2", c.Second)...)
	}

	if f := payload.Frequency; f != nil {
		lines = append(lines, "target: "+f.Target)
		lines = append(lines, fmt.Sprintf("count: %d", f.Count))
		if len(f.Refs) > 0 {
			refs := make([]string, len(f.Refs))
			for i, ref := range f.Refs {
				refs[i] = fmt.Sprintf("%d:%d", ref.Surah, ref.Ayah)
			}
			lines = append(lines, "verse_refs: "+strings.Join(refs, ", "))
		}
	}

	if payload.Kind == TypeRootAyah && payload.Found {
		lines = append(lines, fmt.Sprintf("verse_count: %d", len(payload.Verses)))
		for _, v := range payload.Verses {
			lines = append(lines, fmt.Sprintf("- [%d:%d] %s", v.Surah, v.Ayah, v.Text))
		}
	}

	if payload.Kind == TypeMorphology && payload.Found {
		lines = append(lines, fmt.Sprintf("form_count: %d", len(payload.Forms)))
		if len(payload.Forms) > 0 {
			lines = append(lines, "forms: "+strings.Join(payload.Forms, "، "))
		}
	}

	return strings.Join(lines, "\n")
}

func renderSlot(prefix string, slot DefinitionSlot) []string {
	lines := []string{
		fmt.Sprintf("%s: %s", prefix, slot.Word),
		fmt.Sprintf("%s_found: %t", prefix, slot.Found),
	}
	if slot.Found {
		lines = append(lines, fmt.Sprintf("%s_definition: %s", prefix, slot.Definition))
	}
	return lines
}
