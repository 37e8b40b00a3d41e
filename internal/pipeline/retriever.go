package pipeline

import (
	"fmt"

	"github.com/Tameem1/quran-chatbot/internal/corpus"
)

// Retriever turns (question type, entity) into a grounding payload by
// querying the corpus store. Retrieval is read-only and deterministic:
// identical input yields an identical payload for the lifetime of the loaded
// corpus. "Not found" is data (Found=false), never an error.
type Retriever struct {
	store *corpus.Store
}

// NewRetriever creates a retriever over the given corpus store.
func NewRetriever(store *corpus.Store) *Retriever {
	return &Retriever{store: store}
}

type retrieveFunc func(*Retriever, ExtractedEntity) (GroundingPayload, error)

// retrievalDispatch keys one retrieval strategy per question type.
var retrievalDispatch = map[QuestionType]retrieveFunc{
	TypeWordMeaning: (*Retriever).retrieveMeaning,
	TypeDictionary:  (*Retriever).retrieveDictionary,
	TypeFrequency:   (*Retriever).retrieveFrequency,
	TypeDifference:  (*Retriever).retrieveDifference,
	TypeRootAyah:    (*Retriever).retrieveVerses,
	TypeMorphology:  (*Retriever).retrieveMorphology,
}

// Retrieve dispatches on the question type. An error here is an internal
// corpus failure, not a missing entry.
func (r *Retriever) Retrieve(qtype QuestionType, entity ExtractedEntity) (GroundingPayload, error) {
	fn, ok := retrievalDispatch[qtype]
	if !ok {
		return GroundingPayload{}, fmt.Errorf("no retrieval strategy for question type %q", qtype)
	}
	return fn(r, entity)
}

// retrieveMeaning looks up the dictionary first and falls back to the
// root-analysis entry of the word's root, so meaning questions about bare
// roots still ground.
func (r *Retriever) retrieveMeaning(entity ExtractedEntity) (GroundingPayload, error) {
	payload := GroundingPayload{Kind: TypeWordMeaning}

	entry, err := r.store.LookupDefinition(entity.Primary)
	if err != nil {
		return payload, err
	}
	if entry != nil {
		payload.Found = true
		payload.Definition = entry.Definition
		return payload, nil
	}

	root, err := r.store.ResolveRoot(entity.Primary)
	if err != nil {
		return payload, err
	}
	rootEntry, err := r.store.LookupRoot(root)
	if err != nil {
		return payload, err
	}
	if rootEntry != nil {
		payload.Found = true
		payload.Definition = rootEntry.Analysis
	}
	return payload, nil
}

// retrieveDictionary is the strict exact-match dictionary lookup.
func (r *Retriever) retrieveDictionary(entity ExtractedEntity) (GroundingPayload, error) {
	payload := GroundingPayload{Kind: TypeDictionary}

	entry, err := r.store.LookupDefinition(entity.Primary)
	if err != nil {
		return payload, err
	}
	if entry != nil {
		payload.Found = true
		payload.Definition = entry.Definition
	}
	return payload, nil
}

// retrieveFrequency counts corpus tokens matching the target's root, falling
// back to surface-word occurrences when the target has no known root. A known
// root with zero occurrences stays Found=true with Count=0; only an entirely
// unknown target yields Found=false.
func (r *Retriever) retrieveFrequency(entity ExtractedEntity) (GroundingPayload, error) {
	payload := GroundingPayload{Kind: TypeFrequency}

	root, err := r.store.ResolveRoot(entity.Primary)
	if err != nil {
		return payload, err
	}
	known, err := r.store.KnownRoot(root)
	if err != nil {
		return payload, err
	}
	if known {
		count, refs, err := r.store.CountTokensByRoot(root)
		if err != nil {
			return payload, err
		}
		payload.Found = true
		payload.Frequency = &Frequency{Target: root, Count: count, Refs: refs}
		return payload, nil
	}

	count, refs, err := r.store.CountWordOccurrences(entity.Primary)
	if err != nil {
		return payload, err
	}
	if count > 0 {
		payload.Found = true
		payload.Frequency = &Frequency{Target: entity.Primary, Count: count, Refs: refs}
	}
	return payload, nil
}

// retrieveDifference performs two independent lookups. A missing definition
// marks only its own slot; the payload is Found when either side grounds.
func (r *Retriever) retrieveDifference(entity ExtractedEntity) (GroundingPayload, error) {
	payload := GroundingPayload{Kind: TypeDifference}

	first, err := r.lookupSlot(entity.Primary)
	if err != nil {
		return payload, err
	}
	second, err := r.lookupSlot(entity.Secondary)
	if err != nil {
		return payload, err
	}

	payload.Comparison = &Comparison{First: first, Second: second}
	payload.Found = first.Found || second.Found
	return payload, nil
}

func (r *Retriever) lookupSlot(word string) (DefinitionSlot, error) {
	slot := DefinitionSlot{Word: word}
	entry, err := r.store.LookupDefinition(word)
	if err != nil {
		return slot, err
	}
	if entry != nil {
		slot.Found = true
		slot.Definition = entry.Definition
	}
	return slot, nil
}

// retrieveVerses returns every verse containing the root, optionally filtered
// by surah. An empty verse list with Found=true means the root is known but
// has zero occurrences under the filter.
func (r *Retriever) retrieveVerses(entity ExtractedEntity) (GroundingPayload, error) {
	payload := GroundingPayload{Kind: TypeRootAyah}

	root, err := r.store.ResolveRoot(entity.Primary)
	if err != nil {
		return payload, err
	}
	known, err := r.store.KnownRoot(root)
	if err != nil {
		return payload, err
	}
	if !known {
		return payload, nil
	}

	verses, err := r.store.VersesByRoot(root, entity.Surah)
	if err != nil {
		return payload, err
	}
	payload.Found = true
	payload.Verses = verses
	return payload, nil
}

// retrieveMorphology lists the recorded surface forms of the target's root.
func (r *Retriever) retrieveMorphology(entity ExtractedEntity) (GroundingPayload, error) {
	payload := GroundingPayload{Kind: TypeMorphology}

	root, err := r.store.ResolveRoot(entity.Primary)
	if err != nil {
		return payload, err
	}
	known, err := r.store.KnownRoot(root)
	if err != nil {
		return payload, err
	}
	if !known {
		return payload, nil
	}

	forms, err := r.store.Forms(root)
	if err != nil {
		return payload, err
	}
	payload.Found = true
	payload.Forms = forms
	return payload, nil
}
