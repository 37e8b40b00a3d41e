package pipeline

import "errors"

// Fatal pipeline conditions. Stage-local conditions with a safe default
// (ambiguous classification, not-found retrieval) are absorbed and carried
// forward as data instead; these three abort the run.
var (
	// ErrInvalidQuestion rejects empty or malformed input before stage 1.
	ErrInvalidQuestion = errors.New("invalid question")

	// ErrExtractionFailed means neither the rule tier nor the model-assisted
	// tier produced a target entity, so no grounding can be retrieved.
	ErrExtractionFailed = errors.New("entity extraction failed")

	// ErrLLMUnavailable means the completion service timed out or failed on
	// every attempt.
	ErrLLMUnavailable = errors.New("llm service unavailable")
)
