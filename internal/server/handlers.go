package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Tameem1/quran-chatbot/internal/pipeline"
)

// askRequest is the JSON body of POST /ask and POST /ask/stream.
type askRequest struct {
	Question string `json:"question"`
	Verbose  bool   `json:"verbose"`
}

// askResponse is the JSON response of POST /ask.
type askResponse struct {
	RunID            string                 `json:"run_id"`
	Answer           string                 `json:"answer"`
	QuestionType     pipeline.QuestionType  `json:"question_type"`
	TargetEntity     string                 `json:"target_entity,omitempty"`
	SurahFilter      int                    `json:"surah_filter,omitempty"`
	ProcessingTimeMS int64                  `json:"processing_time_ms"`
	Error            string                 `json:"error,omitempty"`
	StatusEvents     []pipeline.StatusEvent `json:"status_events,omitempty"`
	TotalStages      int                    `json:"total_stages,omitempty"`
}

// capabilityInfo describes one supported question type.
type capabilityInfo struct {
	Type        pipeline.QuestionType `json:"type"`
	Description string                `json:"description"`
}

var capabilities = []capabilityInfo{
	{pipeline.TypeWordMeaning, "شرح معنى كلمة قرآنية"},
	{pipeline.TypeFrequency, "عدد مرات ورود كلمة أو جذر في القرآن"},
	{pipeline.TypeDifference, "الفرق بين كلمتين قرآنيتين"},
	{pipeline.TypeRootAyah, "استخراج الآيات التي ورد فيها جذر"},
	{pipeline.TypeMorphology, "الصيغ الصرفية لجذر"},
	{pipeline.TypeDictionary, "البحث المعجمي عن كلمة"},
}

var exampleQuestions = []string{
	"ما معنى كلمة غفر؟",
	"كم مرة ورد جذر سجد في القرآن؟",
	"ما الفرق بين الرحمة والرأفة؟",
	"استخرج الآيات التي ورد فيها جذر صبر في سورة البقرة",
	"ما الصيغ الصرفية لجذر كتب؟",
	"ابحث في المعجم عن كلمة فطر",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "corpus unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"corpus": stats,
	})
}

func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"capabilities": capabilities})
}

func (s *Server) handleExamples(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"examples": exampleQuestions})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	q, ok := decodeQuestion(w, r)
	if !ok {
		return
	}

	res := s.pipeline.Answer(r.Context(), q)
	// A verbose request gets the event log even on the non-stream endpoint.
	writeJSON(w, statusFor(res.Err), toAskResponse(res, q.Verbose))
}

// handleAskStream runs the pipeline to completion and returns the full status
// event log alongside the answer. Incremental delivery lives on /ws.
func (s *Server) handleAskStream(w http.ResponseWriter, r *http.Request) {
	q, ok := decodeQuestion(w, r)
	if !ok {
		return
	}

	res := s.pipeline.Answer(r.Context(), q)
	writeJSON(w, statusFor(res.Err), toAskResponse(res, true))
}

func decodeQuestion(w http.ResponseWriter, r *http.Request) (pipeline.Question, bool) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return pipeline.Question{}, false
	}
	if req.Question == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return pipeline.Question{}, false
	}
	return pipeline.Question{Text: req.Question, Verbose: req.Verbose}, true
}

func toAskResponse(res *pipeline.Result, withEvents bool) askResponse {
	resp := askResponse{
		RunID:            res.RunID,
		Answer:           res.Answer,
		QuestionType:     res.QuestionType,
		TargetEntity:     res.TargetEntity,
		SurahFilter:      res.SurahFilter,
		ProcessingTimeMS: res.ProcessingTime.Milliseconds(),
	}
	if res.Err != nil {
		resp.Error = errorCode(res.Err)
	}
	if withEvents {
		resp.StatusEvents = res.Events
		resp.TotalStages = pipeline.TotalStages
	}
	return resp
}

// errorCode maps sentinel pipeline errors to stable API codes. The Arabic
// user-facing explanation is already in the answer field.
func errorCode(err error) string {
	switch {
	case errors.Is(err, pipeline.ErrInvalidQuestion):
		return "invalid_question"
	case errors.Is(err, pipeline.ErrExtractionFailed):
		return "extraction_failed"
	case errors.Is(err, pipeline.ErrLLMUnavailable):
		return "llm_unavailable"
	default:
		return "internal_error"
	}
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, pipeline.ErrInvalidQuestion):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrExtractionFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, pipeline.ErrLLMUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
