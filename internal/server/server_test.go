package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/Tameem1/quran-chatbot/internal/corpus"
	"github.com/Tameem1/quran-chatbot/internal/llm"
	"github.com/Tameem1/quran-chatbot/internal/pipeline"
)

const morphologyFixture = `
{"surah":1,"ayah":1,"word_index":1,"token_index":1,"token":"يسجد","lemma":"سجد","root":"سجد"}
{"surah":2,"ayah":5,"word_index":1,"token_index":1,"token":"سجدوا","lemma":"سجد","root":"سجد"}
`

const rootsFixture = `
{"root":"سجد","meaning":"وضع الجبهة على الأرض خضوعا"}
`

const dictionaryFixture = `
{"word":"غفر","definition":"ستر الذنب وتجاوز عنه"}
`

// fixedProvider returns the same completion for every request.
type fixedProvider struct {
	answer string
	err    error
}

func (p fixedProvider) Name() string { return "fixed" }

func (p fixedProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompletionResponse{Content: p.answer}, nil
}

func newTestServer(t *testing.T, provider llm.Provider) *Server {
	t.Helper()
	dir := t.TempDir()
	paths := corpus.Paths{
		Morphology: filepath.Join(dir, "quran_morphology.jsonl"),
		Roots:      filepath.Join(dir, "root_analysis.jsonl"),
		Dictionary: filepath.Join(dir, "arabic_dictionary.jsonl"),
	}
	for path, content := range map[string]string{
		paths.Morphology: morphologyFixture,
		paths.Roots:      rootsFixture,
		paths.Dictionary: dictionaryFixture,
	} {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	store, err := corpus.Open(paths)
	if err != nil {
		t.Fatalf("corpus.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	p := pipeline.New(store, provider, pipeline.Settings{Model: "test-model"})
	return New(Config{Port: 0, AllowAll: true}, p, store)
}

func postJSON(t *testing.T, srv *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, fixedProvider{answer: "ok"})

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Status string       `json:"status"`
		Corpus corpus.Stats `json:"corpus"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("expected status 'ok', got %q", body.Status)
	}
	if body.Corpus.Tokens != 2 {
		t.Errorf("expected 2 corpus tokens, got %d", body.Corpus.Tokens)
	}
}

func TestCapabilities(t *testing.T) {
	srv := newTestServer(t, fixedProvider{answer: "ok"})

	req := httptest.NewRequest("GET", "/capabilities", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Capabilities []capabilityInfo `json:"capabilities"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Capabilities) != len(pipeline.AllQuestionTypes()) {
		t.Errorf("expected %d capabilities, got %d", len(pipeline.AllQuestionTypes()), len(body.Capabilities))
	}
}

func TestExamples(t *testing.T) {
	srv := newTestServer(t, fixedProvider{answer: "ok"})

	req := httptest.NewRequest("GET", "/examples", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Examples []string `json:"examples"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Examples) == 0 {
		t.Error("expected example questions")
	}
}

func TestAsk(t *testing.T) {
	srv := newTestServer(t, fixedProvider{answer: "غفر تعني ستر الذنب"})

	w := postJSON(t, srv, "/ask", `{"question":"ما معنى كلمة غفر؟"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body askResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Answer != "غفر تعني ستر الذنب" {
		t.Errorf("answer = %q", body.Answer)
	}
	if body.QuestionType != pipeline.TypeWordMeaning {
		t.Errorf("question_type = %s", body.QuestionType)
	}
	if body.RunID == "" {
		t.Error("expected a run_id")
	}
	if len(body.StatusEvents) != 0 {
		t.Error("/ask must not include status events")
	}
}

func TestAskRejectsBadBody(t *testing.T) {
	srv := newTestServer(t, fixedProvider{answer: "ok"})

	for _, body := range []string{"not json", `{}`, `{"question":""}`} {
		w := postJSON(t, srv, "/ask", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, w.Code)
		}
	}
}

func TestAskInvalidQuestion(t *testing.T) {
	srv := newTestServer(t, fixedProvider{answer: "ok"})

	w := postJSON(t, srv, "/ask", `{"question":"   "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var body askResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "invalid_question" {
		t.Errorf("error code = %q", body.Error)
	}
	if body.Answer == "" {
		t.Error("expected a user-facing explanation")
	}
}

func TestAskExtractionFailed(t *testing.T) {
	srv := newTestServer(t, fixedProvider{err: errors.New("down")})

	w := postJSON(t, srv, "/ask", `{"question":"ما معنى هذا؟"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	var body askResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "extraction_failed" {
		t.Errorf("error code = %q", body.Error)
	}
}

func TestAskLLMUnavailable(t *testing.T) {
	srv := newTestServer(t, fixedProvider{err: errors.New("connection refused")})

	w := postJSON(t, srv, "/ask", `{"question":"ما معنى كلمة غفر؟"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	var body askResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "llm_unavailable" {
		t.Errorf("error code = %q", body.Error)
	}
	if strings.Contains(body.Answer, "connection refused") {
		t.Error("raw error leaked to the API response")
	}
}

func TestAskStreamIncludesEvents(t *testing.T) {
	srv := newTestServer(t, fixedProvider{answer: "إجابة"})

	w := postJSON(t, srv, "/ask/stream", `{"question":"ما معنى كلمة غفر؟"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body askResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.TotalStages != pipeline.TotalStages {
		t.Errorf("total_stages = %d, want %d", body.TotalStages, pipeline.TotalStages)
	}
	if len(body.StatusEvents) == 0 {
		t.Fatal("expected status events")
	}
	if body.StatusEvents[0].Stage != pipeline.StagePending {
		t.Errorf("first event = %s, want PENDING", body.StatusEvents[0].Stage)
	}
	last := body.StatusEvents[len(body.StatusEvents)-1]
	if last.Stage != pipeline.StageAnswered {
		t.Errorf("last event = %s, want ANSWERED", last.Stage)
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t, fixedProvider{answer: "ok"})

	req := httptest.NewRequest("OPTIONS", "/ask", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestWebSocketAsk(t *testing.T) {
	srv := newTestServer(t, fixedProvider{answer: "إجابة نهائية"})

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(wsRequest{Type: "ask", Question: "ما معنى كلمة غفر؟"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var stages []pipeline.Stage
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		switch msg.Type {
		case "status":
			stages = append(stages, msg.Stage)
			if msg.TotalStages != pipeline.TotalStages {
				t.Errorf("total_stages = %d", msg.TotalStages)
			}
		case "result":
			if msg.Answer != "إجابة نهائية" {
				t.Errorf("answer = %q", msg.Answer)
			}
			if len(stages) == 0 || stages[len(stages)-1] != pipeline.StageAnswered {
				t.Errorf("status stream incomplete: %v", stages)
			}
			return
		case "error":
			t.Fatalf("unexpected error message: %+v", msg)
		}
	}
}

func TestWebSocketRejectsUnknownType(t *testing.T) {
	srv := newTestServer(t, fixedProvider{answer: "ok"})

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(wsRequest{Type: "chat", Question: "سؤال"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var msg wsMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "error" {
		t.Errorf("expected error message, got %+v", msg)
	}
}
