package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Tameem1/quran-chatbot/internal/pipeline"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format. Type defaults to "ask".
type wsRequest struct {
	Type     string `json:"type"`
	Question string `json:"question"`
}

// wsMessage is the outgoing WebSocket message format. Status messages stream
// one per stage transition; a result or error message terminates the run.
type wsMessage struct {
	Type        string                `json:"type"` // "status", "result", "error"
	RunID       string                `json:"run_id,omitempty"`
	Stage       pipeline.Stage        `json:"stage,omitempty"`
	StageIndex  int                   `json:"stage_index,omitempty"`
	TotalStages int                   `json:"total_stages,omitempty"`
	Message     string                `json:"message,omitempty"`
	Answer      string                `json:"answer,omitempty"`
	Question    pipeline.QuestionType `json:"question_type,omitempty"`
	Error       string                `json:"error,omitempty"`
}

var wsStageIndex = map[pipeline.Stage]int{
	pipeline.StageClassified: 1,
	pipeline.StageExtracted:  2,
	pipeline.StageRetrieved:  3,
	pipeline.StagePrompted:   4,
	pipeline.StageAnswered:   5,
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read: %v", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendWS(conn, wsMessage{Type: "error", Error: "invalid message format"})
			continue
		}
		if req.Type != "" && req.Type != "ask" {
			s.sendWS(conn, wsMessage{Type: "error", Error: "unknown message type: " + req.Type})
			continue
		}
		if req.Question == "" {
			s.sendWS(conn, wsMessage{Type: "error", Error: "question is required"})
			continue
		}

		s.handleAskOverWS(conn, r, req)
	}
}

func (s *Server) handleAskOverWS(conn *websocket.Conn, r *http.Request, req wsRequest) {
	res := s.pipeline.AnswerWithEvents(r.Context(), pipeline.Question{Text: req.Question}, func(ev pipeline.StatusEvent) {
		if ev.Stage == pipeline.StageFailed {
			return // the terminal error message carries the failure
		}
		s.sendWS(conn, wsMessage{
			Type:        "status",
			Stage:       ev.Stage,
			StageIndex:  wsStageIndex[ev.Stage],
			TotalStages: pipeline.TotalStages,
			Message:     ev.Message,
		})
	})

	if res.Err != nil {
		s.sendWS(conn, wsMessage{
			Type:   "error",
			RunID:  res.RunID,
			Answer: res.Answer,
			Error:  errorCode(res.Err),
		})
		return
	}

	s.sendWS(conn, wsMessage{
		Type:     "result",
		RunID:    res.RunID,
		Answer:   res.Answer,
		Question: res.QuestionType,
	})
}

func (s *Server) sendWS(conn *websocket.Conn, msg wsMessage) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("server: websocket write: %v", err)
	}
}
