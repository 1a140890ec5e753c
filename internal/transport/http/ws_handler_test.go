package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wellness-survey-service/internal/app"
	"wellness-survey-service/internal/domain"
	"wellness-survey-service/internal/infra/memory"
	"github.com/gorilla/websocket"
)

func TestWebSocketSurveyFlow(t *testing.T) {
	store := memory.NewSessionStore()
	departments := memory.NewDepartmentRepository(memory.NewBuiltinDepartmentLoader(), time.Minute)
	service := app.NewSurveyService(store, departments, &stubGenerator{})
	wsHandler := NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?sessionId=s1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// The department list arrives first.
	msgType, payload := readNext(conn, t, "departments")
	if msgType != "departments" {
		t.Fatalf("expected departments, got %s", msgType)
	}
	if payload == nil {
		t.Fatalf("expected departments payload, got nil")
	}

	// Pick Sales and expect the first question.
	writeAction(conn, t, map[string]any{
		"type":    "select",
		"payload": map[string]any{"department": "Sales"},
	})
	_, payload = readNext(conn, t, "question")
	if payload["index"].(float64) != 0 || payload["total"].(float64) != 10 {
		t.Fatalf("expected question 0 of 10, got %+v", payload)
	}

	// Rate the first question, then walk forward with defaults.
	writeAction(conn, t, map[string]any{
		"type":    "rate",
		"payload": map[string]any{"rating": 5},
	})
	_, payload = readNext(conn, t, "question")
	if payload["rating"].(float64) != 5 {
		t.Fatalf("expected rating echoed back, got %+v", payload)
	}

	for i := 0; i < 9; i++ {
		writeAction(conn, t, map[string]any{"type": "next"})
		_, payload = readNext(conn, t, "question")
	}
	if payload["canSubmit"] != true {
		t.Fatalf("expected last question to allow submit, got %+v", payload)
	}

	writeAction(conn, t, map[string]any{"type": "submit"})
	readNext(conn, t, "generating")
	_, payload = readNext(conn, t, "result")
	if payload["summary"] != "Stub summary" {
		t.Fatalf("expected stub summary, got %+v", payload)
	}
}

func TestWebSocketRejectsInvalidAction(t *testing.T) {
	store := memory.NewSessionStore()
	departments := memory.NewDepartmentRepository(memory.NewBuiltinDepartmentLoader(), time.Minute)
	service := app.NewSurveyService(store, departments, &stubGenerator{})
	wsHandler := NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?sessionId=s1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	readNext(conn, t, "departments")

	// Navigation before selecting a department is an error, not a crash.
	writeAction(conn, t, map[string]any{"type": "next"})
	_, payload := readNext(conn, t, "error")
	if payload["message"] == "" {
		t.Fatalf("expected error message, got %+v", payload)
	}

	writeAction(conn, t, map[string]any{"type": "launch-missiles"})
	readNext(conn, t, "error")
}

func writeAction(conn *websocket.Conn, t *testing.T, action map[string]any) {
	t.Helper()
	if err := conn.WriteJSON(action); err != nil {
		t.Fatalf("write %v: %v", action["type"], err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}

type stubGenerator struct{}

func (g *stubGenerator) GenerateRecommendations(_ context.Context, department string, _ map[string]int) domain.RecommendationResult {
	return domain.RecommendationResult{
		Recommendations: []string{"- Stub recommendation for " + department},
		Summary:         "Stub summary",
	}
}
