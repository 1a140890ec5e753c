package http

import (
	"encoding/json"
	"log"
	"net/http"

	"wellness-survey-service/internal/app"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.SurveyService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.SurveyService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	Department string `json:"department"`
}

type ratePayload struct {
	Rating int `json:"rating"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type departmentsPayload struct {
	Departments []string `json:"departments"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the
// survey wizard use cases. Each connection drives exactly one session; the
// client sends select/rate/next/previous/submit actions and receives
// question, result, and error events to render.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "missing sessionId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	defer h.service.Leave(r.Context(), sessionID)

	names, err := h.service.Departments(r.Context())
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	if err := conn.WriteJSON(outboundMessage[departmentsPayload]{Type: "departments", Payload: departmentsPayload{Departments: names}}); err != nil {
		return
	}

	// The wizard is strictly request/response per session, so a single
	// read-handle-write loop is enough; there is no concurrent writer.
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		if !h.handle(conn, r, sessionID, inbound) {
			return
		}
	}
}

// handle processes one inbound action. It returns false when the connection
// should be torn down.
func (h *WSHandler) handle(conn *websocket.Conn, r *http.Request, sessionID string, inbound inboundMessage) bool {
	switch inbound.Type {
	case "select":
		var payload selectPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return writeError(conn, "invalid select payload")
		}
		view, err := h.service.SelectDepartment(r.Context(), sessionID, payload.Department)
		if err != nil {
			return writeError(conn, err.Error())
		}
		if payload.Department == "" {
			return writeJSON(conn, outboundMessage[struct{}]{Type: "deselected"})
		}
		return writeJSON(conn, outboundMessage[any]{Type: "question", Payload: view})

	case "rate":
		var payload ratePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return writeError(conn, "invalid rate payload")
		}
		view, err := h.service.Rate(r.Context(), sessionID, payload.Rating)
		if err != nil {
			return writeError(conn, err.Error())
		}
		return writeJSON(conn, outboundMessage[any]{Type: "question", Payload: view})

	case "next":
		view, err := h.service.Next(r.Context(), sessionID)
		if err != nil {
			return writeError(conn, err.Error())
		}
		return writeJSON(conn, outboundMessage[any]{Type: "question", Payload: view})

	case "previous":
		view, err := h.service.Previous(r.Context(), sessionID)
		if err != nil {
			return writeError(conn, err.Error())
		}
		return writeJSON(conn, outboundMessage[any]{Type: "question", Payload: view})

	case "submit":
		// The model call blocks; tell the client to show progress first.
		if !writeJSON(conn, outboundMessage[struct{}]{Type: "generating"}) {
			return false
		}
		result, err := h.service.Submit(r.Context(), sessionID)
		if err != nil {
			return writeError(conn, err.Error())
		}
		return writeJSON(conn, outboundMessage[any]{Type: "result", Payload: result})

	default:
		return writeError(conn, "unsupported message type")
	}
}

func writeError(conn *websocket.Conn, message string) bool {
	return writeJSON(conn, outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: message}})
}

func writeJSON[T any](conn *websocket.Conn, msg outboundMessage[T]) bool {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("ws write error: %v", err)
		return false
	}
	return true
}
