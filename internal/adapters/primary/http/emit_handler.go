package http

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	wsAdapter "github.com/loftbase/studio-backend/internal/adapters/primary/websocket"
	"github.com/loftbase/studio-backend/internal/core/domain"
	"github.com/loftbase/studio-backend/internal/observability"
)

// EmitRequest is the JSON body the API process posts to the relay's intake
// endpoint. The payload stays raw until the event itself has been accepted.
type EmitRequest struct {
	Type       string          `json:"type"`
	EventType  string          `json:"eventType"`
	WorkTaskID string          `json:"workTaskId"`
	SubtaskID  string          `json:"subtaskId"`
	ProjectID  string          `json:"projectId"`
	Payload    json.RawMessage `json:"payload"`
}

// EmitHandler accepts internal broadcast requests and fans them out to the
// target room. It is the only write path into the hub besides the
// connections themselves.
type EmitHandler struct {
	hub    *wsAdapter.Hub
	apiKey string
	logger *slog.Logger
}

// NewEmitHandler creates the internal emit endpoint handler.
func NewEmitHandler(hub *wsAdapter.Hub, apiKey string, logger *slog.Logger) *EmitHandler {
	return &EmitHandler{
		hub:    hub,
		apiKey: apiKey,
		logger: logger.With("handler", "emit"),
	}
}

// HandleEmit handles POST /emit. The response is written only after the
// in-process fan-out has completed; callers treat any 2xx as "delivered to
// whoever was in the room".
func (h *EmitHandler) HandleEmit(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	if !h.authorize(r) {
		// A bad key on an internal endpoint means a misconfigured caller
		// or a probe. Either way it deserves a loud log line.
		h.logger.Warn("emit rejected: invalid api key",
			"request_id", requestID,
			"remote_addr", r.RemoteAddr,
		)
		observability.EmitRequest("unauthorized")
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Invalid API key",
			Code:  "UNAUTHORIZED",
		})
		return
	}

	var req EmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("emit rejected: malformed body",
			"request_id", requestID,
			"error", err,
		)
		observability.EmitRequest("bad_request")
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "BAD_REQUEST",
		})
		return
	}

	event := domain.Event{
		Category:   domain.EventCategory(req.Type),
		EventType:  domain.EventType(req.EventType),
		WorkTaskID: req.WorkTaskID,
		SubtaskID:  req.SubtaskID,
		ProjectID:  req.ProjectID,
	}

	room, err := event.Room()
	if err != nil {
		h.logger.Warn("emit rejected: invalid event",
			"request_id", requestID,
			"type", req.Type,
			"event_type", req.EventType,
		)
		observability.EmitRequest("bad_request")
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "Unknown or incomplete event",
			Code:  "INVALID_EVENT",
		})
		return
	}

	payload := stampPayload(req)

	recipients := h.hub.BroadcastToRoom(room, wsAdapter.ServerMessage{
		Event:   event.Name(),
		Payload: payload,
	})

	h.logger.Info("event broadcast",
		"request_id", requestID,
		"event", event.Name(),
		"room", room,
		"recipients", recipients,
	)
	observability.EmitRequest("ok")

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// authorize compares the X-Api-Key header against the shared secret in
// constant time.
func (h *EmitHandler) authorize(r *http.Request) bool {
	key := r.Header.Get("X-Api-Key")
	if key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(h.apiKey)) == 1
}

// stampPayload merges the relay's envelope fields into the caller-supplied
// payload: the scoping ids and a fan-out timestamp. Caller keys never
// override the stamped ones.
func stampPayload(req EmitRequest) map[string]any {
	payload := make(map[string]any)
	if len(req.Payload) > 0 {
		// A non-object payload is kept under its own key rather than
		// rejected; the scoping ids still ride alongside it.
		if err := json.Unmarshal(req.Payload, &payload); err != nil {
			var raw any
			if json.Unmarshal(req.Payload, &raw) == nil && raw != nil {
				payload = map[string]any{"data": raw}
			} else {
				payload = make(map[string]any)
			}
		}
	}

	if req.WorkTaskID != "" {
		payload["workTaskId"] = req.WorkTaskID
	}
	if req.SubtaskID != "" {
		payload["subtaskId"] = req.SubtaskID
	}
	if req.ProjectID != "" {
		payload["projectId"] = req.ProjectID
	}
	payload["timestamp"] = time.Now().UTC().Format(time.RFC3339)

	return payload
}
