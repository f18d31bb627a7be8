package websocket

import (
	"encoding/json"
)

// Client-to-relay event names.
const (
	EventJoinWorkTask  = "join:work-task"
	EventLeaveWorkTask = "leave:work-task"
	EventJoinProject   = "join:project"
	EventLeaveProject  = "leave:project"
)

// Relay-to-client event names. Broadcast events are named dynamically from
// the domain event's category and type, e.g. "subtask:status-changed".
const (
	EventJoinedWorkTask = "joined:work-task"
	EventJoinedProject  = "joined:project"
	EventError          = "error"
)

// ClientMessage is the envelope for messages sent by browser clients.
type ClientMessage struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// ServerMessage is the envelope for messages sent to browser clients.
type ServerMessage struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// JoinWorkTaskPayload is the payload of join:work-task / leave:work-task.
type JoinWorkTaskPayload struct {
	WorkTaskID string `json:"workTaskId"`
}

// JoinProjectPayload is the payload of join:project / leave:project.
type JoinProjectPayload struct {
	ProjectID string `json:"projectId"`
}

// JoinedWorkTaskPayload answers a successful work-task join. It is sent to
// the joining connection only, never broadcast.
type JoinedWorkTaskPayload struct {
	WorkTaskID  string `json:"workTaskId"`
	RoomID      string `json:"roomId"`
	ClientCount int    `json:"clientCount"`
}

// JoinedProjectPayload answers a successful project join.
type JoinedProjectPayload struct {
	ProjectID string `json:"projectId"`
	RoomID    string `json:"roomId"`
}

// ErrorPayload carries a join failure to the requesting connection.
type ErrorPayload struct {
	Message string `json:"message"`
}
