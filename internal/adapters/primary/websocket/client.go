package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/loftbase/studio-backend/internal/core/domain"
	apperrors "github.com/loftbase/studio-backend/internal/core/errors"
	"github.com/loftbase/studio-backend/internal/core/ports"
	"github.com/loftbase/studio-backend/internal/observability"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024

	// Deadline for a single room-authorization lookup.
	authTimeout = 5 * time.Second
)

// Client is a middleman between one websocket connection and the hub. Its
// authenticated user id is set at handshake and immutable for the
// connection's lifetime.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// Buffered channel of outbound messages. Never closed: a broadcast
	// holding a membership snapshot may still try to queue on it after the
	// hub has dropped this client, and a send on a closed channel panics.
	// Teardown is signalled through done instead.
	Send chan ServerMessage

	// done is closed exactly once when the connection is torn down.
	done chan struct{}

	// UserID is the authenticated identity for this connection.
	UserID uuid.UUID

	// access authorizes room joins against persisted data. Called on every
	// join attempt; never cached across attempts.
	access ports.RoomAccessService

	// rooms tracks this connection's memberships so disconnect can drop
	// them all.
	rooms map[string]bool

	// closeOnce ensures done is only closed once
	closeOnce sync.Once

	// mu protects the rooms map
	mu sync.RWMutex

	// logger for this client
	logger *slog.Logger
}

// NewClient creates a new relay client for an authenticated connection.
func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, access ports.RoomAccessService, logger *slog.Logger) *Client {
	return &Client{
		Hub:    hub,
		Conn:   conn,
		Send:   make(chan ServerMessage, 256),
		done:   make(chan struct{}),
		UserID: userID,
		access: access,
		rooms:  make(map[string]bool),
		logger: logger.With("user_id", userID.String()),
	}
}

// Close marks the connection as torn down and wakes the write pump. Safe to
// call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// sendResult reports what happened to a non-blocking queue attempt.
type sendResult int

const (
	sendQueued sendResult = iota
	sendClosed
	sendFull
)

// queue tries to place the message on the outbound buffer without blocking.
// A torn-down client reports sendClosed: the hub is already unregistering it
// and nothing further should be done on its behalf.
func (c *Client) queue(msg ServerMessage) sendResult {
	select {
	case <-c.done:
		return sendClosed
	default:
	}

	select {
	case c.Send <- msg:
		return sendQueued
	case <-c.done:
		return sendClosed
	default:
		return sendFull
	}
}

func (c *Client) addRoom(room string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[room] = true
}

func (c *Client) removeRoom(room string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rooms, room)
}

// Rooms returns a copy of the connection's current memberships.
func (c *Client) Rooms() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rooms := make([]string, 0, len(c.rooms))
	for room := range c.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// ReadPump pumps messages from the websocket connection to the hub.
// This method runs in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error("failed to set read deadline", "error", err)
		return
	}

	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.logger.Error("failed to set read deadline in pong handler", "error", err)
		}
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			break
		}

		c.handleIncomingMessage(message)
	}
}

// WritePump pumps messages from the hub to the websocket connection.
// This method runs in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline", "error", err)
				return
			}

			if err := c.writeJSON(msg); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}

		case <-c.done:
			// The hub unregistered this client. Send close message.
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
				c.logger.Debug("failed to send close message", "error", err)
			}
			return

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline for ping", "error", err)
				return
			}

			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("failed to send ping", "error", err)
				return
			}
		}
	}
}

// writeJSON writes a JSON message to the websocket connection
func (c *Client) writeJSON(msg ServerMessage) error {
	w, err := c.Conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}

	if err := json.NewEncoder(w).Encode(msg); err != nil {
		_ = w.Close()
		return err
	}

	return w.Close()
}

// --- Incoming Message Handling ---

// handleIncomingMessage processes messages received from the client
func (c *Client) handleIncomingMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Warn("failed to unmarshal client message", "error", err)
		return
	}

	switch msg.Event {
	case EventJoinWorkTask:
		c.handleJoinWorkTask(msg.Payload)

	case EventLeaveWorkTask:
		c.handleLeaveWorkTask(msg.Payload)

	case EventJoinProject:
		c.handleJoinProject(msg.Payload)

	case EventLeaveProject:
		c.handleLeaveProject(msg.Payload)

	default:
		c.logger.Debug("received unknown event", "event", msg.Event)
	}
}

// handleJoinWorkTask authorizes the join against the persistence layer and,
// on success, answers the joining connection alone with the new member count.
// Denial and not-found are never silent: the client always gets an error
// event and is not added to the room.
func (c *Client) handleJoinWorkTask(payload json.RawMessage) {
	var p JoinWorkTaskPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.logger.Warn("failed to unmarshal join payload", "error", err)
		c.sendError("Invalid join payload")
		return
	}

	workTaskID, err := uuid.Parse(p.WorkTaskID)
	if err != nil {
		c.sendError("Invalid work task id")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
	defer cancel()

	if err := c.access.AuthorizeWorkTask(ctx, c.UserID, workTaskID); err != nil {
		c.denyJoin("work task", workTaskID.String(), err)
		return
	}

	room := domain.WorkTaskRoom(workTaskID.String())
	count := c.Hub.JoinRoom(c, room)
	observability.RoomJoin("joined")

	c.send(ServerMessage{
		Event: EventJoinedWorkTask,
		Payload: JoinedWorkTaskPayload{
			WorkTaskID:  workTaskID.String(),
			RoomID:      room,
			ClientCount: count,
		},
	})
}

func (c *Client) handleLeaveWorkTask(payload json.RawMessage) {
	var p JoinWorkTaskPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.logger.Warn("failed to unmarshal leave payload", "error", err)
		return
	}

	workTaskID, err := uuid.Parse(p.WorkTaskID)
	if err != nil {
		return
	}

	c.Hub.LeaveRoom(c, domain.WorkTaskRoom(workTaskID.String()))
}

func (c *Client) handleJoinProject(payload json.RawMessage) {
	var p JoinProjectPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.logger.Warn("failed to unmarshal join payload", "error", err)
		c.sendError("Invalid join payload")
		return
	}

	projectID, err := uuid.Parse(p.ProjectID)
	if err != nil {
		c.sendError("Invalid project id")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
	defer cancel()

	if err := c.access.AuthorizeProject(ctx, c.UserID, projectID); err != nil {
		c.denyJoin("project", projectID.String(), err)
		return
	}

	room := domain.ProjectRoom(projectID.String())
	c.Hub.JoinRoom(c, room)
	observability.RoomJoin("joined")

	c.send(ServerMessage{
		Event: EventJoinedProject,
		Payload: JoinedProjectPayload{
			ProjectID: projectID.String(),
			RoomID:    room,
		},
	})
}

func (c *Client) handleLeaveProject(payload json.RawMessage) {
	var p JoinProjectPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.logger.Warn("failed to unmarshal leave payload", "error", err)
		return
	}

	projectID, err := uuid.Parse(p.ProjectID)
	if err != nil {
		return
	}

	c.Hub.LeaveRoom(c, domain.ProjectRoom(projectID.String()))
}

func (c *Client) denyJoin(kind, id string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrWorkTaskNotFound), errors.Is(err, apperrors.ErrProjectNotFound):
		observability.RoomJoin("not_found")
		c.logger.Warn("join refused: target not found", "target", kind, "target_id", id)
		c.sendError("The " + kind + " was not found")

	case errors.Is(err, apperrors.ErrForbidden):
		observability.RoomJoin("denied")
		c.logger.Warn("join refused: access denied", "target", kind, "target_id", id)
		c.sendError("You do not have access to this " + kind)

	default:
		observability.RoomJoin("error")
		c.logger.Error("join authorization failed", "target", kind, "target_id", id, "error", err)
		c.sendError("Could not verify access, try again")
	}
}

func (c *Client) sendError(message string) {
	c.send(ServerMessage{
		Event:   EventError,
		Payload: ErrorPayload{Message: message},
	})
}

func (c *Client) send(msg ServerMessage) {
	if c.queue(msg) != sendQueued {
		observability.EventDropped()
	}
}
