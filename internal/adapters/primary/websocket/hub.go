package websocket

import (
	"log/slog"
	"sync"

	"github.com/loftbase/studio-backend/internal/observability"
)

// Hub is the relay's room registry. It maps room names ("work-task:<id>",
// "project:<id>") to the set of currently-joined connections. Rooms are not
// stored entities: one appears when its first member joins and vanishes when
// its last member leaves or disconnects.
//
// A single RWMutex guards the registry; fan-out snapshots membership under
// the read lock so a concurrent join cannot race an in-flight broadcast.
type Hub struct {
	// rooms maps room names to joined clients.
	rooms map[string]map[*Client]bool

	// Register requests from new connections.
	Register chan *Client

	// Unregister requests from disconnecting connections.
	Unregister chan *Client

	// mu protects the rooms map.
	mu sync.RWMutex

	// logger for the hub
	logger *slog.Logger
}

// NewHub creates a new relay hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		logger:     logger.With("component", "relay_hub"),
	}
}

// Run drains the register/unregister channels. This MUST be run as a
// goroutine for the life of the relay process.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	observability.ConnectionOpened()
	h.logger.Info("client connected",
		"user_id", client.UserID,
	)
}

// unregisterClient removes a client from every room it joined and signals its
// teardown. The send channel itself is never closed: a broadcast that
// snapshotted membership before this ran may still queue on it.
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()

	for _, room := range client.Rooms() {
		if members, ok := h.rooms[room]; ok {
			delete(members, client)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	roomCount := len(h.rooms)
	h.mu.Unlock()

	client.Close()
	observability.ConnectionClosed()
	observability.SetActiveRooms(roomCount)

	h.logger.Info("client disconnected",
		"user_id", client.UserID,
	)
}

// JoinRoom adds a client to a room and returns the room's member count after
// the join. Joining a room twice is a no-op that still reports the count.
func (h *Hub) JoinRoom(client *Client, room string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
	client.addRoom(room)
	count := len(h.rooms[room])
	observability.SetActiveRooms(len(h.rooms))

	h.logger.Debug("client joined room",
		"user_id", client.UserID,
		"room", room,
		"members", count,
	)
	return count
}

// LeaveRoom removes a client from a room. Idempotent: leaving a room the
// client is not in does nothing.
func (h *Hub) LeaveRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	client.removeRoom(room)
	observability.SetActiveRooms(len(h.rooms))

	h.logger.Debug("client left room",
		"user_id", client.UserID,
		"room", room,
	)
}

// BroadcastToRoom fans a message out to every connection currently joined to
// the room and returns the number of members the message was queued for. The
// membership set is snapshotted under the read lock, then the message is
// queued on each member's buffered send channel. A member mid-disconnect is
// skipped; a member whose buffer is full is unregistered rather than allowed
// to stall the fan-out.
//
// The call returns once every member has been handed the message; it never
// waits for client acknowledgement. Delivery is at-most-once, best-effort.
func (h *Hub) BroadcastToRoom(room string, msg ServerMessage) int {
	h.mu.RLock()
	members, ok := h.rooms[room]
	if !ok {
		h.mu.RUnlock()
		return 0
	}

	// Copy the member list to avoid holding the lock while sending
	clients := make([]*Client, 0, len(members))
	for client := range members {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	observability.EventBroadcast(msg.Event)
	h.logger.Debug("broadcasting event",
		"event", msg.Event,
		"room", room,
		"client_count", len(clients),
	)

	served := 0
	for _, client := range clients {
		switch client.queue(msg) {
		case sendQueued:
			served++
		case sendClosed:
			// Already being torn down by the hub, nothing to do.
		case sendFull:
			observability.EventDropped()
			h.logger.Warn("client send buffer full, unregistering",
				"user_id", client.UserID,
			)
			h.Unregister <- client
		}
	}
	return served
}

// RoomSize returns the number of clients joined to a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if members, ok := h.rooms[room]; ok {
		return len(members)
	}
	return 0
}

// RoomCount returns the number of rooms with at least one member.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// IsMember reports whether the client is currently joined to the room.
func (h *Hub) IsMember(client *Client, room string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members, ok := h.rooms[room]
	return ok && members[client]
}
