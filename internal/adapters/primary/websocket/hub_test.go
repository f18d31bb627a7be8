package websocket

import (
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/loftbase/studio-backend/internal/core/domain"
)

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newTestClient builds a client with no underlying connection. The pumps are
// never started, so messages land in the Send channel where tests can read
// them.
func newTestClient(hub *Hub) *Client {
	return NewClient(hub, nil, uuid.New(), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHub_JoinRoom(t *testing.T) {
	hub := newTestHub()
	room := domain.WorkTaskRoom(uuid.NewString())

	a := newTestClient(hub)
	b := newTestClient(hub)

	count := hub.JoinRoom(a, room)
	require.Equal(t, 1, count)
	require.True(t, hub.IsMember(a, room))

	count = hub.JoinRoom(b, room)
	require.Equal(t, 2, count)
	require.Equal(t, 2, hub.RoomSize(room))
}

func TestHub_JoinRoom_Idempotent(t *testing.T) {
	hub := newTestHub()
	room := domain.WorkTaskRoom(uuid.NewString())

	a := newTestClient(hub)

	require.Equal(t, 1, hub.JoinRoom(a, room))
	require.Equal(t, 1, hub.JoinRoom(a, room))
	require.Equal(t, 1, hub.RoomSize(room))
	require.Len(t, a.Rooms(), 1)
}

func TestHub_LeaveRoom(t *testing.T) {
	hub := newTestHub()
	room := domain.ProjectRoom(uuid.NewString())

	a := newTestClient(hub)
	b := newTestClient(hub)
	hub.JoinRoom(a, room)
	hub.JoinRoom(b, room)

	hub.LeaveRoom(a, room)
	require.False(t, hub.IsMember(a, room))
	require.True(t, hub.IsMember(b, room))
	require.Equal(t, 1, hub.RoomSize(room))
}

func TestHub_LeaveRoom_NotAMember(t *testing.T) {
	hub := newTestHub()
	room := domain.WorkTaskRoom(uuid.NewString())

	a := newTestClient(hub)
	b := newTestClient(hub)
	hub.JoinRoom(a, room)

	// Leaving a room the client never joined must not disturb the room.
	hub.LeaveRoom(b, room)
	require.Equal(t, 1, hub.RoomSize(room))
	require.True(t, hub.IsMember(a, room))
}

func TestHub_LeaveRoom_LastMemberRemovesRoom(t *testing.T) {
	hub := newTestHub()
	room := domain.WorkTaskRoom(uuid.NewString())

	a := newTestClient(hub)
	hub.JoinRoom(a, room)
	require.Equal(t, 1, hub.RoomCount())

	hub.LeaveRoom(a, room)
	require.Equal(t, 0, hub.RoomCount())
	require.Equal(t, 0, hub.RoomSize(room))
}

func TestHub_BroadcastToRoom_OnlyMembersReceive(t *testing.T) {
	hub := newTestHub()
	room := domain.WorkTaskRoom(uuid.NewString())
	otherRoom := domain.WorkTaskRoom(uuid.NewString())

	member := newTestClient(hub)
	outsider := newTestClient(hub)
	hub.JoinRoom(member, room)
	hub.JoinRoom(outsider, otherRoom)

	msg := ServerMessage{Event: "subtask:created", Payload: map[string]string{"title": "wire the relay"}}
	hub.BroadcastToRoom(room, msg)

	select {
	case got := <-member.Send:
		require.Equal(t, "subtask:created", got.Event)
	default:
		t.Fatal("expected member to receive the broadcast")
	}

	select {
	case got := <-outsider.Send:
		t.Fatalf("outsider received broadcast %q", got.Event)
	default:
	}
}

func TestHub_BroadcastToRoom_EmptyRoom(t *testing.T) {
	hub := newTestHub()

	// No members, no panic.
	hub.BroadcastToRoom(domain.ProjectRoom(uuid.NewString()), ServerMessage{Event: "project:updated"})
}

func TestHub_BroadcastToRoom_AllMembersReceive(t *testing.T) {
	hub := newTestHub()
	room := domain.ProjectRoom(uuid.NewString())

	clients := make([]*Client, 3)
	for i := range clients {
		clients[i] = newTestClient(hub)
		hub.JoinRoom(clients[i], room)
	}

	hub.BroadcastToRoom(room, ServerMessage{Event: "project:participant-added"})

	for i, c := range clients {
		select {
		case got := <-c.Send:
			require.Equal(t, "project:participant-added", got.Event)
		default:
			t.Fatalf("client %d did not receive the broadcast", i)
		}
	}
}

func TestHub_UnregisterClient_RemovesFromAllRooms(t *testing.T) {
	hub := newTestHub()
	taskRoom := domain.WorkTaskRoom(uuid.NewString())
	projectRoom := domain.ProjectRoom(uuid.NewString())

	a := newTestClient(hub)
	b := newTestClient(hub)
	hub.JoinRoom(a, taskRoom)
	hub.JoinRoom(a, projectRoom)
	hub.JoinRoom(b, taskRoom)

	hub.unregisterClient(a)

	require.False(t, hub.IsMember(a, taskRoom))
	require.False(t, hub.IsMember(a, projectRoom))
	require.Equal(t, 1, hub.RoomSize(taskRoom))
	require.Equal(t, 0, hub.RoomSize(projectRoom))

	// The done channel is closed so the write pump terminates.
	select {
	case <-a.done:
	default:
		t.Fatal("expected unregistered client to be signalled done")
	}
}

func TestHub_BroadcastToRoom_ReturnsRecipientCount(t *testing.T) {
	hub := newTestHub()
	room := domain.ProjectRoom(uuid.NewString())

	a := newTestClient(hub)
	b := newTestClient(hub)
	c := newTestClient(hub)
	hub.JoinRoom(a, room)
	hub.JoinRoom(b, room)
	hub.JoinRoom(c, room)

	// A member mid-disconnect is still in the snapshot but must not be
	// counted as served.
	c.Close()

	served := hub.BroadcastToRoom(room, ServerMessage{Event: "project:updated"})
	require.Equal(t, 2, served)

	require.Equal(t, 0, hub.BroadcastToRoom(domain.ProjectRoom(uuid.NewString()), ServerMessage{Event: "project:updated"}))
}

// Broadcasting into a room while its members disconnect must not panic. The
// fan-out loop holds a membership snapshot, so it can reach a client after
// the hub has already torn it down.
func TestHub_BroadcastToRoom_ConcurrentDisconnects(t *testing.T) {
	hub := newTestHub()
	go hub.Run()
	room := domain.WorkTaskRoom(uuid.NewString())

	for round := 0; round < 20; round++ {
		clients := make([]*Client, 50)
		for i := range clients {
			clients[i] = newTestClient(hub)
			hub.JoinRoom(clients[i], room)
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			for _, c := range clients {
				hub.Unregister <- c
			}
		}()

		for i := 0; i < 100; i++ {
			hub.BroadcastToRoom(room, ServerMessage{Event: "subtask:updated"})
		}
		<-done
	}
}
