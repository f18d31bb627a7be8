package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/loftbase/studio-backend/internal/core/domain"
	apperrors "github.com/loftbase/studio-backend/internal/core/errors"
)

type fakeRoomAccess struct {
	workTaskErr error
	projectErr  error
}

func (f *fakeRoomAccess) AuthorizeWorkTask(ctx context.Context, userID, workTaskID uuid.UUID) error {
	return f.workTaskErr
}

func (f *fakeRoomAccess) AuthorizeProject(ctx context.Context, userID, projectID uuid.UUID) error {
	return f.projectErr
}

func newTestClientWithAccess(hub *Hub, access *fakeRoomAccess) *Client {
	return NewClient(hub, nil, uuid.New(), access, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func receive(t *testing.T, c *Client) ServerMessage {
	t.Helper()
	select {
	case msg := <-c.Send:
		return msg
	default:
		t.Fatal("expected a message on the send channel")
		return ServerMessage{}
	}
}

func joinMessage(t *testing.T, event, key, id string) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"event":   event,
		"payload": map[string]string{key: id},
	})
	require.NoError(t, err)
	return raw
}

func TestClient_JoinWorkTask_Authorized(t *testing.T) {
	hub := newTestHub()
	client := newTestClientWithAccess(hub, &fakeRoomAccess{})
	workTaskID := uuid.NewString()

	client.handleIncomingMessage(joinMessage(t, EventJoinWorkTask, "workTaskId", workTaskID))

	msg := receive(t, client)
	require.Equal(t, EventJoinedWorkTask, msg.Event)

	payload, ok := msg.Payload.(JoinedWorkTaskPayload)
	require.True(t, ok)
	require.Equal(t, workTaskID, payload.WorkTaskID)
	require.Equal(t, domain.WorkTaskRoom(workTaskID), payload.RoomID)
	require.Equal(t, 1, payload.ClientCount)

	require.True(t, hub.IsMember(client, domain.WorkTaskRoom(workTaskID)))
}

func TestClient_JoinWorkTask_Forbidden(t *testing.T) {
	hub := newTestHub()
	client := newTestClientWithAccess(hub, &fakeRoomAccess{workTaskErr: apperrors.ErrForbidden})
	workTaskID := uuid.NewString()

	client.handleIncomingMessage(joinMessage(t, EventJoinWorkTask, "workTaskId", workTaskID))

	msg := receive(t, client)
	require.Equal(t, EventError, msg.Event)
	require.False(t, hub.IsMember(client, domain.WorkTaskRoom(workTaskID)))
	require.Equal(t, 0, hub.RoomSize(domain.WorkTaskRoom(workTaskID)))
}

func TestClient_JoinWorkTask_NotFound(t *testing.T) {
	hub := newTestHub()
	client := newTestClientWithAccess(hub, &fakeRoomAccess{workTaskErr: apperrors.ErrWorkTaskNotFound})
	workTaskID := uuid.NewString()

	client.handleIncomingMessage(joinMessage(t, EventJoinWorkTask, "workTaskId", workTaskID))

	msg := receive(t, client)
	require.Equal(t, EventError, msg.Event)

	payload, ok := msg.Payload.(ErrorPayload)
	require.True(t, ok)
	require.Contains(t, payload.Message, "not found")
	require.False(t, hub.IsMember(client, domain.WorkTaskRoom(workTaskID)))
}

func TestClient_JoinWorkTask_InvalidID(t *testing.T) {
	hub := newTestHub()
	client := newTestClientWithAccess(hub, &fakeRoomAccess{})

	client.handleIncomingMessage(joinMessage(t, EventJoinWorkTask, "workTaskId", "not-a-uuid"))

	msg := receive(t, client)
	require.Equal(t, EventError, msg.Event)
	require.Equal(t, 0, hub.RoomCount())
}

func TestClient_JoinProject_Authorized(t *testing.T) {
	hub := newTestHub()
	client := newTestClientWithAccess(hub, &fakeRoomAccess{})
	projectID := uuid.NewString()

	client.handleIncomingMessage(joinMessage(t, EventJoinProject, "projectId", projectID))

	msg := receive(t, client)
	require.Equal(t, EventJoinedProject, msg.Event)

	payload, ok := msg.Payload.(JoinedProjectPayload)
	require.True(t, ok)
	require.Equal(t, projectID, payload.ProjectID)
	require.Equal(t, domain.ProjectRoom(projectID), payload.RoomID)
	require.True(t, hub.IsMember(client, domain.ProjectRoom(projectID)))
}

func TestClient_JoinProject_Forbidden(t *testing.T) {
	hub := newTestHub()
	client := newTestClientWithAccess(hub, &fakeRoomAccess{projectErr: apperrors.ErrForbidden})
	projectID := uuid.NewString()

	client.handleIncomingMessage(joinMessage(t, EventJoinProject, "projectId", projectID))

	msg := receive(t, client)
	require.Equal(t, EventError, msg.Event)
	require.False(t, hub.IsMember(client, domain.ProjectRoom(projectID)))
}

func TestClient_LeaveWorkTask(t *testing.T) {
	hub := newTestHub()
	client := newTestClientWithAccess(hub, &fakeRoomAccess{})
	workTaskID := uuid.NewString()
	room := domain.WorkTaskRoom(workTaskID)

	hub.JoinRoom(client, room)
	require.True(t, hub.IsMember(client, room))

	client.handleIncomingMessage(joinMessage(t, EventLeaveWorkTask, "workTaskId", workTaskID))
	require.False(t, hub.IsMember(client, room))

	// Leaving again is a no-op.
	client.handleIncomingMessage(joinMessage(t, EventLeaveWorkTask, "workTaskId", workTaskID))
	require.False(t, hub.IsMember(client, room))
}

func TestClient_UnknownEvent_Ignored(t *testing.T) {
	hub := newTestHub()
	client := newTestClientWithAccess(hub, &fakeRoomAccess{})

	client.handleIncomingMessage([]byte(`{"event":"subscribe:everything","payload":{}}`))

	select {
	case msg := <-client.Send:
		t.Fatalf("unexpected message %q", msg.Event)
	default:
	}
}

func TestClient_MalformedMessage_Ignored(t *testing.T) {
	hub := newTestHub()
	client := newTestClientWithAccess(hub, &fakeRoomAccess{})

	client.handleIncomingMessage([]byte(`{not json`))

	select {
	case msg := <-client.Send:
		t.Fatalf("unexpected message %q", msg.Event)
	default:
	}
	require.Equal(t, 0, hub.RoomCount())
}
