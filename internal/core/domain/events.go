package domain

import (
	apperrors "github.com/loftbase/studio-backend/internal/core/errors"
)

// EventCategory identifies which kind of entity a real-time event is about.
type EventCategory string

const (
	CategorySubtask        EventCategory = "subtask"
	CategorySubtaskComment EventCategory = "subtask-comment"
	CategoryProject        EventCategory = "project"
)

// EventType identifies what happened to the entity.
type EventType string

const (
	EventCreated            EventType = "created"
	EventUpdated            EventType = "updated"
	EventDeleted            EventType = "deleted"
	EventStatusChanged      EventType = "status-changed"
	EventOrderUpdated       EventType = "order-updated"
	EventParticipantAdded   EventType = "participant-added"
	EventParticipantRemoved EventType = "participant-removed"
)

// eventTypesByCategory is the closed set of valid category/type pairs.
// Anything outside this table is rejected at the intake endpoint rather
// than fanned out as a free-form string.
var eventTypesByCategory = map[EventCategory]map[EventType]bool{
	CategorySubtask: {
		EventCreated:       true,
		EventUpdated:       true,
		EventDeleted:       true,
		EventStatusChanged: true,
		EventOrderUpdated:  true,
	},
	CategorySubtaskComment: {
		EventCreated: true,
		EventUpdated: true,
		EventDeleted: true,
	},
	CategoryProject: {
		EventUpdated:            true,
		EventParticipantAdded:   true,
		EventParticipantRemoved: true,
	},
}

// Event is a transient message describing a change to a subtask, a subtask
// comment, or a project-scoped fact. Events are never persisted; delivery is
// at-most-once to whichever connections are in the target room at emission.
type Event struct {
	Category   EventCategory `json:"type"`
	EventType  EventType     `json:"eventType"`
	WorkTaskID string        `json:"workTaskId,omitempty"`
	SubtaskID  string        `json:"subtaskId,omitempty"`
	ProjectID  string        `json:"projectId,omitempty"`
	Payload    any           `json:"payload"`
}

// Validate checks the event against the closed category/type table and the
// scoping ids its category requires.
func (e Event) Validate() error {
	types, ok := eventTypesByCategory[e.Category]
	if !ok {
		return apperrors.ErrInvalidEvent
	}
	if !types[e.EventType] {
		return apperrors.ErrInvalidEvent
	}

	switch e.Category {
	case CategorySubtask, CategorySubtaskComment:
		if e.WorkTaskID == "" {
			return apperrors.ErrInvalidEvent
		}
	case CategoryProject:
		if e.ProjectID == "" {
			return apperrors.ErrInvalidEvent
		}
	}
	return nil
}

// Name is the wire name clients listen on, e.g. "subtask:status-changed".
func (e Event) Name() string {
	return string(e.Category) + ":" + string(e.EventType)
}

// Room resolves the room the event should be fanned out to.
func (e Event) Room() (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	if e.Category == CategoryProject {
		return ProjectRoom(e.ProjectID), nil
	}
	return WorkTaskRoom(e.WorkTaskID), nil
}

// WorkTaskRoom returns the room name for a work task's live updates.
func WorkTaskRoom(workTaskID string) string {
	return "work-task:" + workTaskID
}

// ProjectRoom returns the room name for a project's live updates.
func ProjectRoom(projectID string) string {
	return "project:" + projectID
}
