package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	mw "github.com/loftbase/studio-backend/internal/adapters/primary/http/middleware"
	"github.com/loftbase/studio-backend/internal/adapters/primary/validation"
	"github.com/loftbase/studio-backend/internal/auth"
	"github.com/loftbase/studio-backend/internal/core/domain"
	"github.com/loftbase/studio-backend/internal/core/ports"
)

// WorkTaskHandler handles HTTP requests for work tasks
type WorkTaskHandler struct {
	workTaskService ports.WorkTaskService
	subtaskHandler  *SubtaskHandler
	errorHandler    *ErrorHandler
	logger          *slog.Logger
}

// NewWorkTaskHandler creates a new work task handler
func NewWorkTaskHandler(
	workTaskService ports.WorkTaskService,
	subtaskHandler *SubtaskHandler,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *WorkTaskHandler {
	return &WorkTaskHandler{
		workTaskService: workTaskService,
		subtaskHandler:  subtaskHandler,
		errorHandler:    errorHandler,
		logger:          logger.With("handler", "work_task"),
	}
}

// Router sets up a new chi Router for all work-task routes.
func (h *WorkTaskHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all work task endpoints.
func (h *WorkTaskHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListWorkTasks)
	r.Post("/", h.HandleCreateWorkTask)

	// Routes for a specific work task
	r.Route("/{workTaskID}", func(r chi.Router) {
		r.Get("/", h.HandleGetWorkTask)
		r.Post("/participants", h.HandleAddParticipant)

		// Mount the subtask routes nested under /work-tasks/{workTaskID}
		if h.subtaskHandler != nil {
			r.Mount("/subtasks", h.subtaskHandler.Router())
		}
	})
}

// --- Request/Response DTOs ---

// CreateWorkTaskRequest defines the expected JSON body for creating a work task
type CreateWorkTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ProjectID   string `json:"projectId"`
}

// Validate validates the create work task request
func (r *CreateWorkTaskRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("title", r.Title).
		MaxLength("title", r.Title, domain.MaxTitleLength)

	v.MaxLength("description", r.Description, domain.MaxDescriptionLength)

	v.UUID("projectId", r.ProjectID)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// AddParticipantRequest defines the expected JSON body for adding a participant
type AddParticipantRequest struct {
	UserID string `json:"userId"`
}

// Validate validates the add participant request
func (r *AddParticipantRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("userId", r.UserID).
		UUID("userId", r.UserID)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// WorkTaskDTO defines the JSON response for work tasks.
type WorkTaskDTO struct {
	ID           string   `json:"id"`
	ProjectID    *string  `json:"projectId"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	CreatorID    string   `json:"creatorId"`
	Participants []string `json:"participants"`
	CreatedAt    string   `json:"createdAt"`
	UpdatedAt    *string  `json:"updatedAt"`
}

func toWorkTaskDTO(task *domain.WorkTask) WorkTaskDTO {
	var projectID *string
	if task.ProjectID != nil {
		value := task.ProjectID.String()
		projectID = &value
	}

	var updatedAt *string
	if task.UpdatedAt != nil {
		value := task.UpdatedAt.Format(time.RFC3339)
		updatedAt = &value
	}

	participants := make([]string, 0, len(task.Participants))
	for _, id := range task.Participants {
		participants = append(participants, id.String())
	}

	return WorkTaskDTO{
		ID:           task.ID.String(),
		ProjectID:    projectID,
		Title:        task.Title,
		Description:  task.Description,
		CreatorID:    task.CreatorID.String(),
		Participants: participants,
		CreatedAt:    task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    updatedAt,
	}
}

func toWorkTaskDTOs(tasks []*domain.WorkTask) []WorkTaskDTO {
	response := make([]WorkTaskDTO, 0, len(tasks))
	for _, task := range tasks {
		response = append(response, toWorkTaskDTO(task))
	}
	return response
}

// --- Handlers ---

// HandleListWorkTasks handles GET /work-tasks
func (h *WorkTaskHandler) HandleListWorkTasks(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	tasks, err := h.workTaskService.List(r.Context(), claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toWorkTaskDTOs(tasks))
}

// HandleCreateWorkTask handles POST /work-tasks
func (h *WorkTaskHandler) HandleCreateWorkTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[CreateWorkTaskRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	var projectID *uuid.UUID
	if req.ProjectID != "" {
		parsed, err := uuid.Parse(req.ProjectID)
		if err != nil {
			h.errorHandler.Handle(w, r, err)
			return
		}
		projectID = &parsed
	}

	params := ports.CreateWorkTaskParams{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   projectID,
		CreatorID:   claims.UserID,
	}

	task, err := h.workTaskService.Create(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("work task created",
		"work_task_id", task.ID,
		"user_id", claims.UserID,
	)

	WriteCreated(w, toWorkTaskDTO(task))
}

// HandleGetWorkTask handles GET /work-tasks/{workTaskID}
func (h *WorkTaskHandler) HandleGetWorkTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	workTaskID, err := parseUUIDParam(r, "workTaskID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	task, err := h.workTaskService.Get(r.Context(), workTaskID, claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toWorkTaskDTO(task))
}

// HandleAddParticipant handles POST /work-tasks/{workTaskID}/participants
func (h *WorkTaskHandler) HandleAddParticipant(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	workTaskID, err := parseUUIDParam(r, "workTaskID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[AddParticipantRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.AddParticipantParams{
		TargetID: workTaskID,
		UserID:   userID,
		ActorID:  claims.UserID,
	}

	if err := h.workTaskService.AddParticipant(r.Context(), params); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("participant added to work task",
		"work_task_id", workTaskID,
		"participant_id", userID,
		"user_id", claims.UserID,
	)

	WriteNoContent(w)
}

// --- Helper methods ---

// getClaims extracts and validates user claims from the request context
func (h *WorkTaskHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Not authorized",
			Code:  "UNAUTHORIZED",
		})
		return nil, false
	}
	return claims, true
}

// parseUUIDParam extracts and validates a UUID path parameter
func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	value := chi.URLParam(r, name)
	parsed, err := uuid.Parse(value)
	if err != nil {
		v := validation.NewValidator()
		v.Custom(name, false, "Must be a valid UUID")
		return uuid.Nil, v.Errors()
	}
	return parsed, nil
}
