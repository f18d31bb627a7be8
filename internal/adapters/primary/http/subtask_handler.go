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

// SubtaskHandler handles HTTP requests for subtasks
type SubtaskHandler struct {
	subtaskService ports.SubtaskService
	commentHandler *CommentHandler
	errorHandler   *ErrorHandler
	logger         *slog.Logger
}

// NewSubtaskHandler creates a new subtask handler
func NewSubtaskHandler(
	subtaskService ports.SubtaskService,
	commentHandler *CommentHandler,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *SubtaskHandler {
	return &SubtaskHandler{
		subtaskService: subtaskService,
		commentHandler: commentHandler,
		errorHandler:   errorHandler,
		logger:         logger.With("handler", "subtask"),
	}
}

// Router sets up a new chi Router for all subtask routes. It expects to be
// mounted under /work-tasks/{workTaskID}.
func (h *SubtaskHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all subtask endpoints.
func (h *SubtaskHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListSubtasks)
	r.Post("/", h.HandleCreateSubtask)
	r.Put("/order", h.HandleReorderSubtasks)

	r.Route("/{subtaskID}", func(r chi.Router) {
		r.Patch("/", h.HandleUpdateSubtask)
		r.Patch("/status", h.HandleUpdateSubtaskStatus)
		r.Delete("/", h.HandleDeleteSubtask)

		// Mount the comment routes nested under the subtask
		if h.commentHandler != nil {
			r.Mount("/comments", h.commentHandler.Router())
		}
	})
}

// --- Request/Response DTOs ---

// CreateSubtaskRequest defines the expected JSON body for creating a subtask
type CreateSubtaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Validate validates the create subtask request
func (r *CreateSubtaskRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("title", r.Title).
		MaxLength("title", r.Title, domain.MaxTitleLength)

	v.MaxLength("description", r.Description, domain.MaxDescriptionLength)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// UpdateSubtaskRequest defines the expected JSON body for renaming a subtask
type UpdateSubtaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Validate validates the update subtask request
func (r *UpdateSubtaskRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("title", r.Title).
		MaxLength("title", r.Title, domain.MaxTitleLength)

	v.MaxLength("description", r.Description, domain.MaxDescriptionLength)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// UpdateSubtaskStatusRequest defines the expected JSON body for status updates
type UpdateSubtaskStatusRequest struct {
	Status string `json:"status"`
}

// Validate validates the status update request
func (r *UpdateSubtaskStatusRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("status", r.Status).
		OneOf("status", r.Status, []string{"todo", "in-progress", "done"})

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// ReorderSubtasksRequest defines the expected JSON body for reordering
type ReorderSubtasksRequest struct {
	OrderedIDs []string `json:"orderedIds"`
}

// Validate validates the reorder request
func (r *ReorderSubtasksRequest) Validate() error {
	v := validation.NewValidator()

	v.Custom("orderedIds", len(r.OrderedIDs) > 0, "At least one subtask id is required")
	for _, id := range r.OrderedIDs {
		v.UUID("orderedIds", id)
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// SubtaskDTO defines the JSON response for subtasks.
type SubtaskDTO struct {
	ID          string  `json:"id"`
	WorkTaskID  string  `json:"workTaskId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Position    int     `json:"position"`
	CreatorID   string  `json:"creatorId"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   *string `json:"updatedAt"`
}

func toSubtaskDTO(subtask *domain.Subtask) SubtaskDTO {
	var updatedAt *string
	if subtask.UpdatedAt != nil {
		value := subtask.UpdatedAt.Format(time.RFC3339)
		updatedAt = &value
	}

	return SubtaskDTO{
		ID:          subtask.ID.String(),
		WorkTaskID:  subtask.WorkTaskID.String(),
		Title:       subtask.Title,
		Description: subtask.Description,
		Status:      string(subtask.Status),
		Position:    subtask.Position,
		CreatorID:   subtask.CreatorID.String(),
		CreatedAt:   subtask.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   updatedAt,
	}
}

func toSubtaskDTOs(subtasks []*domain.Subtask) []SubtaskDTO {
	response := make([]SubtaskDTO, 0, len(subtasks))
	for _, subtask := range subtasks {
		response = append(response, toSubtaskDTO(subtask))
	}
	return response
}

// --- Handlers ---

// HandleListSubtasks handles GET /work-tasks/{workTaskID}/subtasks
func (h *SubtaskHandler) HandleListSubtasks(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	workTaskID, err := parseUUIDParam(r, "workTaskID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	subtasks, err := h.subtaskService.List(r.Context(), workTaskID, claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toSubtaskDTOs(subtasks))
}

// HandleCreateSubtask handles POST /work-tasks/{workTaskID}/subtasks
func (h *SubtaskHandler) HandleCreateSubtask(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	workTaskID, err := parseUUIDParam(r, "workTaskID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[CreateSubtaskRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.CreateSubtaskParams{
		WorkTaskID:  workTaskID,
		Title:       req.Title,
		Description: req.Description,
		ActorID:     claims.UserID,
	}

	subtask, err := h.subtaskService.Create(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("subtask created",
		"subtask_id", subtask.ID,
		"work_task_id", workTaskID,
		"user_id", claims.UserID,
	)

	WriteCreated(w, toSubtaskDTO(subtask))
}

// HandleUpdateSubtask handles PATCH /work-tasks/{workTaskID}/subtasks/{subtaskID}
func (h *SubtaskHandler) HandleUpdateSubtask(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	subtaskID, err := parseUUIDParam(r, "subtaskID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[UpdateSubtaskRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.UpdateSubtaskParams{
		SubtaskID:   subtaskID,
		Title:       req.Title,
		Description: req.Description,
		ActorID:     claims.UserID,
	}

	subtask, err := h.subtaskService.Update(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toSubtaskDTO(subtask))
}

// HandleUpdateSubtaskStatus handles PATCH /work-tasks/{workTaskID}/subtasks/{subtaskID}/status
func (h *SubtaskHandler) HandleUpdateSubtaskStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	subtaskID, err := parseUUIDParam(r, "subtaskID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[UpdateSubtaskStatusRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.UpdateSubtaskStatusParams{
		SubtaskID: subtaskID,
		Status:    domain.SubtaskStatus(req.Status),
		ActorID:   claims.UserID,
	}

	subtask, err := h.subtaskService.UpdateStatus(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("subtask status updated",
		"subtask_id", subtaskID,
		"new_status", req.Status,
		"user_id", claims.UserID,
	)

	WriteJSON(w, http.StatusOK, toSubtaskDTO(subtask))
}

// HandleDeleteSubtask handles DELETE /work-tasks/{workTaskID}/subtasks/{subtaskID}
func (h *SubtaskHandler) HandleDeleteSubtask(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	subtaskID, err := parseUUIDParam(r, "subtaskID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.subtaskService.Delete(r.Context(), subtaskID, claims.UserID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("subtask deleted",
		"subtask_id", subtaskID,
		"user_id", claims.UserID,
	)

	WriteNoContent(w)
}

// HandleReorderSubtasks handles PUT /work-tasks/{workTaskID}/subtasks/order
func (h *SubtaskHandler) HandleReorderSubtasks(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	workTaskID, err := parseUUIDParam(r, "workTaskID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[ReorderSubtasksRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	orderedIDs := make([]uuid.UUID, 0, len(req.OrderedIDs))
	for _, raw := range req.OrderedIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.errorHandler.Handle(w, r, err)
			return
		}
		orderedIDs = append(orderedIDs, id)
	}

	params := ports.ReorderSubtasksParams{
		WorkTaskID: workTaskID,
		OrderedIDs: orderedIDs,
		ActorID:    claims.UserID,
	}

	if err := h.subtaskService.Reorder(r.Context(), params); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("subtasks reordered",
		"work_task_id", workTaskID,
		"user_id", claims.UserID,
	)

	WriteNoContent(w)
}

// getClaims extracts and validates user claims from the request context
func (h *SubtaskHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
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
