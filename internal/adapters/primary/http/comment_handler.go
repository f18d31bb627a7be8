package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	mw "github.com/loftbase/studio-backend/internal/adapters/primary/http/middleware"
	"github.com/loftbase/studio-backend/internal/adapters/primary/validation"
	"github.com/loftbase/studio-backend/internal/auth"
	"github.com/loftbase/studio-backend/internal/core/domain"
	"github.com/loftbase/studio-backend/internal/core/ports"
)

// CommentHandler handles HTTP requests for subtask comments
type CommentHandler struct {
	commentService ports.CommentService
	errorHandler   *ErrorHandler
	logger         *slog.Logger
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(
	commentService ports.CommentService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		errorHandler:   errorHandler,
		logger:         logger.With("handler", "comment"),
	}
}

// Router sets up a new chi Router for all comment routes. It expects to be
// mounted under /work-tasks/{workTaskID}/subtasks/{subtaskID}.
func (h *CommentHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all comment endpoints.
func (h *CommentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListComments)
	r.Post("/", h.HandleCreateComment)

	r.Route("/{commentID}", func(r chi.Router) {
		r.Patch("/", h.HandleUpdateComment)
		r.Delete("/", h.HandleDeleteComment)
	})
}

// --- Request/Response DTOs ---

// CreateCommentRequest defines the expected JSON body for creating a comment
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// Validate validates the create comment request
func (r *CreateCommentRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("body", r.Body).
		MaxLength("body", r.Body, domain.MaxCommentBodyLength)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// UpdateCommentRequest defines the expected JSON body for editing a comment
type UpdateCommentRequest struct {
	Body string `json:"body"`
}

// Validate validates the update comment request
func (r *UpdateCommentRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("body", r.Body).
		MaxLength("body", r.Body, domain.MaxCommentBodyLength)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// CommentDTO defines the JSON response for comments.
type CommentDTO struct {
	ID         string  `json:"id"`
	SubtaskID  string  `json:"subtaskId"`
	WorkTaskID string  `json:"workTaskId"`
	AuthorID   string  `json:"authorId"`
	Body       string  `json:"body"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  *string `json:"updatedAt"`
}

func toCommentDTO(comment *domain.Comment) CommentDTO {
	var updatedAt *string
	if comment.UpdatedAt != nil {
		value := comment.UpdatedAt.Format(time.RFC3339)
		updatedAt = &value
	}

	return CommentDTO{
		ID:         comment.ID.String(),
		SubtaskID:  comment.SubtaskID.String(),
		WorkTaskID: comment.WorkTaskID.String(),
		AuthorID:   comment.AuthorID.String(),
		Body:       comment.Body,
		CreatedAt:  comment.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  updatedAt,
	}
}

func toCommentDTOs(comments []*domain.Comment) []CommentDTO {
	response := make([]CommentDTO, 0, len(comments))
	for _, comment := range comments {
		response = append(response, toCommentDTO(comment))
	}
	return response
}

// --- Handlers ---

// HandleListComments handles GET .../subtasks/{subtaskID}/comments
func (h *CommentHandler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	subtaskID, err := parseUUIDParam(r, "subtaskID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	comments, err := h.commentService.List(r.Context(), subtaskID, claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toCommentDTOs(comments))
}

// HandleCreateComment handles POST .../subtasks/{subtaskID}/comments
func (h *CommentHandler) HandleCreateComment(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	subtaskID, err := parseUUIDParam(r, "subtaskID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[CreateCommentRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.CreateCommentParams{
		SubtaskID: subtaskID,
		Body:      req.Body,
		ActorID:   claims.UserID,
	}

	comment, err := h.commentService.Create(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("comment created",
		"comment_id", comment.ID,
		"subtask_id", subtaskID,
		"user_id", claims.UserID,
	)

	WriteCreated(w, toCommentDTO(comment))
}

// HandleUpdateComment handles PATCH .../comments/{commentID}
func (h *CommentHandler) HandleUpdateComment(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	commentID, err := parseUUIDParam(r, "commentID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[UpdateCommentRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.UpdateCommentParams{
		CommentID: commentID,
		Body:      req.Body,
		ActorID:   claims.UserID,
	}

	comment, err := h.commentService.Update(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toCommentDTO(comment))
}

// HandleDeleteComment handles DELETE .../comments/{commentID}
func (h *CommentHandler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	commentID, err := parseUUIDParam(r, "commentID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.commentService.Delete(r.Context(), commentID, claims.UserID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("comment deleted",
		"comment_id", commentID,
		"user_id", claims.UserID,
	)

	WriteNoContent(w)
}

// getClaims extracts and validates user claims from the request context
func (h *CommentHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
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
