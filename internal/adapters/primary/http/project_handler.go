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

// ProjectHandler handles HTTP requests for projects
type ProjectHandler struct {
	projectService ports.ProjectService
	errorHandler   *ErrorHandler
	logger         *slog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(
	projectService ports.ProjectService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		errorHandler:   errorHandler,
		logger:         logger.With("handler", "project"),
	}
}

// Router sets up a new chi Router for all project routes.
func (h *ProjectHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all project endpoints.
func (h *ProjectHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListProjects)
	r.Post("/", h.HandleCreateProject)

	r.Route("/{projectID}", func(r chi.Router) {
		r.Get("/", h.HandleGetProject)
		r.Patch("/", h.HandleUpdateProject)
		r.Post("/participants", h.HandleAddParticipant)
		r.Delete("/participants/{userID}", h.HandleRemoveParticipant)
	})
}

// --- Request/Response DTOs ---

// CreateProjectRequest defines the expected JSON body for creating a project
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate validates the create project request
func (r *CreateProjectRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("name", r.Name).
		MaxLength("name", r.Name, domain.MaxProjectNameLength)

	v.MaxLength("description", r.Description, domain.MaxDescriptionLength)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// UpdateProjectRequest defines the expected JSON body for renaming a project
type UpdateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate validates the update project request
func (r *UpdateProjectRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("name", r.Name).
		MaxLength("name", r.Name, domain.MaxProjectNameLength)

	v.MaxLength("description", r.Description, domain.MaxDescriptionLength)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// ProjectDTO defines the JSON response for projects.
type ProjectDTO struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	CreatorID    string   `json:"creatorId"`
	Participants []string `json:"participants"`
	CreatedAt    string   `json:"createdAt"`
	UpdatedAt    *string  `json:"updatedAt"`
}

func toProjectDTO(project *domain.Project) ProjectDTO {
	var updatedAt *string
	if project.UpdatedAt != nil {
		value := project.UpdatedAt.Format(time.RFC3339)
		updatedAt = &value
	}

	participants := make([]string, 0, len(project.Participants))
	for _, id := range project.Participants {
		participants = append(participants, id.String())
	}

	return ProjectDTO{
		ID:           project.ID.String(),
		Name:         project.Name,
		Description:  project.Description,
		CreatorID:    project.CreatorID.String(),
		Participants: participants,
		CreatedAt:    project.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    updatedAt,
	}
}

func toProjectDTOs(projects []*domain.Project) []ProjectDTO {
	response := make([]ProjectDTO, 0, len(projects))
	for _, project := range projects {
		response = append(response, toProjectDTO(project))
	}
	return response
}

// --- Handlers ---

// HandleListProjects handles GET /projects
func (h *ProjectHandler) HandleListProjects(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	projects, err := h.projectService.List(r.Context(), claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toProjectDTOs(projects))
}

// HandleCreateProject handles POST /projects
func (h *ProjectHandler) HandleCreateProject(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[CreateProjectRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.CreateProjectParams{
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   claims.UserID,
	}

	project, err := h.projectService.Create(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("project created",
		"project_id", project.ID,
		"user_id", claims.UserID,
	)

	WriteCreated(w, toProjectDTO(project))
}

// HandleGetProject handles GET /projects/{projectID}
func (h *ProjectHandler) HandleGetProject(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	projectID, err := parseUUIDParam(r, "projectID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	project, err := h.projectService.Get(r.Context(), projectID, claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toProjectDTO(project))
}

// HandleUpdateProject handles PATCH /projects/{projectID}
func (h *ProjectHandler) HandleUpdateProject(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	projectID, err := parseUUIDParam(r, "projectID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[UpdateProjectRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.UpdateProjectParams{
		ProjectID:   projectID,
		Name:        req.Name,
		Description: req.Description,
		ActorID:     claims.UserID,
	}

	project, err := h.projectService.Update(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("project updated",
		"project_id", projectID,
		"user_id", claims.UserID,
	)

	WriteJSON(w, http.StatusOK, toProjectDTO(project))
}

// HandleAddParticipant handles POST /projects/{projectID}/participants
func (h *ProjectHandler) HandleAddParticipant(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	projectID, err := parseUUIDParam(r, "projectID")
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
		TargetID: projectID,
		UserID:   userID,
		ActorID:  claims.UserID,
	}

	if err := h.projectService.AddParticipant(r.Context(), params); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("participant added to project",
		"project_id", projectID,
		"participant_id", userID,
		"user_id", claims.UserID,
	)

	WriteNoContent(w)
}

// HandleRemoveParticipant handles DELETE /projects/{projectID}/participants/{userID}
func (h *ProjectHandler) HandleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	projectID, err := parseUUIDParam(r, "projectID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	userID, err := parseUUIDParam(r, "userID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.AddParticipantParams{
		TargetID: projectID,
		UserID:   userID,
		ActorID:  claims.UserID,
	}

	if err := h.projectService.RemoveParticipant(r.Context(), params); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("participant removed from project",
		"project_id", projectID,
		"participant_id", userID,
		"user_id", claims.UserID,
	)

	WriteNoContent(w)
}

// getClaims extracts and validates user claims from the request context
func (h *ProjectHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
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
