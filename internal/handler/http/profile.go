package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cruisehub/reseller-backend-go/internal/domain/auth"
	"github.com/cruisehub/reseller-backend-go/internal/domain/profile"
	"github.com/cruisehub/reseller-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ProfileHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	GetMe(w http.ResponseWriter, r *http.Request)
	ListAgents(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	LinkAgent(w http.ResponseWriter, r *http.Request)
	UnlinkAgent(w http.ResponseWriter, r *http.Request)
}

type ProfileHandlerImpl struct {
	profileService profile.ProfileService
}

func NewProfileHandler(profileService profile.ProfileService) ProfileHandler {
	return &ProfileHandlerImpl{profileService: profileService}
}

// Create implements ProfileHandler.
func (h *ProfileHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req profile.CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create profile decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.profileService.Create(r.Context(), actor.ProfileID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Profile created successfully", profile.ToResponse(created))
}

// GetByID implements ProfileHandler.
func (h *ProfileHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	profileID := chi.URLParam(r, "id")
	if profileID == "" {
		response.BadRequest(w, "Profile ID is required", nil)
		return
	}

	found, err := h.profileService.GetByID(r.Context(), actor, profileID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, profile.ToResponse(found))
}

// GetMe implements ProfileHandler.
func (h *ProfileHandlerImpl) GetMe(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	found, err := h.profileService.GetByID(r.Context(), actor, actor.ProfileID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, profile.ToResponse(found))
}

// ListAgents implements ProfileHandler.
func (h *ProfileHandlerImpl) ListAgents(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	managerID := chi.URLParam(r, "id")
	if managerID == "" {
		managerID = actor.ProfileID
	}

	agents, err := h.profileService.ListAgents(r.Context(), actor, managerID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, profile.ToResponses(agents))
}

// Deactivate implements ProfileHandler.
func (h *ProfileHandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	profileID := chi.URLParam(r, "id")
	deactivated, err := h.profileService.Deactivate(r.Context(), actor.ProfileID, profileID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Profile deactivated", profile.ToResponse(deactivated))
}

// Delete implements ProfileHandler.
func (h *ProfileHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	profileID := chi.URLParam(r, "id")
	if err := h.profileService.Delete(r.Context(), actor.ProfileID, profileID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Profile deleted", nil)
}

// LinkAgent implements ProfileHandler.
func (h *ProfileHandlerImpl) LinkAgent(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req profile.LinkAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Link agent decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	managerID := chi.URLParam(r, "id")
	rel, err := h.profileService.LinkAgent(r.Context(), actor.ProfileID, managerID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Agent linked successfully", profile.ToRelationResponse(rel))
}

// UnlinkAgent implements ProfileHandler.
func (h *ProfileHandlerImpl) UnlinkAgent(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	agentID := chi.URLParam(r, "agentID")
	if err := h.profileService.UnlinkAgent(r.Context(), actor.ProfileID, agentID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Agent unlinked successfully", nil)
}
