package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lanchinho/scheduler/internal/domain"
	"github.com/lanchinho/scheduler/internal/service"
	"github.com/lanchinho/scheduler/internal/validation"
)

// ParticipantHandler serves the roster endpoints.
type ParticipantHandler struct {
	service *service.ScheduleService
}

// NewParticipantHandler creates a new participant handler.
func NewParticipantHandler(svc *service.ScheduleService) *ParticipantHandler {
	return &ParticipantHandler{service: svc}
}

// List returns the active roster names.
func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.ListParticipants(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, names)
}

// Create adds a name to the roster and returns the updated roster.
func (h *ParticipantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.AddParticipantRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if err := validation.ValidateParticipantName(name); err != nil {
		handleError(w, err)
		return
	}

	names, err := h.service.AddParticipant(r.Context(), name)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, names)
}

// Delete removes a name from the roster.
func (h *ParticipantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := validation.ValidateParticipantName(name); err != nil {
		handleError(w, err)
		return
	}

	if _, err := h.service.RemoveParticipant(r.Context(), name); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
