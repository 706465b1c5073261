package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lanchinho/scheduler/internal/domain"
	"github.com/lanchinho/scheduler/internal/service"
	"github.com/lanchinho/scheduler/internal/validation"
)

// ScheduleHandler serves the schedule endpoints.
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler creates a new schedule handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// Resolve returns the month's schedule, generating it when needed.
// Query parameters: month (defaults to the current month), formation
// (defaults to multiple) and groupSize (clamped to the allowed range).
func (h *ScheduleHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	if err := validation.ValidateMonth(month); err != nil {
		handleError(w, err)
		return
	}

	formation, err := domain.ParseFormation(r.URL.Query().Get("formation"))
	if err != nil {
		handleError(w, err)
		return
	}

	groupSize := validation.MinGroupSize
	if raw := r.URL.Query().Get("groupSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "groupSize must be a number")
			return
		}
		groupSize = validation.ClampGroupSize(n)
	}

	schedule, err := h.service.ResolveMonth(r.Context(), month, formation, groupSize)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, schedule)
}

// Reset discards all stored groups for a month.
func (h *ScheduleHandler) Reset(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")
	if err := validation.ValidateMonth(month); err != nil {
		handleError(w, err)
		return
	}

	if err := h.service.ResetMonth(r.Context(), month); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// Edit replaces the member list of one group on a given Friday.
func (h *ScheduleHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req domain.EditGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := validation.ValidateDate(req.Date); err != nil {
		handleError(w, err)
		return
	}
	if len(req.Members) == 0 {
		handleError(w, validation.NewValidationError("members", "", "members must not be empty"))
		return
	}

	if err := h.service.EditGroup(r.Context(), req.Date, req.GroupIndex, req.Members); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Dates returns the Fridays with stored groups for a month.
func (h *ScheduleHandler) Dates(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	if err := validation.ValidateMonth(month); err != nil {
		handleError(w, err)
		return
	}

	dates, err := h.service.AvailableDates(r.Context(), month)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dates)
}
