package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/lanchinho/scheduler/internal/domain"
	"github.com/lanchinho/scheduler/internal/validation"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, &domain.APIError{Code: status, Message: message})
}

// handleError maps domain and validation errors to HTTP responses.
func handleError(w http.ResponseWriter, err error) {
	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		respondError(w, http.StatusBadRequest, verr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyExists):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("Internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
