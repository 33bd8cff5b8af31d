package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/prediction-tracker-service/internal/models"
)

// responder holds the JSON response helpers shared by all handlers
type responder struct {
	logger zerolog.Logger
}

// jsonResponse writes a JSON response
func (h responder) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// errorResponse writes a JSON error response
func (h responder) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{
		"error": message,
	})
}

// serviceError maps a service error onto its HTTP status
func (h responder) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrValidationFailed):
		h.errorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNotFound):
		h.errorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrAccessDenied):
		h.jsonResponse(w, http.StatusForbidden, map[string]interface{}{
			"error":            err.Error(),
			"upgrade_required": true,
		})
	default:
		h.logger.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		h.errorResponse(w, http.StatusInternalServerError, "internal server error")
	}
}

// decode reads a JSON request body into v
func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %s", models.ErrValidationFailed, err.Error())
	}
	return nil
}

// matchIDParam parses the {matchID} path parameter
func matchIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "matchID"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid match id", models.ErrValidationFailed)
	}
	return id, nil
}

// positionParam parses the {position} path parameter
func positionParam(r *http.Request) (int, error) {
	position, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil {
		return 0, fmt.Errorf("%w: position must be an integer", models.ErrValidationFailed)
	}
	return position, nil
}

// positionAddress parses the {matchID} and {position} path parameters
func positionAddress(r *http.Request) (uuid.UUID, int, error) {
	matchID, err := matchIDParam(r)
	if err != nil {
		return uuid.Nil, 0, err
	}
	position, err := positionParam(r)
	if err != nil {
		return uuid.Nil, 0, err
	}
	return matchID, position, nil
}
