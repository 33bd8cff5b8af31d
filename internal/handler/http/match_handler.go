package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/prediction-tracker-service/internal/models"
	"github.com/cypherlabdev/prediction-tracker-service/internal/service"
)

// MatchHandler handles HTTP requests for match and prediction administration
type MatchHandler struct {
	responder
	matches *service.MatchService
}

// NewMatchHandler creates a new match HTTP handler
func NewMatchHandler(matches *service.MatchService, logger zerolog.Logger) *MatchHandler {
	return &MatchHandler{
		responder: responder{logger: logger.With().Str("component", "match_handler").Logger()},
		matches:   matches,
	}
}

// RegisterRoutes registers match routes
func (h *MatchHandler) RegisterRoutes(r chi.Router, auth *AuthMiddleware) {
	r.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", h.handleGetMatch)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Post("/", h.handleCreateMatch)
			r.Delete("/{matchID}", h.handleDeleteMatch)
			r.Put("/{matchID}/score", h.handleSetScore)
			r.Post("/{matchID}/predictions", h.handleAddPrediction)
			r.Put("/{matchID}/predictions/{position}", h.handleUpdatePrediction)
			r.Delete("/{matchID}/predictions/{position}", h.handleDeletePrediction)
		})
	})
}

// handleCreateMatch handles POST /api/v1/matches
func (h *MatchHandler) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMatchRequest
	if err := decode(r, &req); err != nil {
		h.serviceError(w, r, err)
		return
	}

	match, err := h.matches.CreateMatch(r.Context(), req)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.jsonResponse(w, http.StatusCreated, match)
}

// handleGetMatch handles GET /api/v1/matches/{matchID}
func (h *MatchHandler) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	id, err := matchIDParam(r)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	match, err := h.matches.GetMatch(r.Context(), identityFrom(r.Context()), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, match)
}

// handleDeleteMatch handles DELETE /api/v1/matches/{matchID}
func (h *MatchHandler) handleDeleteMatch(w http.ResponseWriter, r *http.Request) {
	id, err := matchIDParam(r)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	if err := h.matches.DeleteMatch(r.Context(), id); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]string{
		"message": "match deleted",
	})
}

// handleSetScore handles PUT /api/v1/matches/{matchID}/score
func (h *MatchHandler) handleSetScore(w http.ResponseWriter, r *http.Request) {
	id, err := matchIDParam(r)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	var score models.Score
	if err := decode(r, &score); err != nil {
		h.serviceError(w, r, err)
		return
	}

	match, err := h.matches.SetFinalScore(r.Context(), id, score)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, match)
}

// handleAddPrediction handles POST /api/v1/matches/{matchID}/predictions
func (h *MatchHandler) handleAddPrediction(w http.ResponseWriter, r *http.Request) {
	id, err := matchIDParam(r)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	var pred models.Prediction
	if err := decode(r, &pred); err != nil {
		h.serviceError(w, r, err)
		return
	}

	match, err := h.matches.AddPrediction(r.Context(), id, pred)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.jsonResponse(w, http.StatusCreated, match)
}

// handleUpdatePrediction handles PUT /api/v1/matches/{matchID}/predictions/{position}
func (h *MatchHandler) handleUpdatePrediction(w http.ResponseWriter, r *http.Request) {
	id, position, err := positionAddress(r)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	var patch models.PredictionPatch
	if err := decode(r, &patch); err != nil {
		h.serviceError(w, r, err)
		return
	}

	pred, err := h.matches.UpdatePrediction(r.Context(), id, position, patch)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, pred)
}

// handleDeletePrediction handles DELETE /api/v1/matches/{matchID}/predictions/{position}
func (h *MatchHandler) handleDeletePrediction(w http.ResponseWriter, r *http.Request) {
	id, position, err := positionAddress(r)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	deleted, err := h.matches.DeletePrediction(r.Context(), id, position)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"message":    "prediction deleted",
		"prediction": deleted,
	})
}
