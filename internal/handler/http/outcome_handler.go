package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/prediction-tracker-service/internal/models"
	"github.com/cypherlabdev/prediction-tracker-service/internal/service"
)

// OutcomeHandler handles HTTP requests for outcome tracking and the outcomes listing
type OutcomeHandler struct {
	responder
	outcomes *service.OutcomeService
	queries  *service.QueryService
}

// NewOutcomeHandler creates a new outcome HTTP handler
func NewOutcomeHandler(outcomes *service.OutcomeService, queries *service.QueryService, logger zerolog.Logger) *OutcomeHandler {
	return &OutcomeHandler{
		responder: responder{logger: logger.With().Str("component", "outcome_handler").Logger()},
		outcomes:  outcomes,
		queries:   queries,
	}
}

// RegisterRoutes registers outcome routes. Writes are restricted to admins.
func (h *OutcomeHandler) RegisterRoutes(r chi.Router, auth *AuthMiddleware) {
	r.Route("/outcomes", func(r chi.Router) {
		// GET /api/v1/outcomes?type=&days=&date= - Classified outcomes
		r.Get("/", h.handleListOutcomes)

		// GET /api/v1/outcomes/dates?limit= - Distinct match dates
		r.Get("/dates", h.handleListDates)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Put("/{matchID}/outcome", h.handleUpsertOutcome)
			r.Put("/{matchID}/outcomes", h.handleBulkUpsertOutcomes)
			r.Put("/{matchID}/outcome/{position}", h.handleUpdateOutcome)
			r.Delete("/{matchID}/outcome/{position}", h.handleDeleteOutcome)
		})
	})
}

// handleListOutcomes handles GET /api/v1/outcomes
func (h *OutcomeHandler) handleListOutcomes(w http.ResponseWriter, r *http.Request) {
	q := service.OutcomeQuery{
		Date: r.URL.Query().Get("date"),
		Type: models.PredictionType(r.URL.Query().Get("type")),
	}

	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			h.errorResponse(w, http.StatusBadRequest, "days must be an integer")
			return
		}
		q.DaysBack = &days
	}

	result, err := h.queries.Outcomes(r.Context(), identityFrom(r.Context()), q)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, result)
}

// handleListDates handles GET /api/v1/outcomes/dates
func (h *OutcomeHandler) handleListDates(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.errorResponse(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	dates, err := h.queries.Dates(r.Context(), identityFrom(r.Context()), limit)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"count": len(dates),
		"dates": dates,
	})
}

// handleUpsertOutcome handles PUT /api/v1/outcomes/{matchID}/outcome
func (h *OutcomeHandler) handleUpsertOutcome(w http.ResponseWriter, r *http.Request) {
	matchID, err := matchIDParam(r)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	var in models.OutcomeInput
	if err := decode(r, &in); err != nil {
		h.serviceError(w, r, err)
		return
	}

	outcome, err := h.outcomes.UpsertOutcome(r.Context(), matchID, in, identityFrom(r.Context()).UserID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, outcome)
}

// handleBulkUpsertOutcomes handles PUT /api/v1/outcomes/{matchID}/outcomes
func (h *OutcomeHandler) handleBulkUpsertOutcomes(w http.ResponseWriter, r *http.Request) {
	matchID, err := matchIDParam(r)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	var body struct {
		Outcomes []models.OutcomeInput `json:"outcomes"`
	}
	if err := decode(r, &body); err != nil {
		h.serviceError(w, r, err)
		return
	}

	outcomes, err := h.outcomes.BulkUpsertOutcomes(r.Context(), matchID, body.Outcomes, identityFrom(r.Context()).UserID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"match_id": matchID,
		"count":    len(outcomes),
		"outcomes": outcomes,
	})
}

// handleUpdateOutcome handles PUT /api/v1/outcomes/{matchID}/outcome/{position}
func (h *OutcomeHandler) handleUpdateOutcome(w http.ResponseWriter, r *http.Request) {
	matchID, position, err := positionAddress(r)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	var patch models.OutcomePatch
	if err := decode(r, &patch); err != nil {
		h.serviceError(w, r, err)
		return
	}

	outcome, err := h.outcomes.UpdateOutcomeAt(r.Context(), matchID, position, patch, identityFrom(r.Context()).UserID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, outcome)
}

// handleDeleteOutcome handles DELETE /api/v1/outcomes/{matchID}/outcome/{position}
func (h *OutcomeHandler) handleDeleteOutcome(w http.ResponseWriter, r *http.Request) {
	matchID, position, err := positionAddress(r)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	deleted, err := h.outcomes.DeleteOutcome(r.Context(), matchID, position)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("outcome %d deleted", position),
		"outcome": deleted,
	})
}
