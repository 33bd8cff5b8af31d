package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/prediction-tracker-service/internal/models"
	"github.com/cypherlabdev/prediction-tracker-service/internal/service"
)

// VIPHandler handles HTTP requests for subscription status and VIP-only tools
type VIPHandler struct {
	responder
	subscriptions *service.SubscriptionService
	conversions   *service.ConversionService
}

// NewVIPHandler creates a new VIP HTTP handler
func NewVIPHandler(subscriptions *service.SubscriptionService, conversions *service.ConversionService, logger zerolog.Logger) *VIPHandler {
	return &VIPHandler{
		responder:     responder{logger: logger.With().Str("component", "vip_handler").Logger()},
		subscriptions: subscriptions,
		conversions:   conversions,
	}
}

// RegisterRoutes registers VIP routes
func (h *VIPHandler) RegisterRoutes(r chi.Router, auth *AuthMiddleware) {
	r.Route("/vip", func(r chi.Router) {
		r.Get("/status", h.handleStatus)
		r.Post("/convert-booking-code", h.handleConvert)
		r.Get("/bookmakers", h.handleBookmakers)

		r.With(auth.RequireAdmin).Put("/toggle/{userID}", h.handleToggle)
	})
}

// handleStatus handles GET /api/v1/vip/status
func (h *VIPHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.subscriptions.Status(r.Context(), identityFrom(r.Context()))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, status)
}

// handleToggle handles PUT /api/v1/vip/toggle/{userID}
func (h *VIPHandler) handleToggle(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	status, err := h.subscriptions.ToggleVIP(r.Context(), userID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.logger.Info().
		Str("user_id", userID).
		Str("admin_id", identityFrom(r.Context()).UserID).
		Bool("vip", status.VIPFlag).
		Msg("VIP toggled by admin")

	h.jsonResponse(w, http.StatusOK, status)
}

// handleConvert handles POST /api/v1/vip/convert-booking-code
func (h *VIPHandler) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req models.ConversionRequest
	if err := decode(r, &req); err != nil {
		h.serviceError(w, r, err)
		return
	}

	result, err := h.conversions.Convert(r.Context(), identityFrom(r.Context()), req)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, result)
}

// handleBookmakers handles GET /api/v1/vip/bookmakers
func (h *VIPHandler) handleBookmakers(w http.ResponseWriter, r *http.Request) {
	bookmakers, err := h.conversions.Bookmakers(r.Context(), identityFrom(r.Context()))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"count":      len(bookmakers),
		"bookmakers": bookmakers,
	})
}
