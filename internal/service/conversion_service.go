package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/prediction-tracker-service/internal/metrics"
	"github.com/cypherlabdev/prediction-tracker-service/internal/models"
	"github.com/cypherlabdev/prediction-tracker-service/pkg/access"
	"github.com/cypherlabdev/prediction-tracker-service/pkg/conversion"
)

// ConversionService exposes the booking-code converter to VIP subscribers
type ConversionService struct {
	registry    *conversion.Registry
	subscribers SubscriberStore
	now         func() time.Time
	logger      zerolog.Logger
}

// NewConversionService creates a new conversion service
func NewConversionService(registry *conversion.Registry, subscribers SubscriberStore, logger zerolog.Logger) *ConversionService {
	return &ConversionService{
		registry:    registry,
		subscribers: subscribers,
		now:         time.Now,
		logger:      logger.With().Str("component", "conversion_service").Logger(),
	}
}

// Convert translates a booking code for a VIP viewer. Conversions are advisory:
// codes without a rule come back tagged with conversion.FallbackSuffix.
func (s *ConversionService) Convert(ctx context.Context, viewer models.Identity, req models.ConversionRequest) (*models.ConversionResult, error) {
	now := s.now()

	if err := s.requireVIP(ctx, viewer, now, metrics.FeatureConverter); err != nil {
		return nil, err
	}

	if err := models.Validate(&req); err != nil {
		return nil, err
	}
	if conversion.Normalize(req.FromBookmaker) == conversion.Normalize(req.ToBookmaker) {
		return nil, fmt.Errorf("%w: source and destination bookmaker must differ", models.ErrValidationFailed)
	}

	path := metrics.PathFallback
	if s.registry.HasRule(req.FromBookmaker, req.ToBookmaker) {
		path = metrics.PathRule
	}
	converted := s.registry.Convert(req.FromBookmaker, req.ToBookmaker, req.BookingCode)
	metrics.Conversions.WithLabelValues(path).Inc()

	s.logger.Info().
		Str("user_id", viewer.UserID).
		Str("from", req.FromBookmaker).
		Str("to", req.ToBookmaker).
		Str("path", path).
		Msg("converted booking code")

	return &models.ConversionResult{
		OriginalCode:  req.BookingCode,
		FromBookmaker: req.FromBookmaker,
		ToBookmaker:   req.ToBookmaker,
		ConvertedCode: converted,
		ConvertedAt:   now,
	}, nil
}

// Bookmakers returns the converter's bookmaker catalogue to a VIP viewer
func (s *ConversionService) Bookmakers(ctx context.Context, viewer models.Identity) ([]conversion.Bookmaker, error) {
	if err := s.requireVIP(ctx, viewer, s.now(), metrics.FeatureBookmakers); err != nil {
		return nil, err
	}
	return conversion.Catalogue(), nil
}

func (s *ConversionService) requireVIP(ctx context.Context, viewer models.Identity, now time.Time, feature string) error {
	sub, err := resolveViewer(ctx, s.subscribers, viewer)
	if err != nil {
		return err
	}
	if err := access.RequireVIP(sub, now); err != nil {
		metrics.AccessDenied.WithLabelValues(feature).Inc()
		s.logger.Debug().Str("user_id", viewer.UserID).Str("feature", feature).Msg("VIP access denied")
		return err
	}
	return nil
}
