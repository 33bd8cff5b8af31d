package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/prediction-tracker-service/internal/metrics"
	"github.com/cypherlabdev/prediction-tracker-service/internal/models"
	"github.com/cypherlabdev/prediction-tracker-service/pkg/access"
)

// MatchService handles administrative changes to matches and their predictions.
// Predictions are addressed by position.
type MatchService struct {
	matches     MatchStore
	subscribers SubscriberStore
	now         func() time.Time
	logger      zerolog.Logger
}

// NewMatchService creates a new match service
func NewMatchService(matches MatchStore, subscribers SubscriberStore, logger zerolog.Logger) *MatchService {
	return &MatchService{
		matches:     matches,
		subscribers: subscribers,
		now:         time.Now,
		logger:      logger.With().Str("component", "match_service").Logger(),
	}
}

// CreateMatch validates and stores a new match
func (s *MatchService) CreateMatch(ctx context.Context, req models.CreateMatchRequest) (*models.Match, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	match := &models.Match{
		ID:          uuid.New(),
		HomeTeam:    req.HomeTeam,
		AwayTeam:    req.AwayTeam,
		League:      req.League,
		Kickoff:     req.Kickoff,
		VIP:         req.VIP,
		Predictions: req.Predictions,
		Outcomes:    []models.Outcome{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if match.Predictions == nil {
		match.Predictions = []models.Prediction{}
	}

	if err := s.matches.Save(ctx, match); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("match_id", match.ID.String()).
		Str("home_team", match.HomeTeam).
		Str("away_team", match.AwayTeam).
		Time("kickoff", match.Kickoff).
		Bool("vip", match.VIP).
		Msg("created match")

	return match, nil
}

// GetMatch returns a match to a viewer. VIP matches require an active VIP subscription.
func (s *MatchService) GetMatch(ctx context.Context, viewer models.Identity, id uuid.UUID) (*models.Match, error) {
	match, err := s.matches.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if match.VIP {
		sub, err := resolveViewer(ctx, s.subscribers, viewer)
		if err != nil {
			return nil, err
		}
		if err := access.RequireVIP(sub, s.now()); err != nil {
			metrics.AccessDenied.WithLabelValues(metrics.FeatureVIPMatch).Inc()
			return nil, err
		}
	}

	return match, nil
}

// DeleteMatch removes a match with all of its predictions and outcomes
func (s *MatchService) DeleteMatch(ctx context.Context, id uuid.UUID) error {
	return s.matches.Delete(ctx, id)
}

// SetFinalScore records the final score of a match
func (s *MatchService) SetFinalScore(ctx context.Context, id uuid.UUID, score models.Score) (*models.Match, error) {
	if err := models.Validate(&score); err != nil {
		return nil, err
	}

	match, err := s.matches.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	match.FinalScore = &score
	if err := s.save(ctx, match); err != nil {
		return nil, err
	}

	return match, nil
}

// AddPrediction appends a prediction to a match
func (s *MatchService) AddPrediction(ctx context.Context, id uuid.UUID, pred models.Prediction) (*models.Match, error) {
	if err := pred.Validate(); err != nil {
		return nil, err
	}

	match, err := s.matches.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	match.Predictions = append(match.Predictions, pred)
	if err := s.save(ctx, match); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("match_id", id.String()).
		Str("type", string(pred.Type)).
		Str("prediction", pred.Value).
		Msg("added prediction")

	return match, nil
}

// UpdatePrediction applies a patch to the prediction at position
func (s *MatchService) UpdatePrediction(ctx context.Context, id uuid.UUID, position int, patch models.PredictionPatch) (*models.Prediction, error) {
	match, err := s.matches.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := checkPredictionPosition(match, position); err != nil {
		return nil, err
	}

	pred := match.Predictions[position]
	if patch.Type != nil {
		pred.Type = *patch.Type
	}
	if patch.Value != nil {
		pred.Value = *patch.Value
	}
	if patch.Confidence != nil {
		pred.Confidence = *patch.Confidence
	}
	if patch.ValueBet != nil {
		pred.ValueBet = *patch.ValueBet
	}
	if patch.VIP != nil {
		pred.VIP = *patch.VIP
	}
	if patch.Odds != nil {
		pred.Odds = patch.Odds
	}

	if err := pred.Validate(); err != nil {
		return nil, err
	}

	match.Predictions[position] = pred
	if err := s.save(ctx, match); err != nil {
		return nil, err
	}

	return &pred, nil
}

// DeletePrediction removes the prediction at position. Outcomes already recorded
// against its signature are kept.
func (s *MatchService) DeletePrediction(ctx context.Context, id uuid.UUID, position int) (*models.Prediction, error) {
	match, err := s.matches.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := checkPredictionPosition(match, position); err != nil {
		return nil, err
	}

	deleted := match.Predictions[position]
	match.Predictions = append(match.Predictions[:position], match.Predictions[position+1:]...)

	if err := s.save(ctx, match); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("match_id", id.String()).
		Int("position", position).
		Msg("deleted prediction")

	return &deleted, nil
}

func (s *MatchService) save(ctx context.Context, match *models.Match) error {
	match.UpdatedAt = s.now()
	if err := s.matches.Save(ctx, match); err != nil {
		s.logger.Error().Err(err).Str("match_id", match.ID.String()).Msg("failed to persist match")
		return err
	}
	return nil
}

func checkPredictionPosition(match *models.Match, position int) error {
	if position < 0 || position >= len(match.Predictions) {
		return fmt.Errorf("%w: invalid prediction index %d", models.ErrValidationFailed, position)
	}
	return nil
}
