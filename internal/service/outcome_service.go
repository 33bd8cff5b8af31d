package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/prediction-tracker-service/internal/metrics"
	"github.com/cypherlabdev/prediction-tracker-service/internal/models"
)

// OutcomeService records win/loss judgments on a match's predictions.
//
// Two addressing modes exist and are not interchangeable: upserts find an
// outcome by its (prediction type, prediction) signature, while DeleteOutcome
// and UpdateOutcomeAt address the Nth recorded outcome.
type OutcomeService struct {
	matches MatchStore
	now     func() time.Time
	logger  zerolog.Logger
}

// NewOutcomeService creates a new outcome service
func NewOutcomeService(matches MatchStore, logger zerolog.Logger) *OutcomeService {
	return &OutcomeService{
		matches: matches,
		now:     time.Now,
		logger:  logger.With().Str("component", "outcome_service").Logger(),
	}
}

// UpsertOutcome records the judgment for one prediction signature, replacing an
// earlier judgment for the same signature in place.
func (s *OutcomeService) UpsertOutcome(ctx context.Context, matchID uuid.UUID, in models.OutcomeInput, recordedBy string) (*models.Outcome, error) {
	if err := models.Validate(&in); err != nil {
		return nil, err
	}

	match, err := s.matches.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}

	idx, created := upsert(match, in, recordedBy, s.now())

	if err := s.save(ctx, match); err != nil {
		return nil, err
	}

	recordOutcomeMetric(created)
	s.logger.Info().
		Str("match_id", matchID.String()).
		Str("prediction_type", string(in.PredictionType)).
		Str("prediction", in.Prediction).
		Str("actual_result", string(in.ActualResult)).
		Bool("created", created).
		Str("recorded_by", recordedBy).
		Msg("recorded outcome")

	outcome := match.Outcomes[idx]
	return &outcome, nil
}

// BulkUpsertOutcomes applies UpsertOutcome semantics to each entry in input order
// and persists once. Every entry is validated before anything is changed.
func (s *OutcomeService) BulkUpsertOutcomes(ctx context.Context, matchID uuid.UUID, inputs []models.OutcomeInput, recordedBy string) ([]models.Outcome, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: outcomes must not be empty", models.ErrValidationFailed)
	}
	for i := range inputs {
		if err := models.Validate(&inputs[i]); err != nil {
			return nil, fmt.Errorf("outcome %d: %w", i, err)
		}
	}

	match, err := s.matches.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}

	at := s.now()
	created := 0
	for _, in := range inputs {
		if _, isNew := upsert(match, in, recordedBy, at); isNew {
			created++
		}
	}

	if err := s.save(ctx, match); err != nil {
		return nil, err
	}

	metrics.OutcomesRecorded.WithLabelValues(metrics.ActionCreated).Add(float64(created))
	metrics.OutcomesRecorded.WithLabelValues(metrics.ActionUpdated).Add(float64(len(inputs) - created))
	s.logger.Info().
		Str("match_id", matchID.String()).
		Int("input_count", len(inputs)).
		Int("created", created).
		Int("outcome_count", len(match.Outcomes)).
		Str("recorded_by", recordedBy).
		Msg("recorded outcomes in bulk")

	return match.Outcomes, nil
}

// DeleteOutcome removes the outcome at position
func (s *OutcomeService) DeleteOutcome(ctx context.Context, matchID uuid.UUID, position int) (*models.Outcome, error) {
	match, err := s.matches.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if position < 0 || position >= len(match.Outcomes) {
		return nil, fmt.Errorf("%w: outcome %d of match %s", models.ErrNotFound, position, matchID)
	}

	deleted := match.Outcomes[position]
	match.Outcomes = append(match.Outcomes[:position], match.Outcomes[position+1:]...)

	if err := s.save(ctx, match); err != nil {
		return nil, err
	}

	metrics.OutcomesRecorded.WithLabelValues(metrics.ActionDeleted).Inc()
	s.logger.Info().
		Str("match_id", matchID.String()).
		Int("position", position).
		Str("prediction_type", string(deleted.PredictionType)).
		Str("prediction", deleted.Prediction).
		Msg("deleted outcome")

	return &deleted, nil
}

// UpdateOutcomeAt edits the outcome at position. Empty patch fields keep their
// current value. The edit is refused if it would give the outcome the same
// signature as another recorded outcome.
func (s *OutcomeService) UpdateOutcomeAt(ctx context.Context, matchID uuid.UUID, position int, patch models.OutcomePatch, recordedBy string) (*models.Outcome, error) {
	if err := models.Validate(&patch); err != nil {
		return nil, err
	}

	match, err := s.matches.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if position < 0 || position >= len(match.Outcomes) {
		return nil, fmt.Errorf("%w: outcome %d of match %s", models.ErrNotFound, position, matchID)
	}

	updated := match.Outcomes[position]
	if patch.PredictionType != "" {
		updated.PredictionType = patch.PredictionType
	}
	if patch.Prediction != "" {
		updated.Prediction = patch.Prediction
	}
	if patch.ActualResult != "" {
		updated.ActualResult = patch.ActualResult
	}

	for i := range match.Outcomes {
		if i != position && match.Outcomes[i].Matches(updated.PredictionType, updated.Prediction) {
			return nil, fmt.Errorf("%w: outcome for %s/%s already recorded at position %d",
				models.ErrValidationFailed, updated.PredictionType, updated.Prediction, i)
		}
	}

	updated.RecordedBy = recordedBy
	updated.RecordedAt = s.now()
	match.Outcomes[position] = updated

	if err := s.save(ctx, match); err != nil {
		return nil, err
	}

	metrics.OutcomesRecorded.WithLabelValues(metrics.ActionUpdated).Inc()
	s.logger.Info().
		Str("match_id", matchID.String()).
		Int("position", position).
		Str("actual_result", string(updated.ActualResult)).
		Str("recorded_by", recordedBy).
		Msg("updated outcome")

	return &updated, nil
}

func (s *OutcomeService) save(ctx context.Context, match *models.Match) error {
	match.UpdatedAt = s.now()
	if err := s.matches.Save(ctx, match); err != nil {
		s.logger.Error().Err(err).Str("match_id", match.ID.String()).Msg("failed to persist match")
		return err
	}
	return nil
}

// upsert replaces the outcome with the same signature or appends a new one. It
// returns the outcome's position and whether it was appended.
func upsert(match *models.Match, in models.OutcomeInput, recordedBy string, at time.Time) (int, bool) {
	for i := range match.Outcomes {
		o := &match.Outcomes[i]
		if o.Matches(in.PredictionType, in.Prediction) {
			o.ActualResult = in.ActualResult
			o.RecordedBy = recordedBy
			o.RecordedAt = at
			return i, false
		}
	}

	match.Outcomes = append(match.Outcomes, models.Outcome{
		PredictionType: in.PredictionType,
		Prediction:     in.Prediction,
		ActualResult:   in.ActualResult,
		RecordedBy:     recordedBy,
		RecordedAt:     at,
	})
	return len(match.Outcomes) - 1, true
}

func recordOutcomeMetric(created bool) {
	if created {
		metrics.OutcomesRecorded.WithLabelValues(metrics.ActionCreated).Inc()
		return
	}
	metrics.OutcomesRecorded.WithLabelValues(metrics.ActionUpdated).Inc()
}
