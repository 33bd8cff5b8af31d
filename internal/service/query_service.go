package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/prediction-tracker-service/internal/metrics"
	"github.com/cypherlabdev/prediction-tracker-service/internal/models"
	"github.com/cypherlabdev/prediction-tracker-service/pkg/access"
	"github.com/cypherlabdev/prediction-tracker-service/pkg/classifier"
)

// QueryConfig holds query defaults
type QueryConfig struct {
	DefaultDaysBack int // window length when neither date nor days are given
	DatesLimit      int // distinct dates returned when the caller gives no limit
}

// OutcomeQuery holds the caller's filters for the outcomes listing
type OutcomeQuery struct {
	Date     string
	DaysBack *int
	Type     models.PredictionType
}

// QueryService serves the classified outcomes listing and date navigation
type QueryService struct {
	matches     MatchStore
	subscribers SubscriberStore
	config      QueryConfig
	now         func() time.Time
	logger      zerolog.Logger
}

// NewQueryService creates a new query service
func NewQueryService(matches MatchStore, subscribers SubscriberStore, config QueryConfig, logger zerolog.Logger) *QueryService {
	if config.DefaultDaysBack <= 0 {
		config.DefaultDaysBack = classifier.DefaultDaysBack
	}
	if config.DatesLimit <= 0 {
		config.DatesLimit = 30
	}
	return &QueryService{
		matches:     matches,
		subscribers: subscribers,
		config:      config,
		now:         time.Now,
		logger:      logger.With().Str("component", "query_service").Logger(),
	}
}

// Outcomes returns the viewer-visible matches of the requested window, bucketed
func (s *QueryService) Outcomes(ctx context.Context, viewer models.Identity, q OutcomeQuery) (*models.ClassifiedOutcomes, error) {
	now := s.now()

	window, err := classifier.ResolveWindowWithDefault(classifier.WindowParams{
		Date:     q.Date,
		DaysBack: q.DaysBack,
	}, now, s.config.DefaultDaysBack)
	if err != nil {
		return nil, err
	}

	sub, err := resolveViewer(ctx, s.subscribers, viewer)
	if err != nil {
		return nil, err
	}
	isVIP := access.IsEffectivelyVIP(sub, now)

	matches, err := s.matches.List(ctx, window.From, window.To, isVIP)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list matches")
		return nil, err
	}

	buckets := classifier.Classify(matches, classifier.Query{
		Window:      window,
		ViewerIsVIP: isVIP,
		TypeFilter:  q.Type,
		Now:         now,
	})

	if isVIP {
		metrics.Classifications.WithLabelValues(metrics.ViewerVIP).Inc()
	} else {
		metrics.Classifications.WithLabelValues(metrics.ViewerRegular).Inc()
	}

	s.logger.Debug().
		Str("user_id", viewer.UserID).
		Bool("vip", isVIP).
		Time("from", window.From).
		Time("to", window.To).
		Str("type", string(q.Type)).
		Int("all", len(buckets.All)).
		Msg("classified outcomes")

	return &models.ClassifiedOutcomes{
		Todays:   summarize(buckets.Todays),
		TopPicks: summarize(buckets.TopPicks),
		VIP:      summarize(buckets.VIP),
		All:      summarize(buckets.All),
	}, nil
}

// Dates returns the distinct match dates visible to the viewer, most recent first
func (s *QueryService) Dates(ctx context.Context, viewer models.Identity, limit int) ([]string, error) {
	now := s.now()

	sub, err := resolveViewer(ctx, s.subscribers, viewer)
	if err != nil {
		return nil, err
	}
	isVIP := access.IsEffectivelyVIP(sub, now)

	matches, err := s.matches.ListAll(ctx, isVIP)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list matches")
		return nil, err
	}

	if limit <= 0 {
		limit = s.config.DatesLimit
	}

	return classifier.DistinctDates(matches, isVIP, limit, now.Location()), nil
}

func summarize(matches []*models.Match) []models.MatchSummary {
	out := make([]models.MatchSummary, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.ToSummary())
	}
	return out
}
