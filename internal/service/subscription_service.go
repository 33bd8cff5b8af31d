package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/prediction-tracker-service/internal/metrics"
	"github.com/cypherlabdev/prediction-tracker-service/internal/models"
	"github.com/cypherlabdev/prediction-tracker-service/pkg/access"
)

// SubscriptionService maintains VIP subscription state
type SubscriptionService struct {
	subscribers SubscriberStore
	plan        models.SubscriptionPlan
	now         func() time.Time
	logger      zerolog.Logger
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(subscribers SubscriberStore, plan models.SubscriptionPlan, logger zerolog.Logger) *SubscriptionService {
	return &SubscriptionService{
		subscribers: subscribers,
		plan:        plan,
		now:         time.Now,
		logger:      logger.With().Str("component", "subscription_service").Logger(),
	}
}

// Status reports the viewer's subscription state
func (s *SubscriptionService) Status(ctx context.Context, viewer models.Identity) (*models.VIPStatus, error) {
	sub, err := resolveViewer(ctx, s.subscribers, viewer)
	if err != nil {
		return nil, err
	}
	return status(sub, s.now()), nil
}

// ApplyPayment extends a subscription for a completed payment. The yearly tier
// amount buys a year, any other amount a month, counted from the later of now
// and the current expiry. Each payment reference is applied at most once.
func (s *SubscriptionService) ApplyPayment(ctx context.Context, event *models.PaymentEvent) error {
	if err := models.Validate(event); err != nil {
		return err
	}

	if event.Status != models.PaymentStatusCompleted {
		s.logger.Debug().
			Str("reference", event.Reference).
			Str("status", event.Status).
			Msg("ignoring payment that is not completed")
		return nil
	}

	first, err := s.subscribers.MarkPaymentApplied(ctx, event.Reference)
	if err != nil {
		return err
	}
	if !first {
		s.logger.Info().Str("reference", event.Reference).Msg("payment already applied")
		return nil
	}

	expiry, plan, err := s.extend(ctx, event)
	if err != nil {
		if releaseErr := s.subscribers.ReleasePayment(ctx, event.Reference); releaseErr != nil {
			s.logger.Error().Err(releaseErr).Str("reference", event.Reference).Msg("failed to release payment reference")
		}
		return err
	}

	metrics.PaymentsApplied.WithLabelValues(plan).Inc()
	s.logger.Info().
		Str("reference", event.Reference).
		Str("user_id", event.UserID).
		Str("amount", event.Amount.String()).
		Str("plan", plan).
		Time("vip_expiry", expiry).
		Msg("applied payment")

	return nil
}

func (s *SubscriptionService) extend(ctx context.Context, event *models.PaymentEvent) (time.Time, string, error) {
	sub, err := s.subscribers.Get(ctx, event.UserID)
	if errors.Is(err, models.ErrNotFound) {
		sub = &models.Subscriber{ID: event.UserID, Role: models.RoleUser}
	} else if err != nil {
		return time.Time{}, "", err
	}

	now := s.now()
	base := now
	if sub.VIPExpiry != nil && sub.VIPExpiry.After(now) {
		base = *sub.VIPExpiry
	}

	plan := metrics.PlanMonthly
	expiry := base.AddDate(0, 1, 0)
	if event.Amount.Equal(s.plan.YearlyAmount) {
		plan = metrics.PlanYearly
		expiry = base.AddDate(1, 0, 0)
	}

	sub.VIP = true
	sub.VIPExpiry = &expiry
	if err := s.subscribers.Save(ctx, sub); err != nil {
		return time.Time{}, "", err
	}

	return expiry, plan, nil
}

// ToggleVIP flips a user's VIP flag. Turning it on grants a year from now,
// turning it off clears the expiry.
func (s *SubscriptionService) ToggleVIP(ctx context.Context, userID string) (*models.VIPStatus, error) {
	sub, err := s.subscribers.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sub.VIP = !sub.VIP
	if sub.VIP {
		expiry := now.AddDate(1, 0, 0)
		sub.VIPExpiry = &expiry
	} else {
		sub.VIPExpiry = nil
	}

	if err := s.subscribers.Save(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Bool("vip", sub.VIP).Msg("toggled VIP")
	return status(sub, now), nil
}

func status(sub *models.Subscriber, now time.Time) *models.VIPStatus {
	return &models.VIPStatus{
		IsVIP:     access.IsEffectivelyVIP(sub, now),
		VIPFlag:   sub.VIP,
		VIPExpiry: sub.VIPExpiry,
	}
}
