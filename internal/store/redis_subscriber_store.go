package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/prediction-tracker-service/internal/models"
)

// RedisSubscriberStore persists subscriber state and applied payment references
type RedisSubscriberStore struct {
	client       *redis.Client
	referenceTTL time.Duration
	logger       zerolog.Logger
}

// NewRedisSubscriberStore creates a subscriber store. Applied payment references
// are remembered for referenceTTL (0 keeps them forever).
func NewRedisSubscriberStore(client *redis.Client, referenceTTL time.Duration, logger zerolog.Logger) *RedisSubscriberStore {
	return &RedisSubscriberStore{
		client:       client,
		referenceTTL: referenceTTL,
		logger:       logger.With().Str("component", "redis_subscriber_store").Logger(),
	}
}

func subscriberKey(id string) string {
	return fmt.Sprintf("subscriber:%s", id)
}

func paymentKey(reference string) string {
	return fmt.Sprintf("payment:applied:%s", reference)
}

// Get loads a subscriber
func (s *RedisSubscriberStore) Get(ctx context.Context, id string) (*models.Subscriber, error) {
	data, err := s.client.Get(ctx, subscriberKey(id)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: subscriber %s", models.ErrNotFound, id)
	} else if err != nil {
		return nil, fmt.Errorf("%w: failed to get subscriber %s: %v", models.ErrStoreUnavailable, id, err)
	}

	var sub models.Subscriber
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal subscriber %s: %v", models.ErrStoreUnavailable, id, err)
	}

	return &sub, nil
}

// Save upserts a subscriber
func (s *RedisSubscriberStore) Save(ctx context.Context, sub *models.Subscriber) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to marshal subscriber: %w", err)
	}

	if err := s.client.Set(ctx, subscriberKey(sub.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("%w: failed to save subscriber %s: %v", models.ErrStoreUnavailable, sub.ID, err)
	}

	s.logger.Debug().
		Str("subscriber_id", sub.ID).
		Bool("vip", sub.VIP).
		Msg("saved subscriber")

	return nil
}

// MarkPaymentApplied records a payment reference and reports whether this call
// was the first to do so.
func (s *RedisSubscriberStore) MarkPaymentApplied(ctx context.Context, reference string) (bool, error) {
	ok, err := s.client.SetNX(ctx, paymentKey(reference), time.Now().UTC().Format(time.RFC3339), s.referenceTTL).Result()
	if err != nil {
		return false, fmt.Errorf("%w: failed to mark payment %s: %v", models.ErrStoreUnavailable, reference, err)
	}

	return ok, nil
}

// ReleasePayment forgets an applied payment reference so a redelivery can apply it
func (s *RedisSubscriberStore) ReleasePayment(ctx context.Context, reference string) error {
	if err := s.client.Del(ctx, paymentKey(reference)).Err(); err != nil {
		return fmt.Errorf("%w: failed to release payment %s: %v", models.ErrStoreUnavailable, reference, err)
	}
	return nil
}
