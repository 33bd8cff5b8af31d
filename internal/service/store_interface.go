package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cypherlabdev/prediction-tracker-service/internal/models"
)

// MatchStore is an interface that abstracts match document persistence
// This allows for easier testing and mocking
type MatchStore interface {
	Save(ctx context.Context, match *models.Match) error
	Get(ctx context.Context, id uuid.UUID) (*models.Match, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, from, to time.Time, includeVIP bool) ([]*models.Match, error)
	ListAll(ctx context.Context, includeVIP bool) ([]*models.Match, error)
	Ping(ctx context.Context) error
}

// SubscriberStore is an interface that abstracts subscriber persistence
type SubscriberStore interface {
	Get(ctx context.Context, id string) (*models.Subscriber, error)
	Save(ctx context.Context, sub *models.Subscriber) error
	MarkPaymentApplied(ctx context.Context, reference string) (bool, error)
	ReleasePayment(ctx context.Context, reference string) error
}
