package service

import (
	"context"

	"github.com/cypherlabdev/prediction-tracker-service/internal/models"
)

// PaymentProcessor is an interface that abstracts applying payment confirmations
// This allows for easier testing and mocking
type PaymentProcessor interface {
	ApplyPayment(ctx context.Context, event *models.PaymentEvent) error
}
