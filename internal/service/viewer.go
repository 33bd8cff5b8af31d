package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cypherlabdev/prediction-tracker-service/internal/models"
)

// resolveViewer loads the caller's subscription state. Callers without a stored
// subscriber record are treated as regular, non-VIP users. The role always comes
// from the identity provider.
func resolveViewer(ctx context.Context, subscribers SubscriberStore, id models.Identity) (*models.Subscriber, error) {
	sub, err := subscribers.Get(ctx, id.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return &models.Subscriber{ID: id.UserID, Role: id.Role}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve viewer: %w", err)
	}

	sub.Role = id.Role
	return sub, nil
}
