// Package access decides whether a subscriber may see VIP content or use VIP
// features. Content visibility and feature gating both go through this package.
package access

import (
	"fmt"
	"time"

	"github.com/cypherlabdev/prediction-tracker-service/internal/models"
)

// IsEffectivelyVIP reports whether the subscriber holds an active VIP subscription at now.
// The flag alone is not enough: an expiry at or before now revokes access.
func IsEffectivelyVIP(sub *models.Subscriber, now time.Time) bool {
	if sub == nil || !sub.VIP {
		return false
	}
	return sub.VIPExpiry == nil || sub.VIPExpiry.After(now)
}

// RequireVIP fails with models.ErrAccessDenied unless the subscriber is effectively VIP
func RequireVIP(sub *models.Subscriber, now time.Time) error {
	if !IsEffectivelyVIP(sub, now) {
		return fmt.Errorf("%w: VIP access required", models.ErrAccessDenied)
	}
	return nil
}

// RequireAdmin fails with models.ErrAccessDenied unless the subscriber is an admin
func RequireAdmin(sub *models.Subscriber) error {
	if !sub.IsAdmin() {
		return fmt.Errorf("%w: admin access required", models.ErrAccessDenied)
	}
	return nil
}
