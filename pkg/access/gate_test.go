package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cypherlabdev/prediction-tracker-service/internal/models"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestIsEffectivelyVIP(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		sub  *models.Subscriber
		want bool
	}{
		{"nil subscriber", nil, false},
		{"flag off, no expiry", &models.Subscriber{VIP: false}, false},
		{"flag off, future expiry", &models.Subscriber{VIP: false, VIPExpiry: timePtr(now.Add(24 * time.Hour))}, false},
		{"flag on, no expiry", &models.Subscriber{VIP: true}, true},
		{"flag on, future expiry", &models.Subscriber{VIP: true, VIPExpiry: timePtr(now.Add(time.Minute))}, true},
		{"flag on, past expiry", &models.Subscriber{VIP: true, VIPExpiry: timePtr(now.Add(-time.Nanosecond))}, false},
		{"flag on, expiry equals now", &models.Subscriber{VIP: true, VIPExpiry: timePtr(now)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEffectivelyVIP(tt.sub, now))
		})
	}
}

func TestRequireVIP(t *testing.T) {
	now := time.Now()

	err := RequireVIP(&models.Subscriber{VIP: true, VIPExpiry: timePtr(now.Add(-time.Hour))}, now)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrAccessDenied)

	assert.NoError(t, RequireVIP(&models.Subscriber{VIP: true}, now))
}

func TestRequireAdmin(t *testing.T) {
	assert.ErrorIs(t, RequireAdmin(nil), models.ErrAccessDenied)
	assert.ErrorIs(t, RequireAdmin(&models.Subscriber{Role: models.RoleUser}), models.ErrAccessDenied)
	assert.NoError(t, RequireAdmin(&models.Subscriber{Role: models.RoleAdmin}))
}
