package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cypherlabdev/prediction-tracker-service/internal/models"
)

// testStoreSetup is a helper struct to hold test dependencies
type testStoreSetup struct {
	matches     *RedisMatchStore
	subscribers *RedisSubscriberStore
	client      *redis.Client
	miniRedis   *miniredis.Miniredis
	ctx         context.Context
}

// setupTestStore creates stores backed by miniredis
func setupTestStore(t *testing.T) *testStoreSetup {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	logger := zerolog.Nop()
	client := NewRedisClient(RedisConfig{Addr: mr.Addr()})

	return &testStoreSetup{
		matches:     NewRedisMatchStore(client, logger),
		subscribers: NewRedisSubscriberStore(client, time.Hour, logger),
		client:      client,
		miniRedis:   mr,
		ctx:         context.Background(),
	}
}

// cleanup cleans up test resources
func (s *testStoreSetup) cleanup() {
	s.client.Close()
	s.miniRedis.Close()
}

func testMatch(kickoff time.Time, vip bool) *models.Match {
	return &models.Match{
		ID:       uuid.New(),
		HomeTeam: "Enyimba",
		AwayTeam: "Rangers",
		League:   "NPFL",
		Kickoff:  kickoff,
		VIP:      vip,
		Predictions: []models.Prediction{
			{
				Type:       models.PredictionTypeWin,
				Value:      "1",
				Confidence: 72,
				ValueBet:   true,
				Odds: map[string]decimal.Decimal{
					"home": decimal.RequireFromString("1.85"),
					"draw": decimal.RequireFromString("3.40"),
					"away": decimal.RequireFromString("4.10"),
				},
			},
		},
	}
}

// TestSave_Success tests that a match document and its index entry are written
func TestSave_Success(t *testing.T) {
	setup := setupTestStore(t)
	defer setup.cleanup()

	match := testMatch(time.Now(), false)

	err := setup.matches.Save(setup.ctx, match)
	require.NoError(t, err)

	assert.True(t, setup.miniRedis.Exists("match:"+match.ID.String()))
	members, err := setup.miniRedis.ZMembers(kickoffIndexKey)
	require.NoError(t, err)
	assert.Equal(t, []string{match.ID.String()}, members)
}

// TestGet_Success tests loading a saved match
func TestGet_Success(t *testing.T) {
	setup := setupTestStore(t)
	defer setup.cleanup()

	match := testMatch(time.Now().Truncate(time.Millisecond), false)
	match.FinalScore = &models.Score{Home: 2, Away: 1}
	require.NoError(t, setup.matches.Save(setup.ctx, match))

	got, err := setup.matches.Get(setup.ctx, match.ID)
	require.NoError(t, err)

	assert.Equal(t, match.ID, got.ID)
	assert.True(t, match.Kickoff.Equal(got.Kickoff))
	assert.Equal(t, 2, got.FinalScore.Home)
	require.Len(t, got.Predictions, 1)
	assert.True(t, decimal.RequireFromString("1.85").Equal(got.Predictions[0].Odds["home"]))
}

// TestGet_NotFound tests retrieval of a missing match
func TestGet_NotFound(t *testing.T) {
	setup := setupTestStore(t)
	defer setup.cleanup()

	got, err := setup.matches.Get(setup.ctx, uuid.New())

	assert.Nil(t, got)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

// TestGet_StoreUnavailable tests that connection failures are classified
func TestGet_StoreUnavailable(t *testing.T) {
	setup := setupTestStore(t)
	defer setup.cleanup()

	setup.miniRedis.Close()

	_, err := setup.matches.Get(setup.ctx, uuid.New())
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
}

// TestDelete tests removal of document and index entry
func TestDelete(t *testing.T) {
	setup := setupTestStore(t)
	defer setup.cleanup()

	match := testMatch(time.Now(), false)
	require.NoError(t, setup.matches.Save(setup.ctx, match))

	require.NoError(t, setup.matches.Delete(setup.ctx, match.ID))
	assert.False(t, setup.miniRedis.Exists("match:"+match.ID.String()))

	err := setup.matches.Delete(setup.ctx, match.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

// TestList_RangeOrderAndVIP tests range filtering, descending order and the VIP predicate
func TestList_RangeOrderAndVIP(t *testing.T) {
	setup := setupTestStore(t)
	defer setup.cleanup()

	now := time.Now()
	old := testMatch(now.Add(-40*24*time.Hour), false)
	earlier := testMatch(now.Add(-2*time.Hour), false)
	later := testMatch(now.Add(-1*time.Hour), false)
	vip := testMatch(now.Add(-90*time.Minute), true)

	for _, m := range []*models.Match{old, earlier, later, vip} {
		require.NoError(t, setup.matches.Save(setup.ctx, m))
	}

	from, to := now.Add(-30*24*time.Hour), now

	got, err := setup.matches.List(setup.ctx, from, to, false)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, later.ID, got[0].ID)
	assert.Equal(t, earlier.ID, got[1].ID)

	got, err = setup.matches.List(setup.ctx, from, to, true)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []uuid.UUID{later.ID, vip.ID, earlier.ID}, []uuid.UUID{got[0].ID, got[1].ID, got[2].ID})
}

// TestList_SkipsDanglingIndex tests tolerance of index entries without documents
func TestList_SkipsDanglingIndex(t *testing.T) {
	setup := setupTestStore(t)
	defer setup.cleanup()

	match := testMatch(time.Now().Add(-time.Hour), false)
	require.NoError(t, setup.matches.Save(setup.ctx, match))
	setup.miniRedis.Del("match:" + match.ID.String())

	got, err := setup.matches.ListAll(setup.ctx, true)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// TestSave_MovesKickoff tests that re-saving updates the index score
func TestSave_MovesKickoff(t *testing.T) {
	setup := setupTestStore(t)
	defer setup.cleanup()

	now := time.Now()
	match := testMatch(now.Add(-60*24*time.Hour), false)
	require.NoError(t, setup.matches.Save(setup.ctx, match))

	match.Kickoff = now.Add(-time.Hour)
	require.NoError(t, setup.matches.Save(setup.ctx, match))

	got, err := setup.matches.List(setup.ctx, now.Add(-24*time.Hour), now, false)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

// TestSubscriber_SaveGet tests subscriber persistence
func TestSubscriber_SaveGet(t *testing.T) {
	setup := setupTestStore(t)
	defer setup.cleanup()

	expiry := time.Now().Add(30 * 24 * time.Hour).Truncate(time.Second)
	sub := &models.Subscriber{ID: "user-1", Role: models.RoleUser, VIP: true, VIPExpiry: &expiry}
	require.NoError(t, setup.subscribers.Save(setup.ctx, sub))

	got, err := setup.subscribers.Get(setup.ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, got.VIP)
	assert.True(t, expiry.Equal(*got.VIPExpiry))

	_, err = setup.subscribers.Get(setup.ctx, "nobody")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

// TestMarkPaymentApplied tests that a reference is only applied once
func TestMarkPaymentApplied(t *testing.T) {
	setup := setupTestStore(t)
	defer setup.cleanup()

	first, err := setup.subscribers.MarkPaymentApplied(setup.ctx, "VIP_1")
	require.NoError(t, err)
	assert.True(t, first)

	second, err := setup.subscribers.MarkPaymentApplied(setup.ctx, "VIP_1")
	require.NoError(t, err)
	assert.False(t, second)

	assert.Equal(t, time.Hour, setup.miniRedis.TTL("payment:applied:VIP_1"))
}

// TestReleasePayment tests that a released reference can be applied again
func TestReleasePayment(t *testing.T) {
	setup := setupTestStore(t)
	defer setup.cleanup()

	_, err := setup.subscribers.MarkPaymentApplied(setup.ctx, "VIP_2")
	require.NoError(t, err)

	require.NoError(t, setup.subscribers.ReleasePayment(setup.ctx, "VIP_2"))

	again, err := setup.subscribers.MarkPaymentApplied(setup.ctx, "VIP_2")
	require.NoError(t, err)
	assert.True(t, again)
}
