package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
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
	"github.com/cypherlabdev/prediction-tracker-service/internal/service"
	"github.com/cypherlabdev/prediction-tracker-service/internal/store"
	"github.com/cypherlabdev/prediction-tracker-service/pkg/conversion"
)

// testRouterSetup wires the real services over miniredis
type testRouterSetup struct {
	router      http.Handler
	subscribers *store.RedisSubscriberStore
	client      *redis.Client
	miniRedis   *miniredis.Miniredis
}

func setupTestRouter(t *testing.T) *testRouterSetup {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	logger := zerolog.Nop()
	client := store.NewRedisClient(store.RedisConfig{Addr: mr.Addr()})
	matches := store.NewRedisMatchStore(client, logger)
	subscribers := store.NewRedisSubscriberStore(client, time.Hour, logger)

	plan := models.SubscriptionPlan{
		YearlyAmount:  decimal.NewFromInt(50000),
		MonthlyAmount: decimal.NewFromInt(5000),
	}

	handlers := Handlers{
		Outcomes: NewOutcomeHandler(
			service.NewOutcomeService(matches, logger),
			service.NewQueryService(matches, subscribers, service.QueryConfig{}, logger),
			logger,
		),
		Matches: NewMatchHandler(service.NewMatchService(matches, subscribers, logger), logger),
		VIP: NewVIPHandler(
			service.NewSubscriptionService(subscribers, plan, logger),
			service.NewConversionService(conversion.NewDefaultRegistry(), subscribers, logger),
			logger,
		),
	}

	return &testRouterSetup{
		router:      NewRouter(RouterConfig{AllowedOrigins: []string{"*"}}, handlers, matches, logger),
		subscribers: subscribers,
		client:      client,
		miniRedis:   mr,
	}
}

// cleanup cleans up test resources
func (s *testRouterSetup) cleanup() {
	s.client.Close()
	s.miniRedis.Close()
}

func (s *testRouterSetup) do(t *testing.T, method, path string, caller models.Identity, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if caller.UserID != "" {
		req.Header.Set(HeaderUserID, caller.UserID)
		req.Header.Set(HeaderUserRole, string(caller.Role))
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testRouterSetup) seedVIP(t *testing.T, userID string) {
	expiry := time.Now().AddDate(0, 1, 0)
	require.NoError(t, s.subscribers.Save(context.Background(), &models.Subscriber{
		ID:        userID,
		Role:      models.RoleUser,
		VIP:       true,
		VIPExpiry: &expiry,
	}))
}

func (s *testRouterSetup) createMatch(t *testing.T, vip bool) *models.Match {
	rec := s.do(t, http.MethodPost, "/api/v1/matches", admin, models.CreateMatchRequest{
		HomeTeam: "Enyimba",
		AwayTeam: "Rangers",
		League:   "NPFL",
		Kickoff:  time.Now().Add(-time.Second),
		VIP:      vip,
		Predictions: []models.Prediction{
			{Type: models.PredictionTypeWin, Value: "1", Confidence: 70, ValueBet: true},
			{Type: models.PredictionTypeOver25, Value: "over", Confidence: 60},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var match models.Match
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &match))
	return &match
}

var (
	admin   = models.Identity{UserID: "admin-1", Role: models.RoleAdmin}
	regular = models.Identity{UserID: "user-1", Role: models.RoleUser}
	vipUser = models.Identity{UserID: "vip-1", Role: models.RoleUser}
)

// TestHealthAndReady tests the monitoring endpoints
func TestHealthAndReady(t *testing.T) {
	setup := setupTestRouter(t)
	defer setup.cleanup()

	rec := setup.do(t, http.MethodGet, "/health", models.Identity{}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = setup.do(t, http.MethodGet, "/ready", models.Identity{}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = setup.do(t, http.MethodGet, "/metrics", models.Identity{}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")

	setup.miniRedis.Close()
	rec = setup.do(t, http.MethodGet, "/ready", models.Identity{}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

// TestIdentityRequired tests that API calls without an identity are rejected
func TestIdentityRequired(t *testing.T) {
	setup := setupTestRouter(t)
	defer setup.cleanup()

	rec := setup.do(t, http.MethodGet, "/api/v1/outcomes", models.Identity{}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestAdminRoutes tests that writes require the admin role
func TestAdminRoutes(t *testing.T) {
	setup := setupTestRouter(t)
	defer setup.cleanup()

	rec := setup.do(t, http.MethodPost, "/api/v1/matches", regular, models.CreateMatchRequest{HomeTeam: "A"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = setup.do(t, http.MethodPut, "/api/v1/outcomes/"+uuid.NewString()+"/outcome", regular, models.OutcomeInput{})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = setup.do(t, http.MethodPut, "/api/v1/vip/toggle/user-1", regular, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// TestOutcomeFlow tests recording outcomes and reading them back through the listing
func TestOutcomeFlow(t *testing.T) {
	setup := setupTestRouter(t)
	defer setup.cleanup()

	match := setup.createMatch(t, false)
	base := "/api/v1/outcomes/" + match.ID.String()

	rec := setup.do(t, http.MethodPut, base+"/outcome", admin, models.OutcomeInput{
		PredictionType: models.PredictionTypeWin, Prediction: "1", ActualResult: models.ResultWin,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = setup.do(t, http.MethodPut, base+"/outcomes", admin, map[string]interface{}{
		"outcomes": []models.OutcomeInput{
			{PredictionType: models.PredictionTypeWin, Prediction: "1", ActualResult: models.ResultLoss},
			{PredictionType: models.PredictionTypeOver25, Prediction: "over", ActualResult: models.ResultWin},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = setup.do(t, http.MethodGet, "/api/v1/outcomes?days=1", regular, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result models.ClassifiedOutcomes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.All, 1)
	require.Len(t, result.All[0].Outcomes, 2)
	assert.Equal(t, models.ResultLoss, result.All[0].Outcomes[0].ActualResult)
	assert.Equal(t, "admin-1", result.All[0].Outcomes[0].RecordedBy)
	require.Len(t, result.TopPicks, 1)

	rec = setup.do(t, http.MethodPut, base+"/outcome/1", admin, models.OutcomePatch{ActualResult: models.ResultLoss})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = setup.do(t, http.MethodDelete, base+"/outcome/0", admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = setup.do(t, http.MethodDelete, base+"/outcome/5", admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestOutcomeErrors tests the error mapping of outcome routes
func TestOutcomeErrors(t *testing.T) {
	setup := setupTestRouter(t)
	defer setup.cleanup()

	match := setup.createMatch(t, false)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
	}{
		{"invalid result", http.MethodPut, "/api/v1/outcomes/" + match.ID.String() + "/outcome",
			models.OutcomeInput{PredictionType: models.PredictionTypeWin, Prediction: "1", ActualResult: "void"}, http.StatusBadRequest},
		{"unknown match", http.MethodPut, "/api/v1/outcomes/" + uuid.NewString() + "/outcome",
			models.OutcomeInput{PredictionType: models.PredictionTypeWin, Prediction: "1", ActualResult: models.ResultWin}, http.StatusNotFound},
		{"malformed match id", http.MethodPut, "/api/v1/outcomes/not-a-uuid/outcome",
			models.OutcomeInput{PredictionType: models.PredictionTypeWin, Prediction: "1", ActualResult: models.ResultWin}, http.StatusBadRequest},
		{"empty bulk", http.MethodPut, "/api/v1/outcomes/" + match.ID.String() + "/outcomes",
			map[string]interface{}{"outcomes": []models.OutcomeInput{}}, http.StatusBadRequest},
		{"non-integer position", http.MethodDelete, "/api/v1/outcomes/" + match.ID.String() + "/outcome/first",
			nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := setup.do(t, tt.method, tt.path, admin, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	rec := setup.do(t, http.MethodGet, "/api/v1/outcomes?days=abc", regular, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = setup.do(t, http.MethodGet, "/api/v1/outcomes?date=2024-13-45", regular, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestVIPVisibility tests that VIP matches are hidden from regular viewers
func TestVIPVisibility(t *testing.T) {
	setup := setupTestRouter(t)
	defer setup.cleanup()

	setup.seedVIP(t, vipUser.UserID)
	vipMatch := setup.createMatch(t, true)
	setup.createMatch(t, false)

	var result models.ClassifiedOutcomes

	rec := setup.do(t, http.MethodGet, "/api/v1/outcomes", regular, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Len(t, result.All, 1)
	assert.Empty(t, result.VIP)

	rec = setup.do(t, http.MethodGet, "/api/v1/outcomes", vipUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Len(t, result.All, 2)
	require.Len(t, result.VIP, 1)
	assert.Equal(t, vipMatch.ID, result.VIP[0].ID)

	rec = setup.do(t, http.MethodGet, "/api/v1/matches/"+vipMatch.ID.String(), regular, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = setup.do(t, http.MethodGet, "/api/v1/matches/"+vipMatch.ID.String(), vipUser, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = setup.do(t, http.MethodGet, "/api/v1/outcomes/dates", regular, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var dates struct {
		Count int      `json:"count"`
		Dates []string `json:"dates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dates))
	assert.Equal(t, 1, dates.Count)
}

// TestConvertBookingCode tests the gated converter endpoint
func TestConvertBookingCode(t *testing.T) {
	setup := setupTestRouter(t)
	defer setup.cleanup()

	setup.seedVIP(t, vipUser.UserID)
	req := models.ConversionRequest{FromBookmaker: "bet9ja", ToBookmaker: "bet365", BookingCode: "B9J4521"}

	rec := setup.do(t, http.MethodPost, "/api/v1/vip/convert-booking-code", regular, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	var denied map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &denied))
	assert.Equal(t, true, denied["upgrade_required"])

	rec = setup.do(t, http.MethodPost, "/api/v1/vip/convert-booking-code", vipUser, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result models.ConversionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "B3654521", result.ConvertedCode)
	assert.Equal(t, "B9J4521", result.OriginalCode)

	same := models.ConversionRequest{FromBookmaker: "bet9ja", ToBookmaker: "bet9ja", BookingCode: "9ABC"}
	rec = setup.do(t, http.MethodPost, "/api/v1/vip/convert-booking-code", vipUser, same)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = setup.do(t, http.MethodGet, "/api/v1/vip/bookmakers", vipUser, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// TestVIPStatusAndToggle tests subscription status and the admin toggle
func TestVIPStatusAndToggle(t *testing.T) {
	setup := setupTestRouter(t)
	defer setup.cleanup()

	require.NoError(t, setup.subscribers.Save(context.Background(), &models.Subscriber{ID: regular.UserID, Role: models.RoleUser}))

	var status models.VIPStatus
	rec := setup.do(t, http.MethodGet, "/api/v1/vip/status", regular, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status.IsVIP)

	rec = setup.do(t, http.MethodPut, "/api/v1/vip/toggle/"+regular.UserID, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = setup.do(t, http.MethodGet, "/api/v1/vip/status", regular, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.IsVIP)
	assert.NotNil(t, status.VIPExpiry)

	rec = setup.do(t, http.MethodPut, "/api/v1/vip/toggle/nobody", admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestPredictionRoutes tests positional prediction administration
func TestPredictionRoutes(t *testing.T) {
	setup := setupTestRouter(t)
	defer setup.cleanup()

	match := setup.createMatch(t, false)
	base := "/api/v1/matches/" + match.ID.String()

	rec := setup.do(t, http.MethodPost, base+"/predictions", admin, models.Prediction{
		Type: models.PredictionTypeGGNG, Value: "GG", Confidence: 65,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	confidence := 90
	rec = setup.do(t, http.MethodPut, base+"/predictions/2", admin, models.PredictionPatch{Confidence: &confidence})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = setup.do(t, http.MethodPut, base+"/predictions/9", admin, models.PredictionPatch{Confidence: &confidence})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = setup.do(t, http.MethodPut, base+"/score", admin, models.Score{Home: 2, Away: 0})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = setup.do(t, http.MethodDelete, base+"/predictions/0", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = setup.do(t, http.MethodGet, base, regular, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Match
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Predictions, 2)
	assert.Equal(t, 90, got.Predictions[1].Confidence)
	require.NotNil(t, got.FinalScore)
	assert.Equal(t, 2, got.FinalScore.Home)

	rec = setup.do(t, http.MethodDelete, base, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = setup.do(t, http.MethodGet, base, regular, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
