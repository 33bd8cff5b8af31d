package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/cypherlabdev/prediction-tracker-service/internal/models"
)

const kickoffIndexKey = "matches:by_kickoff"

// RedisMatchStore persists match documents in Redis.
// Each match is a JSON document under match:{id}; a sorted set scored by kickoff
// time (unix ms) serves date-range queries.
type RedisMatchStore struct {
	client *redis.Client
	logger zerolog.Logger
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string // e.g., "localhost:6379"
	Password string
	DB       int
}

// NewRedisClient creates a Redis client from config
func NewRedisClient(config RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})
}

// NewRedisMatchStore creates a match store on an existing client
func NewRedisMatchStore(client *redis.Client, logger zerolog.Logger) *RedisMatchStore {
	return &RedisMatchStore{
		client: client,
		logger: logger.With().Str("component", "redis_match_store").Logger(),
	}
}

func matchKey(id uuid.UUID) string {
	return fmt.Sprintf("match:%s", id)
}

// Save upserts the whole match document and its kickoff index entry atomically
func (s *RedisMatchStore) Save(ctx context.Context, match *models.Match) error {
	data, err := json.Marshal(match)
	if err != nil {
		return fmt.Errorf("failed to marshal match: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, matchKey(match.ID), data, 0)
	pipe.ZAdd(ctx, kickoffIndexKey, redis.Z{
		Score:  float64(match.Kickoff.UnixMilli()),
		Member: match.ID.String(),
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: failed to save match %s: %v", models.ErrStoreUnavailable, match.ID, err)
	}

	s.logger.Debug().
		Str("match_id", match.ID.String()).
		Int("predictions", len(match.Predictions)).
		Int("outcomes", len(match.Outcomes)).
		Msg("saved match")

	return nil
}

// Get loads a match document
func (s *RedisMatchStore) Get(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	data, err := s.client.Get(ctx, matchKey(id)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: match %s", models.ErrNotFound, id)
	} else if err != nil {
		return nil, fmt.Errorf("%w: failed to get match %s: %v", models.ErrStoreUnavailable, id, err)
	}

	var match models.Match
	if err := json.Unmarshal(data, &match); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal match %s: %v", models.ErrStoreUnavailable, id, err)
	}

	return &match, nil
}

// Delete removes a match together with its predictions and outcomes
func (s *RedisMatchStore) Delete(ctx context.Context, id uuid.UUID) error {
	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, matchKey(id))
	pipe.ZRem(ctx, kickoffIndexKey, id.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: failed to delete match %s: %v", models.ErrStoreUnavailable, id, err)
	}

	if del.Val() == 0 {
		return fmt.Errorf("%w: match %s", models.ErrNotFound, id)
	}

	s.logger.Info().Str("match_id", id.String()).Msg("deleted match")
	return nil
}

// List returns matches kicking off within [from, to], most recent kickoff first.
// VIP matches are omitted unless includeVIP is set.
func (s *RedisMatchStore) List(ctx context.Context, from, to time.Time, includeVIP bool) ([]*models.Match, error) {
	ids, err := s.client.ZRevRangeByScore(ctx, kickoffIndexKey, &redis.ZRangeBy{
		Min: strconv.FormatInt(from.UnixMilli(), 10),
		Max: strconv.FormatInt(to.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query kickoff index: %v", models.ErrStoreUnavailable, err)
	}

	return s.load(ctx, ids, includeVIP)
}

// ListAll returns every match, most recent kickoff first
func (s *RedisMatchStore) ListAll(ctx context.Context, includeVIP bool) ([]*models.Match, error) {
	ids, err := s.client.ZRevRange(ctx, kickoffIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to scan kickoff index: %v", models.ErrStoreUnavailable, err)
	}

	return s.load(ctx, ids, includeVIP)
}

func (s *RedisMatchStore) load(ctx context.Context, ids []string, includeVIP bool) ([]*models.Match, error) {
	if len(ids) == 0 {
		return []*models.Match{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = "match:" + id
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load matches: %v", models.ErrStoreUnavailable, err)
	}

	matches := make([]*models.Match, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// index entry outlived its document
			s.logger.Warn().Str("key", keys[i]).Msg("missing match document for index entry")
			continue
		}

		var match models.Match
		if err := json.Unmarshal([]byte(raw), &match); err != nil {
			s.logger.Warn().Err(err).Str("key", keys[i]).Msg("failed to unmarshal match")
			continue
		}

		if match.VIP && !includeVIP {
			continue
		}
		matches = append(matches, &match)
	}

	return matches, nil
}

// Ping checks Redis connection
func (s *RedisMatchStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
