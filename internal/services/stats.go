package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"hiringdesk/resume-intake/internal/config"
	"hiringdesk/resume-intake/internal/models"
	"hiringdesk/resume-intake/internal/repositories"
)

// StatsCache stores computed statistics. A miss is reported as (nil, nil).
type StatsCache interface {
	Get(ctx context.Context, key string) (*models.Stats, error)
	Set(ctx context.Context, key string, stats models.Stats) error
	Delete(ctx context.Context, keys ...string) error
}

type redisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStatsCache connects to Redis; it returns an error when the server is unreachable.
func NewRedisStatsCache(ctx context.Context, cfg config.RedisConfig) (StatsCache, *redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &redisStatsCache{client: client, ttl: cfg.StatsTTL}, client, nil
}

func (c *redisStatsCache) Get(ctx context.Context, key string) (*models.Stats, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	var stats models.Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return &stats, nil
}

func (c *redisStatsCache) Set(ctx context.Context, key string, stats models.Stats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (c *redisStatsCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete stats keys: %w", err)
	}
	return nil
}

type noopStatsCache struct{}

func NewNoopStatsCache() StatsCache { return noopStatsCache{} }

func (noopStatsCache) Get(context.Context, string) (*models.Stats, error) { return nil, nil }

func (noopStatsCache) Set(context.Context, string, models.Stats) error { return nil }

func (noopStatsCache) Delete(context.Context, ...string) error { return nil }

func statsKey(companyID uuid.UUID, batchID *uuid.UUID) string {
	scope := "all"
	if batchID != nil {
		scope = batchID.String()
	}
	return fmt.Sprintf("stats:%s:%s", companyID, scope)
}

type StatsService interface {
	BatchStats(ctx context.Context, companyID, batchID uuid.UUID) (models.Stats, error)
	CompanyStats(ctx context.Context, companyID uuid.UUID) (models.Stats, error)
	// Invalidate drops the cached numbers for a batch and for its company.
	Invalidate(ctx context.Context, companyID, batchID uuid.UUID)
}

type statsService struct {
	resumeRepo repositories.ResumeRepository
	cache      StatsCache
}

func NewStatsService(resumeRepo repositories.ResumeRepository, cache StatsCache) StatsService {
	if cache == nil {
		cache = NewNoopStatsCache()
	}
	return &statsService{resumeRepo: resumeRepo, cache: cache}
}

func (s *statsService) BatchStats(ctx context.Context, companyID, batchID uuid.UUID) (models.Stats, error) {
	return s.load(ctx, companyID, &batchID)
}

func (s *statsService) CompanyStats(ctx context.Context, companyID uuid.UUID) (models.Stats, error) {
	return s.load(ctx, companyID, nil)
}

func (s *statsService) load(ctx context.Context, companyID uuid.UUID, batchID *uuid.UUID) (models.Stats, error) {
	key := statsKey(companyID, batchID)

	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("stats cache read failed")
	} else if cached != nil {
		return *cached, nil
	}

	stats, err := s.resumeRepo.CountByVerdict(ctx, companyID, batchID)
	if err != nil {
		return models.Stats{}, err
	}

	if err := s.cache.Set(ctx, key, stats); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("stats cache write failed")
	}
	return stats, nil
}

func (s *statsService) Invalidate(ctx context.Context, companyID, batchID uuid.UUID) {
	keys := []string{statsKey(companyID, &batchID), statsKey(companyID, nil)}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("stats cache invalidation failed")
	}
}
