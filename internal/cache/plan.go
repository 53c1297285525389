// internal/cache/plan.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Mathiyass/velora-pos-backend/internal/config"
	"github.com/Mathiyass/velora-pos-backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	planKeyPrefix = "production:plan"
	scanBatchSize = 100
)

// PlanCache caches the computed auto production plan. The plan is a snapshot
// read, so a short TTL plus invalidation on every stock write keeps it honest.
type PlanCache interface {
	GetPlan(ctx context.Context) ([]domain.Suggestion, bool, error)
	SetPlan(ctx context.Context, plan []domain.Suggestion) error
	Invalidate(ctx context.Context) error
}

type redisPlanCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopPlanCache struct{}

func NewPlanCache(cfg config.CacheConfig) (PlanCache, error) {
	if !cfg.Enabled {
		return &noopPlanCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisPlanCache{client: client, ttl: ttl}, nil
}

func NewNoopPlanCache() PlanCache {
	return &noopPlanCache{}
}

func (c *redisPlanCache) GetPlan(ctx context.Context) ([]domain.Suggestion, bool, error) {
	payload, err := c.client.Get(ctx, planKeyPrefix).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var plan []domain.Suggestion
	if err := json.Unmarshal(payload, &plan); err != nil {
		return nil, false, fmt.Errorf("decode plan cache: %w", err)
	}

	return plan, true, nil
}

func (c *redisPlanCache) SetPlan(ctx context.Context, plan []domain.Suggestion) error {
	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode plan cache: %w", err)
	}

	if err := c.client.Set(ctx, planKeyPrefix, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisPlanCache) Invalidate(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, planKeyPrefix, scanBatchSize)
}

func (c *noopPlanCache) GetPlan(ctx context.Context) ([]domain.Suggestion, bool, error) {
	return nil, false, nil
}

func (c *noopPlanCache) SetPlan(ctx context.Context, plan []domain.Suggestion) error {
	return nil
}

func (c *noopPlanCache) Invalidate(ctx context.Context) error {
	return nil
}
