package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"triple/pkg/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const totalKeyPrefix = "points:total"

type redisPointCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPointCache - кеш суммы баллов. Источник истины всегда таблица points,
// distributor сбрасывает ключ после каждого коммита.
func NewRedisPointCache(client *redis.Client, ttl time.Duration) PointCache {
	return &redisPointCache{client: client, ttl: ttl}
}

func totalKey(userID uuid.UUID) string {
	return totalKeyPrefix + ":" + userID.String()
}

// GetTotal возвращает ErrCacheMiss, если значения нет
func (c *redisPointCache) GetTotal(ctx context.Context, userID uuid.UUID) (int64, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpGet)
	defer timer.ObserveDuration()

	raw, err := c.client.Get(ctx, totalKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheMiss(serviceName, totalKeyPrefix)
			return 0, ErrCacheMiss
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return 0, fmt.Errorf("failed to get point total from redis: %w", err)
	}

	total, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid cached point total %q: %w", raw, err)
	}

	metrics.RecordCacheHit(serviceName, totalKeyPrefix)
	return total, nil
}

func (c *redisPointCache) SetTotal(ctx context.Context, userID uuid.UUID, total int64) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	if err := c.client.Set(ctx, totalKey(userID), total, c.ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to set point total in redis: %w", err)
	}
	return nil
}

func (c *redisPointCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpDel)
	defer timer.ObserveDuration()

	if err := c.client.Del(ctx, totalKey(userID)).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to delete point total from redis: %w", err)
	}
	return nil
}
