// Package cache keeps resolved regional payment parameters close to the
// service so the lazy-initialization read path does not hit PostgreSQL on
// every request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/anyulbade/pharmacy-payments/internal/model"
)

type ParamsCache interface {
	Get(ctx context.Context, tenantID uuid.UUID) (*model.RegionalPaymentParams, bool, error)
	Set(ctx context.Context, params *model.RegionalPaymentParams) error
	Invalidate(ctx context.Context, tenantID uuid.UUID) error
}

const keyPrefix = "pharmacy:regional-params:"

// Connect opens a Redis client and checks it answers.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

type RedisParamsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisParamsCache(client *redis.Client, ttl time.Duration) *RedisParamsCache {
	return &RedisParamsCache{client: client, ttl: ttl}
}

func (c *RedisParamsCache) key(tenantID uuid.UUID) string {
	return keyPrefix + tenantID.String()
}

func (c *RedisParamsCache) Get(ctx context.Context, tenantID uuid.UUID) (*model.RegionalPaymentParams, bool, error) {
	raw, err := c.client.Get(ctx, c.key(tenantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached params: %w", err)
	}

	var params model.RegionalPaymentParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, false, fmt.Errorf("decode cached params: %w", err)
	}
	return &params, true, nil
}

func (c *RedisParamsCache) Set(ctx context.Context, params *model.RegionalPaymentParams) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encode params: %w", err)
	}
	if err := c.client.Set(ctx, c.key(params.TenantID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache params: %w", err)
	}
	return nil
}

func (c *RedisParamsCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(tenantID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached params: %w", err)
	}
	return nil
}

// NopParamsCache is used when no Redis address is configured.
type NopParamsCache struct{}

func (NopParamsCache) Get(context.Context, uuid.UUID) (*model.RegionalPaymentParams, bool, error) {
	return nil, false, nil
}

func (NopParamsCache) Set(context.Context, *model.RegionalPaymentParams) error { return nil }

func (NopParamsCache) Invalidate(context.Context, uuid.UUID) error { return nil }
