// Package cache implements the report cache on top of Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/household-ledger/backend/internal/application/adapter"
)

const keyPrefix = "ledger:report"

// reportCache namespaces every entry under a per-user version number.
// Invalidate bumps the version, so stale entries are never read again and expire on their TTL.
type reportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a Redis-backed report cache.
func NewReportCache(client *redis.Client, ttl time.Duration) adapter.ReportCache {
	return &reportCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *reportCache) Get(ctx context.Context, userID uuid.UUID, key string, dest any) (int64, bool, error) {
	version, err := c.version(ctx, userID)
	if err != nil {
		return 0, false, err
	}

	raw, err := c.client.Get(ctx, entryKey(userID, version, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return version, false, nil
	}
	if err != nil {
		return version, false, fmt.Errorf("failed to read cached report: %w", err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return version, false, fmt.Errorf("failed to decode cached report: %w", err)
	}
	return version, true, nil
}

// Set writes under the version the caller read, never the current one, so a report
// computed before a concurrent write lands in a dead generation.
func (c *reportCache) Set(ctx context.Context, userID uuid.UUID, version int64, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := c.client.Set(ctx, entryKey(userID, version, key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	return nil
}

func (c *reportCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := c.client.Incr(ctx, versionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate report cache: %w", err)
	}
	return nil
}

func (c *reportCache) version(ctx context.Context, userID uuid.UUID) (int64, error) {
	version, err := c.client.Get(ctx, versionKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read report cache version: %w", err)
	}
	return version, nil
}

func versionKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:version", keyPrefix, userID)
}

func entryKey(userID uuid.UUID, version int64, key string) string {
	return fmt.Sprintf("%s:%s:v%d:%s", keyPrefix, userID, version, key)
}

type noopReportCache struct{}

// NewNoopReportCache returns a cache that never stores anything, used when Redis is disabled.
func NewNoopReportCache() adapter.ReportCache {
	return noopReportCache{}
}

func (noopReportCache) Get(context.Context, uuid.UUID, string, any) (int64, bool, error) {
	return 0, false, nil
}

func (noopReportCache) Set(context.Context, uuid.UUID, int64, string, any) error { return nil }

func (noopReportCache) Invalidate(context.Context, uuid.UUID) error { return nil }
