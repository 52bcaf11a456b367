package services

import (
  "context"
  "encoding/json"
  "fmt"
  "os"
  "strings"
  "time"
  "github.com/redis/go-redis/v9"
  "github.com/framecut/framecut-backend/internal/logger"
)

// RecommendationCache keeps the latest query hash per target in redis so a
// regeneration request with unchanged inputs can short-circuit before touching
// the label tables. All methods degrade to a miss when redis is absent; the
// cache is an accelerator, never a source of truth.
type RecommendationCache interface {
  GetQueryHash(ctx context.Context, targetKind, targetID string) (string, bool)
  SetQueryHash(ctx context.Context, targetKind, targetID, queryHash string)
  GetResult(ctx context.Context, queryHash string, out any) bool
  SetResult(ctx context.Context, queryHash string, v any)
  Invalidate(ctx context.Context, targetKind, targetID string)
}

type recommendationCache struct {
  log *logger.Logger
  rdb *redis.Client
  ttl time.Duration
}

func NewRecommendationCache(log *logger.Logger) RecommendationCache {
  serviceLog := log.With("service", "RecommendationCache")
  addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
  if addr == "" {
    serviceLog.Warn("REDIS_ADDR missing, recommendation cache disabled")
    return &recommendationCache{log: serviceLog, ttl: 10 * time.Minute}
  }
  rdb := redis.NewClient(&redis.Options{
    Addr:        addr,
    DialTimeout: 5 * time.Second,
  })
  ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
  defer cancel()
  if err := rdb.Ping(ctx).Err(); err != nil {
    serviceLog.Warn("redis ping failed, recommendation cache disabled", "error", err)
    _ = rdb.Close()
    return &recommendationCache{log: serviceLog, ttl: 10 * time.Minute}
  }
  return &recommendationCache{log: serviceLog, rdb: rdb, ttl: 10 * time.Minute}
}

func (c *recommendationCache) hashKey(targetKind, targetID string) string {
  return fmt.Sprintf("rec:hash:%s:%s", targetKind, targetID)
}

func (c *recommendationCache) resultKey(queryHash string) string {
  return fmt.Sprintf("rec:result:%s", queryHash)
}

func (c *recommendationCache) GetQueryHash(ctx context.Context, targetKind, targetID string) (string, bool) {
  if c.rdb == nil {
    return "", false
  }
  val, err := c.rdb.Get(ctx, c.hashKey(targetKind, targetID)).Result()
  if err != nil {
    return "", false
  }
  return val, true
}

func (c *recommendationCache) SetQueryHash(ctx context.Context, targetKind, targetID, queryHash string) {
  if c.rdb == nil {
    return
  }
  if err := c.rdb.Set(ctx, c.hashKey(targetKind, targetID), queryHash, c.ttl).Err(); err != nil {
    c.log.Warn("Failed to cache query hash", "error", err)
  }
}

func (c *recommendationCache) GetResult(ctx context.Context, queryHash string, out any) bool {
  if c.rdb == nil {
    return false
  }
  raw, err := c.rdb.Get(ctx, c.resultKey(queryHash)).Bytes()
  if err != nil {
    return false
  }
  if err := json.Unmarshal(raw, out); err != nil {
    return false
  }
  return true
}

func (c *recommendationCache) SetResult(ctx context.Context, queryHash string, v any) {
  if c.rdb == nil {
    return
  }
  raw, err := json.Marshal(v)
  if err != nil {
    return
  }
  if err := c.rdb.Set(ctx, c.resultKey(queryHash), raw, c.ttl).Err(); err != nil {
    c.log.Warn("Failed to cache recommendation result", "error", err)
  }
}

func (c *recommendationCache) Invalidate(ctx context.Context, targetKind, targetID string) {
  if c.rdb == nil {
    return
  }
  key := c.hashKey(targetKind, targetID)
  val, err := c.rdb.Get(ctx, key).Result()
  if err == nil && val != "" {
    _ = c.rdb.Del(ctx, c.resultKey(val)).Err()
  }
  _ = c.rdb.Del(ctx, key).Err()
}
