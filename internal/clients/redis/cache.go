package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/atelierlink/marketplace-backend/internal/logger"
	"github.com/atelierlink/marketplace-backend/internal/utils"
)

// RecommendationCache keeps recently computed candidate lists so repeated
// recommendation reads do not re-run the graph traversal. Entries are
// keyed per (user, limit) so a short list computed for a small limit is
// never served to a larger request. Staleness is bounded by the TTL;
// entries are never invalidated on write since the engine itself is
// eventually consistent.
type RecommendationCache interface {
	Get(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, bool)
	Set(ctx context.Context, userID uuid.UUID, limit int, candidates []uuid.UUID)
	Close() error
}

type recommendationCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewRecommendationCache connects from REDIS_ADDR. Returns (nil, nil) when
// unset so callers can run without a cache.
func NewRecommendationCache(log *logger.Logger) (RecommendationCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, nil
	}

	ttlSec := utils.GetEnvAsInt("RECOMMENDATION_CACHE_TTL", 60, log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &recommendationCache{
		log: log.With("client", "RecommendationCache"),
		rdb: rdb,
		ttl: time.Duration(ttlSec) * time.Second,
	}, nil
}

func cacheKey(userID uuid.UUID, limit int) string {
	return "rec:" + userID.String() + ":" + strconv.Itoa(limit)
}

func (c *recommendationCache) Get(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, bool) {
	key := cacheKey(userID, limit)
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("cache read failed", "error", err)
		}
		return nil, false
	}
	var ids []uuid.UUID
	if err := json.Unmarshal(raw, &ids); err != nil {
		c.log.Warn("cache entry malformed, dropping", "error", err)
		_ = c.rdb.Del(ctx, key).Err()
		return nil, false
	}
	return ids, true
}

func (c *recommendationCache) Set(ctx context.Context, userID uuid.UUID, limit int, candidates []uuid.UUID) {
	raw, err := json.Marshal(candidates)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(userID, limit), raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", "error", err)
	}
}

func (c *recommendationCache) Close() error {
	return c.rdb.Close()
}
