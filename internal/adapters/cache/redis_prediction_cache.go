package cache

import (
	"context"
	"delivery-time-service/internal/domain"
	"delivery-time-service/internal/platform/obs"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "delivery-time:predict:"

// Redis-backed cache of model outputs keyed by model version and record.
type RedisPredictionCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisPredictionCache(addr string, ttl time.Duration) *RedisPredictionCache {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisPredictionCache{Client: rdb, TTL: ttl}
}

// Ping verifies the connection; callers decide whether a failure is fatal.
func (c *RedisPredictionCache) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("prediction cache: ping: %w", err)
	}
	return nil
}

func (c *RedisPredictionCache) Close() error { return c.Client.Close() }

func (c *RedisPredictionCache) Get(
	ctx context.Context,
	version string,
	rec domain.AugmentedRecord,
) (_ float64, _ bool, err error) {
	defer obs.Time(ctx, "prediction.cache.Get")(&err)

	val, err := c.Client.Get(ctx, Key(version, rec)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get prediction cache: %w", err)
	}

	minutes, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, fmt.Errorf("get prediction cache: parse %q: %w", val, err)
	}
	return minutes, true, nil
}

func (c *RedisPredictionCache) Put(
	ctx context.Context,
	version string,
	rec domain.AugmentedRecord,
	minutes float64,
) (err error) {
	defer obs.Time(ctx, "prediction.cache.Put")(&err)

	val := strconv.FormatFloat(minutes, 'g', -1, 64)
	if err := c.Client.Set(ctx, Key(version, rec), val, c.TTL).Err(); err != nil {
		return fmt.Errorf("put prediction cache: %w", err)
	}
	return nil
}

// Key builds the cache key for rec under a model version. Records that
// differ in any column hash to different keys.
func Key(version string, rec domain.AugmentedRecord) string {
	var b strings.Builder
	for _, col := range domain.RecordColumns {
		v, _ := rec.Value(col)
		b.WriteString(col)
		b.WriteByte('=')
		switch x := v.(type) {
		case float64:
			b.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
		case string:
			b.WriteString(x)
		}
		b.WriteByte(';')
	}
	return keyPrefix + version + ":" + strconv.FormatUint(xxhash.Sum64String(b.String()), 16)
}
