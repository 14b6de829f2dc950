package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// defaultKeyPrefix namespaces all cache keys in Redis to avoid collisions.
	defaultKeyPrefix = "showfinder:"

	redisOpTimeout = 2 * time.Second
)

func init() {
	Register("redis", newRedisCache)
}

// redisCache implements the Cache interface on Redis/Valkey.
//
// Each entry is a plain string key {prefix}resp:{key} written with PX so Redis
// expires it on its own. Recency is tracked in the sorted set {prefix}lru
// (member = user key, score = last access in µs); once the set grows past
// maxSize the oldest members are popped and their value keys deleted.
type redisCache struct {
	client  *redis.Client
	ttl     time.Duration
	maxSize int
	onEvict EvictCallback
	logger  Logger
	prefix  string
	lruKey  string
}

func newRedisCache(cfg ProviderConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &redisCache{
		client:  client,
		ttl:     cfg.TTL,
		maxSize: cfg.Size,
		onEvict: cfg.OnEvict,
		logger:  cfg.Logger,
		prefix:  defaultKeyPrefix,
		lruKey:  defaultKeyPrefix + "lru",
	}, nil
}

func (r *redisCache) valueKey(key string) string {
	return r.prefix + "resp:" + key
}

func (r *redisCache) logError(msg string, err error) {
	if r.logger != nil {
		r.logger.Error(msg, err)
	}
}

func nowScore() float64 {
	return float64(time.Now().UnixMicro())
}

func (r *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	val, err := r.client.Get(ctx, r.valueKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logError("redis cache Get failed", err)
		}
		return nil, false
	}

	if err := r.client.ZAdd(ctx, r.lruKey, redis.Z{Score: nowScore(), Member: key}).Err(); err != nil {
		r.logError("redis cache touch failed", err)
	}
	return val, true
}

func (r *redisCache) Set(ctx context.Context, key string, value []byte) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.valueKey(key), value, r.ttl)
	pipe.ZAdd(ctx, r.lruKey, redis.Z{Score: nowScore(), Member: key})
	card := pipe.ZCard(ctx, r.lruKey)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logError("redis cache Set failed", err)
		return
	}

	over := card.Val() - int64(r.maxSize)
	if over <= 0 {
		return
	}

	oldest, err := r.client.ZPopMin(ctx, r.lruKey, over).Result()
	if err != nil {
		r.logError("redis cache eviction failed", err)
		return
	}

	keys := make([]string, 0, len(oldest))
	for _, z := range oldest {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		keys = append(keys, member)
	}
	if len(keys) == 0 {
		return
	}

	valueKeys := make([]string, len(keys))
	for i, k := range keys {
		valueKeys[i] = r.valueKey(k)
	}
	if err := r.client.Del(ctx, valueKeys...).Err(); err != nil {
		r.logError("redis cache eviction delete failed", err)
	}

	if r.onEvict != nil {
		for _, k := range keys {
			r.onEvict(k)
		}
	}
}

// Len drops LRU members that cannot be alive anymore (last touched more than
// one TTL ago) and returns the size of what remains.
func (r *redisCache) Len(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if r.ttl > 0 {
		cutoff := time.Now().Add(-r.ttl).UnixMicro()
		if err := r.client.ZRemRangeByScore(ctx, r.lruKey, "-inf", "("+strconv.FormatInt(cutoff, 10)).Err(); err != nil {
			r.logError("redis cache Len cleanup failed", err)
		}
	}

	n, err := r.client.ZCard(ctx, r.lruKey).Result()
	if err != nil {
		r.logError("redis cache Len failed", err)
		return 0
	}
	return int(n)
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
