package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/inventory/pkg/metrics"
)

// indexKey is the Redis SET mirroring the live-key index. RemoveByPrefix
// scans its members instead of SCANning the whole keyspace.
const indexKey = "cache:index"

// Redis is a Store backed by a Redis server. Redis TTLs expire values on
// their own; the index entry for an expired key is cleaned up on the next
// Get or prefix removal.
type Redis struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedis connects to addr and verifies the connection with a ping.
func NewRedis(addr, password string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}

	return &Redis{client: client, ctx: ctx}, nil
}

// Set stores the JSON-marshaled value and registers the key in the index in
// one pipeline, so a reader can never find an indexed key without a value.
func (r *Redis) Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(r.ctx, key, data, ttl)
	pipe.SAdd(r.ctx, indexKey, key)
	_, err = pipe.Exec(r.ctx)
	return err
}

// Get reads key into dest. Connection errors, absent keys and unmarshal
// failures all read as a miss.
func (r *Redis) Get(key string, dest interface{}) bool {
	val, err := r.client.Get(r.ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			// Value expired server-side; drop the stale index entry.
			r.client.SRem(r.ctx, indexKey, key)
		}
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return false
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return false
	}

	metrics.CacheHits.WithLabelValues("redis").Inc()
	return true
}

// Remove deletes one key from storage and index.
func (r *Redis) Remove(key string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(r.ctx, key)
	pipe.SRem(r.ctx, indexKey, key)
	_, err := pipe.Exec(r.ctx)
	return err
}

// RemoveByPrefix deletes every indexed key that starts with prefix.
func (r *Redis) RemoveByPrefix(prefix string) error {
	members, err := r.client.SMembers(r.ctx, indexKey).Result()
	if err != nil {
		return err
	}

	var matched []string
	for _, key := range members {
		if strings.HasPrefix(key, prefix) {
			matched = append(matched, key)
		}
	}
	if len(matched) == 0 {
		return nil
	}

	pipe := r.client.TxPipeline()
	pipe.Del(r.ctx, matched...)
	pipe.SRem(r.ctx, indexKey, toAnySlice(matched)...)
	_, err = pipe.Exec(r.ctx)
	return err
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

func toAnySlice(keys []string) []interface{} {
	out := make([]interface{}, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out
}
