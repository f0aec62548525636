// Package counter keeps named counters in Redis hashes, or in process memory
// when Redis is not available.
package counter

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/cache"
)

var (
	mu    sync.Mutex
	local = map[string]map[string]int64{}
)

const redisTimeout = time.Second

// Add increments field of the hash at key by inc.
func Add(key, field string, inc int64) {
	if rdb := cache.GetClient(); rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
		defer cancel()
		err := rdb.HIncrBy(ctx, key, field, inc).Err()
		if err == nil {
			return
		}
		log.Warnf("[Counter] redis HINCRBY %s %s failed, counting locally: %v", key, field, err)
	}

	mu.Lock()
	defer mu.Unlock()
	h, ok := local[key]
	if !ok {
		h = map[string]int64{}
		local[key] = h
	}
	h[field] += inc
}

// All returns every field of the hash at key. Local counts are merged in so
// nothing recorded during a Redis outage is lost from the totals.
func All(key string) map[string]int64 {
	out := map[string]int64{}
	if rdb := cache.GetClient(); rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
		defer cancel()
		data, err := rdb.HGetAll(ctx, key).Result()
		if err != nil {
			log.Warnf("[Counter] redis HGETALL %s failed: %v", key, err)
		}
		for k, v := range data {
			n, perr := strconv.ParseInt(v, 10, 64)
			if perr != nil {
				continue
			}
			out[k] = n
		}
	}

	mu.Lock()
	defer mu.Unlock()
	for k, v := range local[key] {
		out[k] += v
	}
	return out
}

// Reset drops local counts. Redis data is left alone.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	local = map[string]map[string]int64{}
}
