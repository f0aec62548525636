package cache

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/env"
)

var (
	client    *redis.Client
	available bool
	mu        sync.RWMutex
	ctx       = context.Background()
)

// SetupCache connects to Redis when CACHE_HOST is set. Without it, or when
// the server does not answer, the app runs with in-memory fallbacks.
func SetupCache() {
	host := env.GetEnv("CACHE_HOST", "")
	if host == "" {
		log.Info("[Cache] CACHE_HOST not set, running without Redis")
		return
	}
	port := env.GetEnv("CACHE_PORT", "6379")

	c := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		DB:       0, // use default DB
	})

	// Test the connection
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	pong, err := c.Ping(pingCtx).Result()

	mu.Lock()
	defer mu.Unlock()
	client = c
	if err != nil {
		available = false
		log.Warnf("[Cache] could not connect to Redis at %s: %v", c.Options().Addr, err)
		return
	}
	available = true
	log.Infof("[Cache] connected to Redis: %s", pong)
}

// SetClient replaces the client, mainly for tests.
func SetClient(c *redis.Client) {
	mu.Lock()
	defer mu.Unlock()
	client = c
	available = c != nil
}

// GetClient returns the Redis client or nil when Redis is not in use.
func GetClient() *redis.Client {
	mu.RLock()
	defer mu.RUnlock()
	if !available {
		return nil
	}
	return client
}

// Available reports whether Redis answered during setup.
func Available() bool {
	return GetClient() != nil
}

// StorageConfig returns host, port and password of the live client for
// Fiber storage adapters. ok is false when Redis is not in use.
func StorageConfig() (host string, port int, password string, ok bool) {
	c := GetClient()
	if c == nil {
		return "", 0, "", false
	}
	host, port = "localhost", 6379
	if h, p, err := net.SplitHostPort(c.Options().Addr); err == nil {
		host = h
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}
	return host, port, c.Options().Password, true
}
