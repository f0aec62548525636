package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis"

	apiv1 "github.com/ManuelReschke/PixelShrink/internal/api/v1"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/cache"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/constants"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/env"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	// Viewer input arrives at pointer rate and has its own, larger budget.
	api := app.Group("/api", limiter.New(limiterConfig("api", env.GetInt("API_RATE_LIMIT", 120), isViewerPath)))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes
	v1 := api.Group("/v1")
	v1.Use("/viewer", limiter.New(limiterConfig("viewer", env.GetInt("VIEWER_RATE_LIMIT", 6000), nil)))
	apiServer := apiv1.NewAPIServer()
	apiv1.RegisterHandlers(v1, apiServer)
}

func isViewerPath(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), constants.ViewerRoutePrefix)
}

// limiterConfig builds a per-client limiter of limit requests per minute. The
// count is shared across instances through Redis database 2 when it is
// reachable; name keeps the buckets of different limiters apart.
func limiterConfig(name string, limit int, skip func(*fiber.Ctx) bool) limiter.Config {
	cfg := limiter.Config{
		Next:       skip,
		Max:        limit,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return name + ":" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   "rate_limited",
				"message": "Too many requests, please slow down.",
			})
		},
	}
	if host, port, password, ok := cache.StorageConfig(); ok {
		cfg.Storage = redis.New(redis.Config{
			Host:     host,
			Port:     port,
			Password: password,
			Database: 2,
		})
		log.Infof("[Router] %s rate limiter uses Redis storage", name)
	}
	return cfg
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
