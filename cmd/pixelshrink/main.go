package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"github.com/ManuelReschke/PixelShrink/app/controllers"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/cache"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/compressor"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/cropper"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/env"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/router"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/theme"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/upload"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/workspace"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	cache.SetupCache()
	theme.Init(env.GetEnv("APP_THEME", "light"))

	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/pixelshrink to project root
		"../../../", // Fallback
	}

	// Find the correct base path
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "views"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	if basePath == "" {
		panic("Could not find project root directory")
	}

	setupServices()

	// init fiber app
	app := fiber.New(fiber.Config{
		Views:        html.New(basePath+"views", ".html"),
		BodyLimit:    upload.MaxRequestSize,
		ErrorHandler: controllers.ErrorHandler,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// static files
	app.Static("/", basePath+"public/assets", fiber.Static{
		CacheDuration: 15 * time.Second,
		Compress:      true,
	})

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
		Title:    "PixelShrink API",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	return app
}

func setupServices() {
	prompts, err := compressor.LoadPrompts(env.GetEnv("PROMPTS_FILE", ""))
	if err != nil {
		fiberlog.Warnf("[Main] %v, using built-in prompts", err)
		prompts = compressor.DefaultPrompts()
	}

	apiKey := env.GetEnv("GEMINI_API_KEY", "")
	if apiKey == "" {
		fiberlog.Warn("[Main] GEMINI_API_KEY is not set, compression requests will be rejected by the service")
	}

	ttl := env.GetDuration("WORKSPACE_TTL", workspace.DefaultTTL)
	store := workspace.NewStore(ttl)
	store.StartJanitor(context.Background(), 0)

	controllers.InitializeServices(controllers.Services{
		Store: store,
		Compressor: compressor.NewGeminiClient(compressor.GeminiConfig{
			APIKey:  apiKey,
			Model:   env.GetEnv("GEMINI_MODEL", compressor.DefaultModel),
			BaseURL: env.GetEnv("GEMINI_BASE_URL", compressor.DefaultBaseURL),
			Prompts: prompts,
		}),
		Cropper:         cropper.New(env.GetInt("JPEG_QUALITY", cropper.DefaultJPEGQuality)),
		CompressTimeout: env.GetDuration("COMPRESS_TIMEOUT", workspace.DefaultCompressTimeout),
	})
	fiberlog.Infof("[Main] workspaces expire after %s of inactivity", ttl)
}
