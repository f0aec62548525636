package apiv1

import (
	"github.com/gofiber/fiber/v2"
)

// Pong is the body of GET /ping.
type Pong struct {
	Ping string `json:"ping"`
}

// ServerInterface lists every operation of public/docs/v1/openapi.yml.
type ServerInterface interface {
	// (GET /ping)
	GetPing(c *fiber.Ctx) error
	// (GET /workspace)
	GetWorkspace(c *fiber.Ctx) error
	// (DELETE /workspace)
	DeleteWorkspace(c *fiber.Ctx) error
	// (POST /workspace/image)
	PostWorkspaceImage(c *fiber.Ctx) error
	// (PUT /workspace/settings)
	PutWorkspaceSettings(c *fiber.Ctx) error
	// (POST /workspace/compress)
	PostWorkspaceCompress(c *fiber.Ctx) error
	// (DELETE /workspace/errors/{action})
	DeleteWorkspaceError(c *fiber.Ctx, action string) error
	// (GET /workspace/original)
	GetWorkspaceOriginal(c *fiber.Ctx) error
	// (GET /workspace/compressed)
	GetWorkspaceCompressed(c *fiber.Ctx) error
	// (GET /workspace/download)
	GetWorkspaceDownload(c *fiber.Ctx) error
	// (POST /viewer/open)
	PostViewerOpen(c *fiber.Ctx) error
	// (POST /viewer/events)
	PostViewerEvents(c *fiber.Ctx) error
	// (POST /viewer/crop)
	PostViewerCrop(c *fiber.Ctx) error
	// (POST /viewer/close)
	PostViewerClose(c *fiber.Ctx) error
	// (GET /viewer/snapshot.png)
	GetViewerSnapshot(c *fiber.Ctx) error
	// (GET /theme)
	GetTheme(c *fiber.Ctx) error
	// (POST /theme/toggle)
	PostThemeToggle(c *fiber.Ctx) error
	// (GET /stats)
	GetStats(c *fiber.Ctx) error
}

// serverWrapper extracts path parameters before calling the server.
type serverWrapper struct {
	handler ServerInterface
}

func (w *serverWrapper) deleteWorkspaceError(c *fiber.Ctx) error {
	action := c.Params("action")
	if action == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "action missing"})
	}
	return w.handler.DeleteWorkspaceError(c, action)
}

// RegisterHandlers mounts every operation on router.
func RegisterHandlers(router fiber.Router, si ServerInterface) {
	w := &serverWrapper{handler: si}

	router.Get("/ping", si.GetPing)

	router.Get("/workspace", si.GetWorkspace)
	router.Delete("/workspace", si.DeleteWorkspace)
	router.Post("/workspace/image", si.PostWorkspaceImage)
	router.Put("/workspace/settings", si.PutWorkspaceSettings)
	router.Post("/workspace/compress", si.PostWorkspaceCompress)
	router.Delete("/workspace/errors/:action", w.deleteWorkspaceError)
	router.Get("/workspace/original", si.GetWorkspaceOriginal)
	router.Get("/workspace/compressed", si.GetWorkspaceCompressed)
	router.Get("/workspace/download", si.GetWorkspaceDownload)

	router.Post("/viewer/open", si.PostViewerOpen)
	router.Post("/viewer/events", si.PostViewerEvents)
	router.Post("/viewer/crop", si.PostViewerCrop)
	router.Post("/viewer/close", si.PostViewerClose)
	router.Get("/viewer/snapshot.png", si.GetViewerSnapshot)

	router.Get("/theme", si.GetTheme)
	router.Post("/theme/toggle", si.PostThemeToggle)

	router.Get("/stats", si.GetStats)
}
