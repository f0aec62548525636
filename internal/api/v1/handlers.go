package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to existing controllers to keep behavior consistent
	"github.com/ManuelReschke/PixelShrink/app/controllers"
)

// APIServer implements the ServerInterface
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

func (s *APIServer) GetWorkspace(c *fiber.Ctx) error {
	return controllers.HandleGetWorkspace(c)
}

func (s *APIServer) DeleteWorkspace(c *fiber.Ctx) error {
	return controllers.HandleStartOver(c)
}

func (s *APIServer) PostWorkspaceImage(c *fiber.Ctx) error {
	return controllers.HandleSelectImage(c)
}

func (s *APIServer) PutWorkspaceSettings(c *fiber.Ctx) error {
	return controllers.HandleUpdateSettings(c)
}

func (s *APIServer) PostWorkspaceCompress(c *fiber.Ctx) error {
	return controllers.HandleCompress(c)
}

// DeleteWorkspaceError clears one inline error. The controller reads the
// action from the route params; the wrapper already validated presence.
func (s *APIServer) DeleteWorkspaceError(c *fiber.Ctx, action string) error {
	return controllers.HandleDismissError(c)
}

func (s *APIServer) GetWorkspaceOriginal(c *fiber.Ctx) error {
	return controllers.HandleGetOriginal(c)
}

func (s *APIServer) GetWorkspaceCompressed(c *fiber.Ctx) error {
	return controllers.HandleGetCompressed(c)
}

func (s *APIServer) GetWorkspaceDownload(c *fiber.Ctx) error {
	return controllers.HandleDownload(c)
}

func (s *APIServer) PostViewerOpen(c *fiber.Ctx) error {
	return controllers.HandleOpenViewer(c)
}

func (s *APIServer) PostViewerEvents(c *fiber.Ctx) error {
	return controllers.HandleViewerEvents(c)
}

func (s *APIServer) PostViewerCrop(c *fiber.Ctx) error {
	return controllers.HandleConfirmCrop(c)
}

func (s *APIServer) PostViewerClose(c *fiber.Ctx) error {
	return controllers.HandleCloseViewer(c)
}

func (s *APIServer) GetViewerSnapshot(c *fiber.Ctx) error {
	return controllers.HandleSnapshot(c)
}

func (s *APIServer) GetTheme(c *fiber.Ctx) error {
	return controllers.HandleGetTheme(c)
}

func (s *APIServer) PostThemeToggle(c *fiber.Ctx) error {
	return controllers.HandleToggleTheme(c)
}

func (s *APIServer) GetStats(c *fiber.Ctx) error {
	return controllers.HandleGetStats(c)
}
