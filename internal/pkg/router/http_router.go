package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PixelShrink/app/controllers"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/middleware"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// metrics first so they do not create workspaces
	h.registerAdminRoutes(app)

	// Resolve the workspace for every page and API request
	app.Use(middleware.WorkspaceMiddleware(controllers.GetStore()))

	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
