// Package requestctx carries per-request values between middleware and
// controllers.
package requestctx

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/workspace"
)

// Shared Locals/session keys used across controllers and middlewares
const (
	KeyWorkspace   = "WORKSPACE"
	KeyWorkspaceID = "workspace_id"
)

// SetWorkspace attaches w to the request.
func SetWorkspace(c *fiber.Ctx, w *workspace.Workspace) {
	c.Locals(KeyWorkspace, w)
}

// GetWorkspace returns the workspace attached by the middleware, or nil.
func GetWorkspace(c *fiber.Ctx) *workspace.Workspace {
	if w, ok := c.Locals(KeyWorkspace).(*workspace.Workspace); ok {
		return w
	}
	return nil
}
