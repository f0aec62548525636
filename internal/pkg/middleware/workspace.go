package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/requestctx"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/session"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/workspace"
)

// WorkspaceMiddleware resolves the caller's workspace from the session
// cookie, creating one on first visit, and stores it in Locals.
func WorkspaceMiddleware(store *workspace.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if session.GetSessionStore() == nil {
			requestctx.SetWorkspace(c, store.Create())
			return c.Next()
		}

		id := session.GetSessionValue(c, requestctx.KeyWorkspaceID)
		w := store.GetOrCreate(id)
		if w.ID() != id {
			if err := session.SetSessionValue(c, requestctx.KeyWorkspaceID, w.ID()); err != nil {
				log.Warnf("[Middleware] could not save session: %v", err)
			}
		}

		requestctx.SetWorkspace(c, w)
		return c.Next()
	}
}
