package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/requestctx"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/session"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/workspace"
)

func TestWorkspaceMiddlewareKeepsWorkspacePerSession(t *testing.T) {
	session.NewSessionStore()
	store := workspace.NewStore(time.Hour)

	app := fiber.New()
	app.Use(WorkspaceMiddleware(store))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(requestctx.GetWorkspace(c).ID())
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	first, _ := io.ReadAll(resp.Body)
	require.NotEmpty(t, first)
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest("GET", "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	second, _ := io.ReadAll(resp.Body)
	assert.Equal(t, string(first), string(second))

	resp, err = app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	third, _ := io.ReadAll(resp.Body)
	assert.NotEqual(t, string(first), string(third))
	assert.Equal(t, 2, store.Len())
}
