package router

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PixelShrink/app/controllers"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/upload"
)

func newRoutedApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{BodyLimit: upload.MaxRequestSize, ErrorHandler: controllers.ErrorHandler})
	InstallRouter(app)
	return app
}

func TestInstallRouter(t *testing.T) {
	app := newRoutedApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/ping", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/workspace", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Cookies(), "session cookie set")

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLimiterConfigWithoutRedis(t *testing.T) {
	cfg := limiterConfig("api", 120, isViewerPath)
	assert.Nil(t, cfg.Storage)
	assert.Equal(t, 120, cfg.Max)
	require.NotNil(t, cfg.Next)
}

func TestOversizedUploadIsInputTooLarge(t *testing.T) {
	app := newRoutedApp(t)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", "huge.png")
	require.NoError(t, err)
	_, err = part.Write(make([]byte, 25<<20))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspace/image", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)

	var e controllers.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.Equal(t, "input_too_large", e.Error)
	assert.Equal(t, "upload", e.Action)
	assert.Contains(t, e.Message, "20MB")
}

func TestViewerEventsAreNotThrottledByAPILimit(t *testing.T) {
	app := newRoutedApp(t)

	codes := map[int]int{}
	for i := 0; i < 300; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/viewer/events", strings.NewReader(`{"events":[{"type":"pointer-move","pointer":{"x":10,"y":10}}]}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		codes[resp.StatusCode]++
	}
	assert.Zero(t, codes[fiber.StatusTooManyRequests], "codes=%v", codes)
	assert.Equal(t, 300, codes[fiber.StatusConflict], "viewer is closed for fresh sessions")

	// the general API budget still applies
	limited := false
	for i := 0; i < 130 && !limited; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil), -1)
		require.NoError(t, err)
		limited = resp.StatusCode == fiber.StatusTooManyRequests
	}
	assert.True(t, limited)
}
