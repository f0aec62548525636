package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PixelShrink/app/controllers"
	"github.com/ManuelReschke/PixelShrink/app/models"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/compressor"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/workspace"
)

type fixedCompressor struct {
	out []byte
}

func (f fixedCompressor) Compress(ctx context.Context, data []byte, mimeType string, format models.OutputFormat, level models.CompressionLevel) (*compressor.Output, error) {
	return &compressor.Output{Data: f.out, MimeType: "image/jpeg"}, nil
}

// client replays the session cookie like a browser does.
type client struct {
	t       *testing.T
	app     *fiber.App
	cookies []*http.Cookie
}

func (c *client) do(req *http.Request) *http.Response {
	c.t.Helper()
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	if cks := resp.Cookies(); len(cks) > 0 {
		c.cookies = cks
	}
	return resp
}

func (c *client) upload(filename string, data []byte) *http.Response {
	c.t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(c.t, err)
	_, err = part.Write(data)
	require.NoError(c.t, err)
	require.NoError(c.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspace/image", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

func (c *client) postJSON(path, body string) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(w, h, color.NRGBA{R: 200, A: 255}), imaging.PNG))
	return buf.Bytes()
}

func TestApplicationRejectsOversizedUploadWithMessage(t *testing.T) {
	c := &client{t: t, app: NewApplication()}

	resp := c.upload("huge.png", make([]byte, 25<<20))
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
	var e controllers.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.Equal(t, "input_too_large", e.Error)
	assert.Contains(t, e.Message, "20MB")

	resp = c.do(httptest.NewRequest(http.MethodGet, "/api/v1/workspace", nil))
	var snap workspace.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	uploadErr := snap.Error(workspace.ActionUpload)
	require.NotNil(t, uploadErr)
	assert.Equal(t, "input_too_large", uploadErr.Kind)
	assert.Nil(t, snap.Original)
}

func TestApplicationViewerSurvivesSustainedInput(t *testing.T) {
	var jpg bytes.Buffer
	require.NoError(t, imaging.Encode(&jpg, imaging.New(400, 300, color.NRGBA{G: 200, A: 255}), imaging.JPEG))

	app := NewApplication()
	controllers.InitializeServices(controllers.Services{Compressor: fixedCompressor{out: jpg.Bytes()}})
	c := &client{t: t, app: app}

	require.Equal(t, fiber.StatusCreated, c.upload("photo.png", encodePNG(t, 400, 300)).StatusCode)
	require.Equal(t, fiber.StatusOK, c.do(httptest.NewRequest(http.MethodPost, "/api/v1/workspace/compress", nil)).StatusCode)
	require.Equal(t, fiber.StatusOK, c.postJSON("/api/v1/viewer/open", `{"width":800,"height":600}`).StatusCode)

	codes := map[int]int{}
	for i := 0; i < 400; i++ {
		resp := c.postJSON("/api/v1/viewer/events", `{"events":[{"type":"pointer-move","pointer":{"x":300,"y":200}}]}`)
		codes[resp.StatusCode]++
	}
	assert.Equal(t, 400, codes[fiber.StatusOK], "codes=%v", codes)

	resp := c.postJSON("/api/v1/viewer/events", `{"events":[{"type":"key-down","key":"Escape"}]}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var v controllers.ViewerResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	assert.False(t, v.State.Open)
}
