package compressor

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PixelShrink/app/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*GeminiClient, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewGeminiClient(GeminiConfig{APIKey: "test-key", BaseURL: srv.URL}), &calls
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestCompressSendsRequestAndReturnsImage(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/"+DefaultModel+":generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 2)
		img := req.Contents[0].Parts[0].InlineData
		require.NotNil(t, img)
		assert.Equal(t, "image/jpeg", img.MimeType)
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("source")), img.Data)
		assert.Contains(t, req.Contents[0].Parts[1].Text, "image/png")
		assert.Contains(t, req.Contents[0].Parts[1].Text, defaultLevelInstructions[models.LevelHigh])
		assert.Equal(t, []string{"IMAGE", "TEXT"}, req.GenerationConfig.ResponseModalities)

		writeJSON(w, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"Here you go"},{"inlineData":{"mimeType":"image/png","data":"`+base64.StdEncoding.EncodeToString(payload)+`"}}]},"finishReason":"STOP"}]}`)
	})

	out, err := client.Compress(context.Background(), []byte("source"), "image/jpeg", models.FormatPNG, models.LevelHigh)
	require.NoError(t, err)
	assert.Equal(t, payload, out.Data)
	assert.Equal(t, "image/png", out.MimeType)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestCompressFailureTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{
			name:   "invalid argument is unsupported input",
			status: http.StatusBadRequest,
			body:   `{"error":{"code":400,"message":"Unable to decode image data","status":"INVALID_ARGUMENT"}}`,
			want:   ErrUnsupportedInput,
		},
		{
			name:   "prompt feedback block is policy",
			status: http.StatusOK,
			body:   `{"promptFeedback":{"blockReason":"PROHIBITED_CONTENT"}}`,
			want:   ErrPolicyRejected,
		},
		{
			name:   "safety finish reason is policy",
			status: http.StatusOK,
			body:   `{"candidates":[{"finishReason":"IMAGE_SAFETY"}]}`,
			want:   ErrPolicyRejected,
		},
		{
			name:   "text only refusal is policy",
			status: http.StatusOK,
			body:   `{"candidates":[{"content":{"parts":[{"text":"I can't help with editing this image because it may violate our safety policy."}]},"finishReason":"STOP"}]}`,
			want:   ErrPolicyRejected,
		},
		{
			name:   "text only answer is no output",
			status: http.StatusOK,
			body:   `{"candidates":[{"content":{"parts":[{"text":"Here is a description of the image."}]},"finishReason":"STOP"}]}`,
			want:   ErrNoOutputProduced,
		},
		{
			name:   "no candidates is no output",
			status: http.StatusOK,
			body:   `{"candidates":[]}`,
			want:   ErrNoOutputProduced,
		},
		{
			name:   "server error is transport",
			status: http.StatusInternalServerError,
			body:   `{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`,
			want:   ErrTransportError,
		},
		{
			name:   "rate limit is transport",
			status: http.StatusTooManyRequests,
			body:   `quota exceeded`,
			want:   ErrTransportError,
		},
		{
			name:   "malformed json is transport",
			status: http.StatusOK,
			body:   `{"candidates":`,
			want:   ErrTransportError,
		},
		{
			name:   "broken base64 is transport",
			status: http.StatusOK,
			body:   `{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"image/png","data":"!!!"}}]}}]}`,
			want:   ErrTransportError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.status, tc.body)
			})

			out, err := client.Compress(context.Background(), []byte("x"), "image/png", models.FormatJPEG, models.LevelMedium)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			assert.Equal(t, int32(1), atomic.LoadInt32(calls), "no retries")

			f := AsFailure(err)
			require.NotNil(t, f)
			assert.NotEmpty(t, f.UserMessage())
		})
	}
}

func TestCompressMissingMimeFallsBackToFormat(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"candidates":[{"content":{"parts":[{"inlineData":{"data":"AAEC"}}]}}]}`)
	})

	out, err := client.Compress(context.Background(), []byte("x"), "image/png", models.FormatJPEG, models.LevelLow)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", out.MimeType)
	assert.Equal(t, []byte{0, 1, 2}, out.Data)
}

func TestCompressDeadlineIsTransportError(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Compress(ctx, []byte("x"), "image/png", models.FormatPNG, models.LevelLow)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransportError)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFailureIsMatchesKindOnly(t *testing.T) {
	err := newFailure(KindPolicyRejected, "blocked", errors.New("SAFETY"))
	assert.ErrorIs(t, err, ErrPolicyRejected)
	assert.NotErrorIs(t, err, ErrNoOutputProduced)
	assert.Equal(t, "blocked: SAFETY", err.Error())

	wrapped := AsFailure(errors.New("boom"))
	assert.Equal(t, KindTransportError, wrapped.Kind)
	assert.Nil(t, AsFailure(nil))
}

func TestPromptTable(t *testing.T) {
	table := DefaultPrompts()
	for _, level := range []models.CompressionLevel{models.LevelLow, models.LevelMedium, models.LevelHigh} {
		p := table.Build(models.FormatJPEG, level)
		assert.Contains(t, p, "image/jpeg")
		assert.Contains(t, p, defaultLevelInstructions[level])
	}
	assert.Equal(t, defaultLevelInstructions[models.LevelMedium], table.Instruction("unknown"))
}

func TestLoadPrompts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("levels:\n  high: \"crush it.\"\n  low: \"   \"\n"), 0o644))

	table, err := LoadPrompts(path)
	require.NoError(t, err)
	assert.Equal(t, "crush it.", table.Instruction(models.LevelHigh))
	assert.Equal(t, defaultLevelInstructions[models.LevelLow], table.Instruction(models.LevelLow))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("levels:\n  extreme: \"x\"\n"), 0o644))
	_, err = LoadPrompts(bad)
	assert.Error(t, err)

	_, err = LoadPrompts(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	table, err = LoadPrompts("")
	require.NoError(t, err)
	assert.True(t, strings.Contains(table.Build(models.FormatPNG, models.LevelMedium), "image/png"))
}
