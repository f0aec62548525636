// Package compressor sends images to the Gemini image model and classifies its failures.
package compressor

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PixelShrink/app/models"
)

const (
	DefaultModel   = "gemini-2.5-flash-image"
	DefaultBaseURL = "https://generativelanguage.googleapis.com"

	// maxResponseBytes bounds the JSON body read from the service.
	maxResponseBytes = 64 << 20
)

// Output is the image returned by the service.
type Output struct {
	Data     []byte
	MimeType string
}

// Compressor runs one compression request. Implementations never retry.
type Compressor interface {
	Compress(ctx context.Context, data []byte, mimeType string, format models.OutputFormat, level models.CompressionLevel) (*Output, error)
}

// GeminiConfig configures the Gemini adapter.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Prompts *PromptTable
	Client  *http.Client
}

// GeminiClient talks to the generateContent endpoint of the Gemini API.
type GeminiClient struct {
	apiKey   string
	model    string
	endpoint string
	prompts  *PromptTable
	client   *http.Client
}

// NewGeminiClient builds the adapter, filling defaults for empty fields.
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Prompts == nil {
		cfg.Prompts = DefaultPrompts()
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return &GeminiClient{
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		endpoint: fmt.Sprintf("%s/v1beta/models/%s:generateContent", strings.TrimRight(cfg.BaseURL, "/"), cfg.Model),
		prompts:  cfg.Prompts,
		client:   cfg.Client,
	}
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseModalities []string `json:"responseModalities"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type candidate struct {
	Content      *content `json:"content"`
	FinishReason string   `json:"finishReason"`
}

type promptFeedback struct {
	BlockReason string `json:"blockReason"`
}

type generateResponse struct {
	Candidates     []candidate     `json:"candidates"`
	PromptFeedback *promptFeedback `json:"promptFeedback"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

var policyFinishReasons = map[string]bool{
	"SAFETY":                   true,
	"PROHIBITED_CONTENT":       true,
	"IMAGE_SAFETY":             true,
	"IMAGE_PROHIBITED_CONTENT": true,
	"BLOCKLIST":                true,
	"SPII":                     true,
	"RECITATION":               true,
}

var refusalMarkers = []string{
	"policy",
	"safety",
	"can't help",
	"cannot help",
	"can't assist",
	"cannot assist",
	"unable to process",
	"i can't",
	"i cannot",
	"not able to",
	"violate",
}

// Compress sends the image to the model and returns the re-encoded image.
func (g *GeminiClient) Compress(ctx context.Context, data []byte, mimeType string, format models.OutputFormat, level models.CompressionLevel) (*Output, error) {
	reqPayload := generateRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(data)}},
				{Text: g.prompts.Build(format, level)},
			},
		}},
		GenerationConfig: generationConfig{ResponseModalities: []string{"IMAGE", "TEXT"}},
	}
	body, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, newFailure(KindTransportError, "encode request", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, newFailure(KindTransportError, "build request", err)
	}
	request.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		request.Header.Set("x-goog-api-key", g.apiKey)
	}

	started := time.Now()
	resp, err := g.client.Do(request)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, newFailure(KindTransportError, "compression request timed out", err)
		}
		return nil, newFailure(KindTransportError, "compression request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, newFailure(KindTransportError, "read response", err)
	}
	log.Info(fmt.Sprintf("[Compressor] %s responded %d in %s (%d bytes)", g.model, resp.StatusCode, time.Since(started).Round(time.Millisecond), len(raw)))

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, raw)
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, newFailure(KindTransportError, "malformed response", err)
	}
	return extractImage(parsed, format)
}

func classifyStatus(status int, raw []byte) error {
	var apiErr apiError
	_ = json.Unmarshal(raw, &apiErr)
	msg := strings.TrimSpace(apiErr.Error.Message)
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
		if len(msg) > 512 {
			msg = msg[:512]
		}
	}
	detail := fmt.Errorf("status %d %s: %s", status, apiErr.Error.Status, msg)

	if status == http.StatusBadRequest && apiErr.Error.Status == "INVALID_ARGUMENT" {
		if looksLikeRefusal(msg) {
			return newFailure(KindPolicyRejected, "request declined by content policy", detail)
		}
		return newFailure(KindUnsupportedInput, "input image not accepted", detail)
	}
	return newFailure(KindTransportError, "compression service error", detail)
}

func extractImage(parsed generateResponse, format models.OutputFormat) (*Output, error) {
	if fb := parsed.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return nil, newFailure(KindPolicyRejected, "request blocked: "+fb.BlockReason, nil)
	}
	if len(parsed.Candidates) == 0 {
		return nil, newFailure(KindNoOutputProduced, "no candidates returned", nil)
	}

	first := parsed.Candidates[0]
	var texts []string
	if first.Content != nil {
		for _, p := range first.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				decoded, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
				if err != nil {
					return nil, newFailure(KindTransportError, "malformed image payload", err)
				}
				mime := p.InlineData.MimeType
				if mime == "" {
					mime = format.MimeType()
				}
				return &Output{Data: decoded, MimeType: mime}, nil
			}
			if t := strings.TrimSpace(p.Text); t != "" {
				texts = append(texts, t)
			}
		}
	}

	text := strings.Join(texts, " ")
	if policyFinishReasons[first.FinishReason] {
		return nil, newFailure(KindPolicyRejected, "request declined: "+first.FinishReason, textErr(text))
	}
	if text != "" && looksLikeRefusal(text) {
		return nil, newFailure(KindPolicyRejected, "request declined by the model", textErr(text))
	}
	return nil, newFailure(KindNoOutputProduced, "no image data found in the response", textErr(text))
}

func looksLikeRefusal(text string) bool {
	lower := strings.ToLower(strings.ReplaceAll(text, "’", "'"))
	for _, m := range refusalMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func textErr(text string) error {
	if text == "" {
		return nil
	}
	return errors.New(text)
}
