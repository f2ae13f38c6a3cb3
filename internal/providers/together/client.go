// Package together talks to the Together AI HTTP API: chat completions for
// idea suggestions and image generation for previews.
package together

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"promptlab/internal/domain"
	"promptlab/internal/infra"
)

const (
	DefaultBaseURL    = "https://api.together.xyz/v1"
	DefaultChatModel  = "ServiceNow-AI/Apriel-1.5-15b-Thinker"
	DefaultImageModel = "black-forest-labs/FLUX.1-schnell-Free"

	defaultTimeout = 60 * time.Second
)

var (
	// ErrMissingAPIKey indicates that the client was configured without credentials.
	ErrMissingAPIKey = fmt.Errorf("together: %w", domain.ErrMissingCredentials)
	// ErrEmptyResponse is returned when the API answers without usable content.
	ErrEmptyResponse = fmt.Errorf("together: %w", domain.ErrEmptyResponse)
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("together: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("together: status %d", e.Status)
}

func (e *APIError) Unwrap() error {
	return domain.ErrProviderFailure
}

// Options configures the client. APIKey must come from the runtime
// environment; there is no built-in fallback key.
type Options struct {
	APIKey            string
	BaseURL           string
	ChatModel         string
	ImageModel        string
	HTTPClient        *http.Client
	Logger            *infra.Logger
	RequestsPerMinute int
}

// Client performs HTTP calls to the Together API.
type Client struct {
	apiKey     string
	baseURL    string
	chatModel  string
	imageModel string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *infra.Logger
}

// NewClient constructs a client with defaults for every empty option.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	chatModel := strings.TrimSpace(opts.ChatModel)
	if chatModel == "" {
		chatModel = DefaultChatModel
	}
	imageModel := strings.TrimSpace(opts.ImageModel)
	if imageModel == "" {
		imageModel = DefaultImageModel
	}
	limit := rate.Inf
	if opts.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(opts.RequestsPerMinute))
	}
	logger := opts.Logger
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		chatModel:  chatModel,
		imageModel: imageModel,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// ChatModel returns the model used for idea suggestions.
func (c *Client) ChatModel() string {
	return c.chatModel
}

// ImageModel returns the model used for image generation.
func (c *Client) ImageModel() string {
	return c.imageModel
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// post sends payload as JSON and decodes a 2xx answer into out.
func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	if !c.HasCredentials() {
		return ErrMissingAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("together: rate limiter: %w", err)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("together: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("together: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("together: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("together: read response: %w", err)
	}
	c.logger.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("together: call finished")

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var detail apiErrorBody
		if err := json.Unmarshal(raw, &detail); err == nil {
			apiErr.Message = strings.TrimSpace(detail.Error.Message)
		}
		return apiErr
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("together: decode response: %w", err)
	}
	return nil
}
