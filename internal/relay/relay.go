// Package relay fetches a remote image on behalf of a browser so the bytes
// can be re-served from our own origin.
package relay

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"promptlab/internal/infra"
)

// DefaultContentType is used when the upstream omits Content-Type.
const DefaultContentType = "image/png"

// Image is a fully buffered upstream response.
type Image struct {
	ContentType string
	Data        []byte
}

// UpstreamError reports a non-2xx upstream status.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("relay: upstream status %d", e.Status)
}

// Options configures a Fetcher.
type Options struct {
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Fetcher performs exactly one GET per call. It does not retry, cache or cap
// the payload size, and the default client has no timeout: a request only
// ends early when its context is cancelled.
type Fetcher struct {
	client *http.Client
	logger *infra.Logger
}

// NewFetcher builds a Fetcher with the given dependencies.
func NewFetcher(opts Options) *Fetcher {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &Fetcher{client: client, logger: logger}
}

// Fetch downloads rawURL. A non-2xx status yields *UpstreamError; any other
// failure is a wrapped transport or read error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("relay: build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("relay: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &UpstreamError{Status: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("relay: read body: %w", err)
	}
	contentType := strings.TrimSpace(resp.Header.Get("Content-Type"))
	if contentType == "" {
		contentType = DefaultContentType
	}
	f.logger.Debug().
		Str("url", rawURL).
		Str("content_type", contentType).
		Int("bytes", len(data)).
		Msg("relay: fetched upstream image")
	return &Image{ContentType: contentType, Data: data}, nil
}
