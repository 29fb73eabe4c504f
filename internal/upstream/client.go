package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/n0madic/go-legacyrelay/internal/dialect"
)

// DefaultTimeout bounds a single backend call when the config does not set one.
const DefaultTimeout = 60 * time.Second

// maxResponseBytes caps how much of a backend body is read. Longer bodies are
// rejected.
const maxResponseBytes = 10 * 1024 * 1024 // 10 MB

// ErrResponseTooLarge means the backend body exceeded maxResponseBytes.
var ErrResponseTooLarge = fmt.Errorf("response body exceeds %d bytes", maxResponseBytes)

// TransportError is a network-level failure: nothing usable came back.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "backend request failed: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client sends dialect requests to the OpenAI API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Verbose    bool
	Debug      bool
	// DumpTo receives debug dumps; nil means stderr.
	DumpTo io.Writer
}

// NewClient creates a client that authenticates every call with the bearer
// token from ts.
func NewClient(baseURL string, ts oauth2.TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: &oauth2.Transport{Source: ts, Base: http.DefaultTransport},
		},
	}
}

// StaticToken wraps an API key as a bearer token source.
func StaticToken(apiKey string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"})
}

// Do posts req and classifies the reply. A non-nil error is always a
// *TransportError; every HTTP status, including 4xx and 5xx, is a Result.
func (c *Client) Do(ctx context.Context, req *dialect.Request) (*Result, error) {
	url := c.BaseURL + req.Path
	if c.Verbose {
		slog.Info("upstream.request",
			"dialect", req.Dialect.String(),
			"model", req.Model,
			"path", req.Path,
			"body_bytes", len(req.Body),
		)
	}
	c.writeDebugDumpBlock("UPSTREAM REQUEST POST "+req.Path, req.Body)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(req.Body))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read response body: %w", err)}
	}
	if len(body) > maxResponseBytes {
		return nil, &TransportError{Err: fmt.Errorf("%w (status %d)", ErrResponseTooLarge, resp.StatusCode)}
	}

	if c.Verbose {
		attrs := []any{"status", resp.StatusCode, "elapsed", time.Since(start).Round(time.Millisecond)}
		if requestID := upstreamRequestID(resp.Header); requestID != "" {
			attrs = append(attrs, "request_id", requestID)
		}
		slog.Info("upstream.response", attrs...)
	}
	c.writeDebugDumpBlock(fmt.Sprintf("UPSTREAM RESPONSE BODY status=%d", resp.StatusCode), body)

	return Classify(resp.StatusCode, body), nil
}

func upstreamRequestID(headers http.Header) string {
	if headers == nil {
		return ""
	}
	for _, key := range []string{"x-request-id", "openai-request-id", "request-id", "cf-ray"} {
		if v := strings.TrimSpace(headers.Get(key)); v != "" {
			return v
		}
	}
	return ""
}
