// Package relay runs one legacy request through normalization, dialect
// adaptation, the backend call, reply extraction and re-encoding.
package relay

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/n0madic/go-legacyrelay/internal/dialect"
	"github.com/n0madic/go-legacyrelay/internal/legacytext"
	"github.com/n0madic/go-legacyrelay/internal/metrics"
	"github.com/n0madic/go-legacyrelay/internal/upstream"
)

// Invoker abstracts the backend client so the pipeline can be tested without
// a network.
type Invoker interface {
	Do(context.Context, *dialect.Request) (*upstream.Result, error)
}

// Pipeline translates legacy requests. It holds no per-request state.
type Pipeline struct {
	Upstream Invoker
	Metrics  *metrics.Collector
}

// Reply is the body to send back to the legacy client.
type Reply struct {
	Body     []byte
	Dialect  dialect.Dialect
	Replaced int
}

// Translate runs req through the relay. Every error it returns is an *Error.
func (p *Pipeline) Translate(ctx context.Context, req *Request) (*Reply, error) {
	prompt, err := legacytext.Normalize(req.Prompt, req.Mode)
	if err != nil {
		return nil, &Error{Kind: KindEncoding, Message: "Error decoding prompt: " + err.Error(), Err: err}
	}

	slog.Info("relay.request",
		"model", req.Model,
		"temperature", req.Temperature,
		"max_tokens", tokensLogValue(req.MaxTokens),
		"mode", req.Mode.String(),
		"prompt_chars", utf8.RuneCountInString(prompt),
	)

	upReq, err := dialect.Build(dialect.Params{
		Model:        req.Model,
		SystemPrompt: req.InitialPrompt,
		Prompt:       prompt,
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
	})
	if err != nil {
		return nil, &Error{Kind: KindInternal, Message: err.Error(), Err: err}
	}

	start := time.Now()
	res, err := p.Upstream.Do(ctx, upReq)
	if err != nil {
		p.Metrics.ObserveBackend(upReq.Dialect.String(), "transport", time.Since(start))
		return nil, &Error{Kind: KindTransport, Message: transportMessage, Err: err}
	}
	p.Metrics.ObserveBackend(upReq.Dialect.String(), res.Outcome.String(), time.Since(start))

	switch res.Outcome {
	case upstream.OutcomeUnavailable:
		slog.Error("upstream unavailable", "status", res.StatusCode, "body", string(res.Body))
		return nil, &Error{Kind: KindBackendUnavailable, Message: res.Message}
	case upstream.OutcomeClientError:
		slog.Info("upstream error", "status", res.StatusCode, "message", res.Message)
		return nil, &Error{Kind: KindBackendClient, Message: res.Message}
	case upstream.OutcomeMalformed:
		slog.Error("unexpected upstream response structure", "body", string(res.Body))
		return nil, &Error{Kind: KindMalformedResponse, Message: res.Message}
	}

	text, err := dialect.Extract(upReq.Dialect, res.Body)
	if err != nil {
		return nil, &Error{Kind: KindResponseShape, Message: responseShapeMessage, Err: err}
	}

	body, replaced := legacytext.Render(text, req.Mode)
	p.Metrics.AddReplaced(replaced)
	return &Reply{Body: body, Dialect: upReq.Dialect, Replaced: replaced}, nil
}

func tokensLogValue(n int) any {
	if n == dialect.NoTokenLimit {
		return "disabled"
	}
	return n
}
