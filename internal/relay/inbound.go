package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/n0madic/go-legacyrelay/internal/dialect"
	"github.com/n0madic/go-legacyrelay/internal/legacytext"
)

// Headers set by the legacy client.
const (
	HeaderModel         = "AI-Model"
	HeaderInitialPrompt = "Initial-Prompt"
	HeaderURLEncoded    = "URL-Encoded"
	HeaderTokens        = "Tokens"
	HeaderTemperature   = "Temperature"
)

const (
	DefaultInitialPrompt = "You are a helpful assistant."
	DefaultTemperature   = 0.7

	// tokensDisabled is what the client sends when no limit is configured.
	tokensDisabled = "disabled"

	maxTemperature = 2.0
)

// Request is a parsed inbound request.
type Request struct {
	Model         string
	InitialPrompt string
	Mode          legacytext.Mode
	MaxTokens     int
	Temperature   float64
	Prompt        string
}

type inboundBody struct {
	Prompt *string `json:"prompt"`
}

// ParseRequest reads the JSON body and the legacy headers. Missing or empty
// headers take their defaults.
func ParseRequest(h http.Header, body []byte) (*Request, error) {
	var in inboundBody
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, parseError(fmt.Errorf("Error parsing prompt JSON: %w", err))
	}
	if in.Prompt == nil {
		return nil, parseError(errors.New(`Error parsing prompt JSON: missing "prompt" field`))
	}

	maxTokens, err := parseTokens(h.Get(HeaderTokens))
	if err != nil {
		return nil, parseError(err)
	}
	temperature, err := parseTemperature(h.Get(HeaderTemperature))
	if err != nil {
		return nil, parseError(err)
	}

	return &Request{
		Model:         headerOr(h, HeaderModel, dialect.DefaultModel),
		InitialPrompt: headerOr(h, HeaderInitialPrompt, DefaultInitialPrompt),
		Mode:          legacytext.ParseMode(h.Get(HeaderURLEncoded)),
		MaxTokens:     maxTokens,
		Temperature:   temperature,
		Prompt:        *in.Prompt,
	}, nil
}

func parseError(err error) *Error {
	return &Error{Kind: KindRequestParse, Message: err.Error(), Err: err}
}

func headerOr(h http.Header, key, def string) string {
	if v := strings.TrimSpace(h.Get(key)); v != "" {
		return v
	}
	return def
}

func parseTokens(v string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, tokensDisabled) {
		return dialect.NoTokenLimit, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s header %q: want a non-negative integer or %q", HeaderTokens, v, "Disabled")
	}
	return n, nil
}

func parseTemperature(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return DefaultTemperature, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || f < 0 || f > maxTemperature {
		return 0, fmt.Errorf("invalid %s header %q: want a number between 0 and %g", HeaderTemperature, v, maxTemperature)
	}
	return f, nil
}
