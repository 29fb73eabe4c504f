package dialect

import (
	"encoding/json"
	"fmt"
	"net/url"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared"
	"github.com/tidwall/sjson"
)

// NoTokenLimit disables max_tokens on legacy requests.
const NoTokenLimit = -1

// Params carries everything needed to build a backend request.
type Params struct {
	Model        string
	SystemPrompt string
	Prompt       string
	Temperature  float64
	MaxTokens    int
}

// Request is a backend request ready to send. Path is relative to the
// configured API base URL.
type Request struct {
	Dialect Dialect
	Model   string
	Path    string
	Body    []byte
}

// Build shapes p for the dialect of p.Model.
func Build(p Params) (*Request, error) {
	d := ForModel(p.Model)
	var (
		body []byte
		err  error
		path string
	)
	switch d {
	case Chat:
		path = "/chat/completions"
		body, err = chatBody(p)
	default:
		path = "/engines/" + url.PathEscape(p.Model) + "/completions"
		body, err = legacyBody(p)
	}
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", d, err)
	}
	return &Request{Dialect: d, Model: p.Model, Path: path, Body: body}, nil
}

func chatBody(p Params) ([]byte, error) {
	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(p.Model),
		Temperature: openai.Float(p.Temperature),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(p.SystemPrompt),
			openai.UserMessage(p.Prompt),
		},
	}
	return json.Marshal(params)
}

// legacyBody builds the engines-endpoint payload. The model is part of the
// path, and initial prompts are dropped because these models handle them badly.
func legacyBody(p Params) ([]byte, error) {
	body, err := sjson.SetBytes([]byte(`{}`), "prompt", p.Prompt)
	if err != nil {
		return nil, err
	}
	if body, err = sjson.SetBytes(body, "temperature", p.Temperature); err != nil {
		return nil, err
	}
	if p.MaxTokens != NoTokenLimit {
		if body, err = sjson.SetBytes(body, "max_tokens", p.MaxTokens); err != nil {
			return nil, err
		}
	}
	return body, nil
}
