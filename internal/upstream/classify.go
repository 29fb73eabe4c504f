package upstream

import (
	"net/http"

	"github.com/tidwall/gjson"
)

// Outcome is the classification of a backend reply.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeClientError
	OutcomeUnavailable
	OutcomeMalformed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeClientError:
		return "client_error"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Result is a classified backend reply.
type Result struct {
	Outcome    Outcome
	StatusCode int
	Body       []byte
	// Message is the backend's error.message, or empty.
	Message string
}

// Classify sorts a backend reply. A 503 means the backend is overloaded and is
// passed through; any other status of 400 and up is a client error. A success
// without a top-level choices field is malformed.
func Classify(statusCode int, body []byte) *Result {
	res := &Result{StatusCode: statusCode, Body: body}
	switch {
	case statusCode == http.StatusServiceUnavailable:
		res.Outcome = OutcomeUnavailable
		res.Message = ErrorMessage(body)
	case statusCode >= 400:
		res.Outcome = OutcomeClientError
		res.Message = ErrorMessage(body)
	case !gjson.GetBytes(body, "choices").Exists():
		res.Outcome = OutcomeMalformed
		res.Message = ErrorMessage(body)
	default:
		res.Outcome = OutcomeSuccess
	}
	return res
}

// ErrorMessage returns error.message from an OpenAI error envelope, or "" when
// the body is not JSON or has no such string.
func ErrorMessage(body []byte) string {
	res := gjson.GetBytes(body, "error.message")
	if res.Type != gjson.String {
		return ""
	}
	return res.Str
}
