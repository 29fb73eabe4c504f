package relay

import (
	"errors"
	"net/http"
)

// Kind classifies a failed request.
type Kind int

const (
	KindInternal Kind = iota
	KindRequestParse
	KindEncoding
	KindBackendClient
	KindBackendUnavailable
	KindMalformedResponse
	KindResponseShape
	KindTransport
)

var kindNames = map[Kind]string{
	KindInternal:           "internal",
	KindRequestParse:       "request_parse",
	KindEncoding:           "encoding",
	KindBackendClient:      "backend_client",
	KindBackendUnavailable: "backend_unavailable",
	KindMalformedResponse:  "malformed_response",
	KindResponseShape:      "response_shape",
	KindTransport:          "transport",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// statusByKind is the status sent to the legacy client for each failure.
// Backend errors other than 503 collapse to 400 because that is what the
// client's error dialog expects.
var statusByKind = map[Kind]int{
	KindInternal:           http.StatusInternalServerError,
	KindRequestParse:       http.StatusBadRequest,
	KindEncoding:           http.StatusInternalServerError,
	KindBackendClient:      http.StatusBadRequest,
	KindBackendUnavailable: http.StatusServiceUnavailable,
	KindMalformedResponse:  http.StatusInternalServerError,
	KindResponseShape:      http.StatusInternalServerError,
	KindTransport:          http.StatusInternalServerError,
}

// Fixed messages for failures whose details stay in the log.
const (
	responseShapeMessage = "AI service returned an unexpected response."
	transportMessage     = "AI service is unreachable."
)

// Error is the only error type Translate and ParseRequest return. Message is
// the plain-text body sent to the client.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps err to a status code and response body. Errors that are not
// an *Error are internal faults reported with their own description.
func HTTPStatus(err error) (int, string) {
	var relayErr *Error
	if !errors.As(err, &relayErr) {
		return http.StatusInternalServerError, err.Error()
	}
	status, ok := statusByKind[relayErr.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	return status, relayErr.Message
}
