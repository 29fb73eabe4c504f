package server

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/n0madic/go-legacyrelay/internal/dialect"
	"github.com/n0madic/go-legacyrelay/internal/relay"
)

const textContentType = "text/plain; charset=utf-8"

// handleProxy handles POST /openai-proxy.
func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeFailure(w, r, "", &relay.Error{
			Kind:    relay.KindRequestParse,
			Message: "Error reading request body: " + err.Error(),
			Err:     err,
		})
		return
	}

	req, err := relay.ParseRequest(r.Header, body)
	if err != nil {
		s.writeFailure(w, r, "", err)
		return
	}
	dialectName := dialect.ForModel(req.Model).String()

	reply, err := s.Pipeline.Translate(r.Context(), req)
	if err != nil {
		s.writeFailure(w, r, dialectName, err)
		return
	}
	if reply.Replaced > 0 {
		slog.Debug("reply.lossy", "replaced", reply.Replaced, "request_id", requestIDFrom(r.Context()))
	}

	s.Metrics.ObserveRequest(dialectName, http.StatusOK)
	writeText(w, http.StatusOK, reply.Body)
}

func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, dialectName string, err error) {
	status, message := relay.HTTPStatus(err)
	slog.Error("request failed", "status", status, "error", err, "request_id", requestIDFrom(r.Context()))
	s.Metrics.ObserveRequest(dialectName, status)
	writeText(w, status, []byte(message))
}

// writeText writes a plain-text response. The content type always says UTF-8,
// even for Mac OS Roman bodies, because that is what the legacy client was
// built against.
func writeText(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", textContentType)
	w.WriteHeader(status)
	w.Write(body) //nolint:errcheck
}
