package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"strings"

	"github.com/google/uuid"

	"github.com/n0madic/go-legacyrelay/internal/config"
	"github.com/n0madic/go-legacyrelay/internal/upstream"
)

const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// requestIDMiddleware tags each request with the caller's X-Request-ID or a
// new UUID and echoes it on the response.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// recoverMiddleware turns a handler panic into a plain-text 500 so one bad
// request never takes the process down.
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			msg := fmt.Sprint(rec)
			slog.Error("unexpected error occurred", "error", msg, "path", r.URL.Path, "request_id", requestIDFrom(r.Context()))
			writeText(w, http.StatusInternalServerError, []byte(msg))
		}()
		next.ServeHTTP(w, r)
	})
}

// traceMiddleware logs each request when verbose is on and dumps it to out
// when debug is on.
func traceMiddleware(cfg *config.ServerConfig, out io.Writer, next http.Handler) http.Handler {
	if cfg == nil || (!cfg.Verbose && !cfg.Debug) {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := requestIDFrom(r.Context())
		if cfg.Verbose {
			slog.Info("request", "method", r.Method, "path", r.URL.Path, "request_id", id)
		}
		if cfg.Debug {
			dump, err := httputil.DumpRequest(r, true)
			if err != nil {
				slog.Error("request.dump.failed", "path", r.URL.Path, "request_id", id, "error", err)
			} else if err := upstream.WriteDumpBlock(out, "INBOUND REQUEST "+id, dump); err != nil {
				slog.Error("request.dump.write.failed", "request_id", id, "error", err)
			}
		}
		next.ServeHTTP(w, r)
	})
}
