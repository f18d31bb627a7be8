package middleware

import (
	"bufio"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// accessRecorder wraps http.ResponseWriter to capture what the handler did
// with the request: status code, payload size, and whether the connection was
// hijacked out of HTTP entirely.
type accessRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
	hijacked     bool
}

func newAccessRecorder(w http.ResponseWriter) *accessRecorder {
	return &accessRecorder{ResponseWriter: w, statusCode: http.StatusOK}
}

func (ar *accessRecorder) WriteHeader(code int) {
	ar.statusCode = code
	ar.ResponseWriter.WriteHeader(code)
}

func (ar *accessRecorder) Write(b []byte) (int, error) {
	n, err := ar.ResponseWriter.Write(b)
	ar.bytesWritten += int64(n)
	return n, err
}

// Flush implements http.Flusher if the underlying ResponseWriter supports it
func (ar *accessRecorder) Flush() {
	if f, ok := ar.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack implements http.Hijacker so the relay's websocket upgrade works
// behind this middleware. A hijacked request has no meaningful HTTP status.
func (ar *accessRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := ar.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response does not implement http.Hijacker")
	}
	ar.hijacked = true
	return hijacker.Hijack()
}

// redactQuery masks credential-bearing query parameters before they reach the
// log. The relay's websocket handshake carries the JWT in ?token=, which must
// never be written out verbatim.
func redactQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "UNPARSEABLE"
	}
	if _, ok := values["token"]; !ok {
		return rawQuery
	}
	values.Set("token", "REDACTED")
	return values.Encode()
}

// isProbePath reports whether the path is polled by orchestrators or
// scrapers. Those requests arrive every few seconds and drown out real
// traffic at Info.
func isProbePath(path string) bool {
	return path == "/metrics" || path == "/health" || strings.HasPrefix(path, "/health/")
}

// RequestLogger returns a middleware that writes one access log line per
// request. Upgraded websocket connections are logged at Debug when the
// handshake succeeds; their lifecycle afterwards belongs to the hub, not to
// HTTP.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := newAccessRecorder(w)

			next.ServeHTTP(recorder, r)

			duration := time.Since(start)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"duration_ms", duration.Milliseconds(),
				"client_ip", getClientIP(r),
			}
			if requestID := GetRequestID(r.Context()); requestID != "" {
				attrs = append(attrs, "request_id", requestID)
			}
			if query := redactQuery(r.URL.RawQuery); query != "" {
				attrs = append(attrs, "query", query)
			}

			if recorder.hijacked {
				logger.Debug("connection upgraded", attrs...)
				return
			}

			attrs = append(attrs,
				"status", recorder.statusCode,
				"bytes", recorder.bytesWritten,
			)

			switch {
			case recorder.statusCode >= 500:
				logger.Error("http request", attrs...)
			case recorder.statusCode >= 400:
				logger.Warn("http request", attrs...)
			case isProbePath(r.URL.Path):
				logger.Debug("http request", attrs...)
			default:
				logger.Info("http request", attrs...)
			}
		})
	}
}

// RecoveryLogger returns a middleware that recovers from panics and logs them
func RecoveryLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						"request_id", GetRequestID(r.Context()),
						"method", r.Method,
						"path", r.URL.Path,
						"error", err,
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"error":"Internal server error","code":"INTERNAL_ERROR"}`))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
