package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"

	"clubhouse/internal/adapters/http/perf"
)

// DefaultSlowRequest is the threshold used when Timing is given zero.
const DefaultSlowRequest = 200 * time.Millisecond

// RequestIDHeader carries the request id back to the client.
const RequestIDHeader = "X-Request-ID"

var requestSeq atomic.Uint64

// RouteKey folds id segments into "{id}" so perf entries group per route,
// e.g. "PUT /api/sessions/{id}/status".
func RouteKey(method, path string) string {
	segs := strings.Split(path, "/")
	for i, seg := range segs {
		if isIDSegment(seg) {
			segs[i] = "{id}"
		}
	}
	return method + " " + strings.Join(segs, "/")
}

func isIDSegment(seg string) bool {
	if seg == "" {
		return false
	}
	if _, err := strconv.ParseUint(seg, 10, 64); err == nil {
		return true
	}
	if len(seg) != 36 {
		return false
	}
	_, err := uuid.Parse(seg)
	return err == nil
}

// Timing returns middleware that logs request duration and tags the response with a request id.
// /healthz is excluded. Requests at or above slow log at WARN, the rest at DEBUG.
// If collector is non-nil, entries are recorded under RouteKey for the admin perf endpoint.
func Timing(collector *perf.Collector, slow time.Duration) func(http.Handler) http.Handler {
	if slow <= 0 {
		slow = DefaultSlowRequest
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" {
				next.ServeHTTP(w, r)
				return
			}

			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" {
				reqID = strconv.FormatUint(requestSeq.Add(1), 10)
			}
			w.Header().Set(RequestIDHeader, reqID)

			status := http.StatusOK
			sw := httpsnoop.Wrap(w, httpsnoop.Hooks{
				WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
					return func(code int) {
						status = code
						next(code)
					}
				},
			})

			start := time.Now()
			defer func() {
				elapsed := time.Since(start)
				durationMs := float64(elapsed.Microseconds()) / 1000.0
				route := RouteKey(r.Method, r.URL.Path)

				level := slog.LevelDebug
				event := "request"
				if elapsed >= slow {
					level, event = slog.LevelWarn, "slow_request"
				}
				slog.Log(r.Context(), level, event,
					"request_id", reqID,
					"route", route,
					"path", r.URL.Path,
					"status", status,
					"duration_ms", durationMs,
				)

				if collector != nil {
					collector.Record(perf.Entry{
						Kind:       perf.KindRequest,
						Path:       route,
						StatusCode: status,
						DurationMs: durationMs,
						Timestamp:  start,
					})
				}
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
