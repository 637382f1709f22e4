package web

import (
	"net/http"
	"time"

	"github.com/gorilla/csrf"
)

// handleHealth reports liveness and, when configured, database reachability.
func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.opts.Ping != nil {
		if err := s.opts.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "database": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCSRFToken hands out a token for clients that post HTML forms.
func handleCSRFToken(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"token": csrf.Token(r)})
}

// handlePerf returns request and query timings over the last `minutes` (default 60).
func (s *server) handlePerf(w http.ResponseWriter, r *http.Request) {
	if s.opts.Collector == nil {
		http.Error(w, "performance collection is disabled", http.StatusNotFound)
		return
	}
	minutes, ok := intParam(w, r, "minutes")
	if !ok {
		return
	}
	if minutes == 0 {
		minutes = 60
	}
	top, ok := intParam(w, r, "top")
	if !ok {
		return
	}
	if top == 0 {
		top = 10
	}
	since := s.now().Add(-time.Duration(minutes) * time.Minute)
	writeJSON(w, http.StatusOK, s.opts.Collector.Snapshot(since, top))
}
