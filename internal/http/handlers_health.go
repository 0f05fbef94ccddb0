package http

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).String(),
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(health)
}

// handleReady reports whether the server can render pages, plus counters
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.presenter == nil {
		checks["ledger"] = "not_configured"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["ledger"] = map[string]interface{}{
			"entries_added":   atomic.LoadInt64(&s.appMetrics.entriesAdded),
			"entries_removed": atomic.LoadInt64(&s.appMetrics.entriesRemoved),
			"rejected":        atomic.LoadInt64(&s.appMetrics.rejected),
			"status":          "ok",
		}
	}

	rl := s.rateLimiter.GetMetrics()
	checks["rate_limiter"] = map[string]interface{}{
		"active_clients": rl.ClientCount,
		"hits":           rl.TotalHits,
		"status":         "ok",
	}

	tm := s.traceMiddleware.GetMetrics()
	checks["requests"] = map[string]interface{}{
		"total":      tm.TotalRequests,
		"failed":     tm.FailedRequests,
		"suspicious": s.securityDetector.GetMetrics().SuspiciousRequests,
	}

	response := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}

	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(response)
}
