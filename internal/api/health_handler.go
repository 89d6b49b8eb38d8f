package api

import (
	"net/http"
	"time"

	"github.com/ignite/collections-monitor/internal/pkg/httputil"
)

// HealthCheck reports component reachability. The dashboard polls this to
// decide whether to show the degraded-state banner.
// GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	components := map[string]string{}
	healthy := true

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			components["database"] = "unreachable"
			healthy = false
		} else {
			components["database"] = "ok"
		}
	} else {
		components["database"] = "not configured"
		healthy = false
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			// The cache is optional; a dead cache degrades, not fails.
			components["redis"] = "unreachable"
		} else {
			components["redis"] = "ok"
		}
	} else {
		components["redis"] = "disabled"
	}

	if h.chat != nil {
		components["chat"] = "configured"
	} else {
		components["chat"] = "disabled"
	}

	status := http.StatusOK
	state := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	httputil.JSON(w, status, map[string]any{
		"status":     state,
		"components": components,
		"time":       time.Now().UTC().Format(time.RFC3339),
	})
}
