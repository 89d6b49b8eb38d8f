package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/collections-monitor/internal/pkg/httputil"
)

// Conversation proxies a chat-platform transcript for staff review.
// GET /api/conversations/{ref}
func (h *Handlers) Conversation(w http.ResponseWriter, r *http.Request) {
	if h.chat == nil {
		httputil.Error(w, http.StatusServiceUnavailable, "chat platform not configured")
		return
	}

	ref, err := strconv.ParseInt(chi.URLParam(r, "ref"), 10, 64)
	if err != nil || ref == 0 {
		httputil.BadRequest(w, "ref must be a nonzero conversation reference")
		return
	}

	transcript, err := h.chat.Transcript(r.Context(), ref)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			httputil.NotFound(w, "conversation not found")
			return
		}
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, transcript)
}
