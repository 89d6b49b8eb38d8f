package api

import (
	"database/sql"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/ignite/collections-monitor/internal/chat"
	"github.com/ignite/collections-monitor/internal/pkg/httputil"
	"github.com/ignite/collections-monitor/internal/report"
)

const dateLayout = "2006-01-02"

// Handlers contains all HTTP handlers.
type Handlers struct {
	reports *report.Service
	chat    *chat.Client
	db      *sql.DB
	redis   *redis.Client // nil when the cache is disabled
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(reports *report.Service, chatClient *chat.Client, db *sql.DB, redisClient *redis.Client) *Handlers {
	return &Handlers{reports: reports, chat: chatClient, db: db, redis: redisClient}
}

// Dashboard returns global and per-campaign metrics for a single day.
// GET /api/dashboard?date=2026-08-15
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	date, ok := queryDate(w, r, "date")
	if !ok {
		return
	}
	d, err := h.reports.Dashboard(r.Context(), date, date)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, d)
}

// DashboardRange returns metrics for an inclusive date range.
// GET /api/dashboard/range?start=2026-08-01&end=2026-08-15
func (h *Handlers) DashboardRange(w http.ResponseWriter, r *http.Request) {
	start, ok := queryDate(w, r, "start")
	if !ok {
		return
	}
	end, ok := queryDate(w, r, "end")
	if !ok {
		return
	}
	if end.Before(start) {
		httputil.BadRequest(w, "end must not be before start")
		return
	}
	d, err := h.reports.Dashboard(r.Context(), start, end)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, d)
}

// CampaignResponders returns the resolved responder profiles for one
// campaign on one day.
// GET /api/campaigns/{name}/responders?date=2026-08-15
func (h *Handlers) CampaignResponders(w http.ResponseWriter, r *http.Request) {
	name, ok := campaignName(w, r)
	if !ok {
		return
	}
	date, ok := queryDate(w, r, "date")
	if !ok {
		return
	}
	view, err := h.reports.CampaignResponders(r.Context(), name, date)
	if err != nil {
		if errors.Is(err, report.ErrUnknownCampaign) {
			httputil.NotFound(w, "unknown campaign")
			return
		}
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, view)
}

// CampaignRecommendation returns the send/no-send verdict for one campaign.
// GET /api/campaigns/{name}/recommendation?date=2026-08-15
func (h *Handlers) CampaignRecommendation(w http.ResponseWriter, r *http.Request) {
	name, ok := campaignName(w, r)
	if !ok {
		return
	}
	date, ok := queryDate(w, r, "date")
	if !ok {
		return
	}
	rec, err := h.reports.CampaignRecommendation(r.Context(), name, date)
	if err != nil {
		if errors.Is(err, report.ErrUnknownCampaign) {
			httputil.NotFound(w, "unknown campaign")
			return
		}
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, rec)
}

// InvalidateCache drops cached responder sets for a date. The frontend
// calls this when the date filter moves, so stale per-campaign detail
// never survives a filter change.
// POST /api/cache/invalidate?date=2026-08-15
func (h *Handlers) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	date, ok := queryDate(w, r, "date")
	if !ok {
		return
	}
	h.reports.InvalidateDate(r.Context(), date)
	httputil.NoContent(w)
}

func queryDate(w http.ResponseWriter, r *http.Request, param string) (time.Time, bool) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		httputil.BadRequest(w, param+" query parameter is required (YYYY-MM-DD)")
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		httputil.BadRequest(w, param+" must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

func campaignName(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "name")
	name, err := url.PathUnescape(raw)
	if err != nil || name == "" {
		httputil.BadRequest(w, "invalid campaign name")
		return "", false
	}
	return name, true
}
