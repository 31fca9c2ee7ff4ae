package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/saferoute-dashboard/internal/dashboard"
)

// DashboardHandler serves the dashboard pull API: on-demand snapshots, KPI
// blocks and trend series.
type DashboardHandler struct {
	source dashboard.SnapshotSource
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(source dashboard.SnapshotSource) *DashboardHandler {
	return &DashboardHandler{source: source}
}

// GetSnapshot returns a freshly composed dashboard snapshot. The read is
// bound to the request context, so a client that disconnects cancels the
// in-flight aggregation.
func (h *DashboardHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot, err := h.source.Snapshot(r.Context())
	if err != nil {
		h.storeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshot)
}

// GetKpis returns just the KPI block.
func (h *DashboardHandler) GetKpis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	kpi, err := h.source.Kpi(r.Context())
	if err != nil {
		h.storeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(kpi)
}

// GetTrend returns one trend series. The kind comes from the route, the
// span from the optional days query parameter.
func (h *DashboardHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	kind := dashboard.TrendKind(mux.Vars(r)["kind"])
	if !dashboard.IsValidTrendKind(kind) {
		http.Error(w, "Unknown trend kind", http.StatusBadRequest)
		return
	}

	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "days must be a positive integer", http.StatusBadRequest)
			return
		}
		days = n
	}

	series, err := h.source.Trend(r.Context(), kind, days)
	if err != nil {
		h.storeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(series)
}

// Health reports service liveness.
func (h *DashboardHandler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (h *DashboardHandler) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, dashboard.ErrStoreUnavailable) {
		log.WithError(err).Error("Store read failed serving dashboard request")
		http.Error(w, "Record store unavailable", http.StatusServiceUnavailable)
		return
	}
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
