package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/saferoute-dashboard/internal/db"
)

const exportTimeFormat = "02/01/2006 15:04"

// ExportHandler streams raw record queries as CSV. Formatting only; all
// aggregation stays in the dashboard package.
type ExportHandler struct {
	store *db.Store
}

// NewExportHandler creates a new export handler
func NewExportHandler(store *db.Store) *ExportHandler {
	return &ExportHandler{store: store}
}

// Export serves GET /api/export/{kind} with optional start/end date
// parameters (YYYY-MM-DD). Alerts and deliveries default to the trailing
// 30 days; scores and risk zones always export in full.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	kind := mux.Vars(r)["kind"]
	from, to, err := exportRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var rows [][]string
	switch kind {
	case "alerts":
		rows, err = h.alertRows(r, from, to)
	case "deliveries":
		rows, err = h.deliveryRows(r, from, to)
	case "scores":
		rows, err = h.scoreRows(r)
	case "riskzones":
		rows, err = h.riskZoneRows(r)
	default:
		http.Error(w, "Unknown export kind", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.WithError(err).WithField("kind", kind).Error("Export query failed")
		http.Error(w, "Record store unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", kind))
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(rows); err != nil {
		log.WithError(err).Warn("CSV write failed")
	}
}

// exportRange parses the optional start/end parameters, defaulting to the
// trailing 30 days.
func exportRange(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if v := r.URL.Query().Get("start"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return from, to, fmt.Errorf("invalid start date %q", v)
		}
		from = parsed
	}
	if v := r.URL.Query().Get("end"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return from, to, fmt.Errorf("invalid end date %q", v)
		}
		// inclusive end day
		to = parsed.AddDate(0, 0, 1)
	}
	return from, to, nil
}

func (h *ExportHandler) alertRows(r *http.Request, from, to time.Time) ([][]string, error) {
	alerts, err := h.store.Alerts.FindAlerts(r.Context(), &from, &to)
	if err != nil {
		return nil, err
	}
	rows := [][]string{{"alert_id", "driver_id", "type", "status", "created_at", "resolved_at"}}
	for i := range alerts {
		a := &alerts[i]
		resolved := "N/A"
		if a.ResolvedAt != nil {
			resolved = a.ResolvedAt.Format(exportTimeFormat)
		}
		rows = append(rows, []string{
			a.ID.Hex(), a.DriverID, string(a.Type), string(a.Status),
			a.CreatedAt.Format(exportTimeFormat), resolved,
		})
	}
	return rows, nil
}

func (h *ExportHandler) deliveryRows(r *http.Request, from, to time.Time) ([][]string, error) {
	deliveries, err := h.store.Deliveries.FindDeliveries(r.Context(), &from, &to)
	if err != nil {
		return nil, err
	}
	rows := [][]string{{"delivery_id", "driver_id", "risk_level", "status", "created_at", "completed_at"}}
	for i := range deliveries {
		d := &deliveries[i]
		completed := "In Progress"
		if d.CompletedAt != nil {
			completed = d.CompletedAt.Format(exportTimeFormat)
		}
		rows = append(rows, []string{
			d.ID.Hex(), d.DriverID, string(d.RiskLevel), string(d.Status),
			d.CreatedAt.Format(exportTimeFormat), completed,
		})
	}
	return rows, nil
}

func (h *ExportHandler) scoreRows(r *http.Request) ([][]string, error) {
	scores, err := h.store.Scores.FindScores(r.Context(), nil, nil)
	if err != nil {
		return nil, err
	}
	rows := [][]string{{"score_id", "driver_id", "score", "computed_at", "recommendations"}}
	for i := range scores {
		s := &scores[i]
		recommendations := s.Recommendations
		if recommendations == "" {
			recommendations = "None"
		}
		rows = append(rows, []string{
			s.ID.Hex(), s.DriverID, strconv.FormatFloat(s.Score, 'f', 2, 64),
			s.ComputedAt.Format(exportTimeFormat), recommendations,
		})
	}
	return rows, nil
}

func (h *ExportHandler) riskZoneRows(r *http.Request) ([][]string, error) {
	zones, err := h.store.RiskZones.FindRiskZones(r.Context())
	if err != nil {
		return nil, err
	}
	rows := [][]string{{"zone_id", "risk_level", "incident_count", "boundary"}}
	for i := range zones {
		z := &zones[i]
		rows = append(rows, []string{
			z.ID.Hex(), string(z.RiskLevel), strconv.Itoa(z.Incidents()), z.Boundary,
		})
	}
	return rows, nil
}
