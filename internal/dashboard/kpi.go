package dashboard

import (
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/saferoute-dashboard/internal/models"
)

// BuildKpiBlock computes the scalar fleet-health metrics from the current
// record sets. It is a pure function of its inputs: records violating their
// invariants are excluded with a warning and never abort the computation.
func BuildKpiBlock(alerts []models.Alert, scores []models.SafetyScore, deliveries []models.Delivery, zones []models.RiskZone, emptyScoreDefault float64) models.KpiBlock {
	kpi := models.KpiBlock{}

	activeDrivers := make(map[string]struct{})
	for i := range alerts {
		a := &alerts[i]
		if !a.Valid() {
			log.WithFields(log.Fields{"alert_id": a.ID.Hex(), "driver_id": a.DriverID}).
				Warn("Skipping invalid alert record")
			continue
		}
		if a.Status == models.AlertActive {
			kpi.OpenAlerts++
			activeDrivers[a.DriverID] = struct{}{}
		}
	}

	for i := range deliveries {
		d := &deliveries[i]
		if !d.Valid() {
			log.WithFields(log.Fields{"delivery_id": d.ID.Hex(), "driver_id": d.DriverID}).
				Warn("Skipping invalid delivery record")
			continue
		}
		if d.Status == models.DeliveryInProgress {
			activeDrivers[d.DriverID] = struct{}{}
		}
	}

	var sum float64
	for i := range scores {
		s := &scores[i]
		if !s.Valid() {
			log.WithFields(log.Fields{"score_id": s.ID.Hex(), "score": s.Score}).
				Warn("Skipping out-of-range safety score")
			continue
		}
		sum += s.Score
		kpi.ScoreCount++
		activeDrivers[s.DriverID] = struct{}{}
	}
	if kpi.ScoreCount > 0 {
		kpi.AverageSafetyScore = roundOneDecimal(sum / float64(kpi.ScoreCount))
	} else {
		kpi.AverageSafetyScore = emptyScoreDefault
	}

	for i := range zones {
		z := &zones[i]
		if !z.Valid() {
			log.WithField("zone_id", z.ID.Hex()).Warn("Skipping invalid risk zone record")
			continue
		}
		if z.RiskLevel == models.RiskHigh || z.RiskLevel == models.RiskCritical {
			kpi.HighRiskZones++
		}
	}

	kpi.ActiveDrivers = len(activeDrivers)
	return kpi
}

// roundOneDecimal rounds to one decimal place, halves away from zero.
func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
