package dashboard

import (
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/saferoute-dashboard/internal/models"
)

// severityOrder fixes the row ordering of the distribution output.
var severityOrder = []models.RiskLevel{
	models.RiskLow,
	models.RiskMedium,
	models.RiskHigh,
	models.RiskCritical,
}

// BuildRiskDistribution groups risk zones by risk level, one row per level
// actually observed in the data, with the zone count and summed incident
// count per row. A missing incident count is treated as zero; a zone with a
// negative count violates its invariant and is excluded with a warning.
// Levels with no zones are omitted.
func BuildRiskDistribution(zones []models.RiskZone) []models.RiskDistributionRow {
	type tally struct {
		zones     int
		incidents int
	}
	byLevel := make(map[models.RiskLevel]*tally)

	for i := range zones {
		z := &zones[i]
		if !z.Valid() {
			log.WithFields(log.Fields{"zone_id": z.ID.Hex(), "risk_level": z.RiskLevel}).
				Warn("Skipping invalid risk zone record")
			continue
		}
		t := byLevel[z.RiskLevel]
		if t == nil {
			t = &tally{}
			byLevel[z.RiskLevel] = t
		}
		t.zones++
		t.incidents += z.Incidents()
	}

	rows := make([]models.RiskDistributionRow, 0, len(byLevel))
	for _, level := range severityOrder {
		t, ok := byLevel[level]
		if !ok {
			continue
		}
		rows = append(rows, models.RiskDistributionRow{
			Level:     level,
			Zones:     t.zones,
			Incidents: t.incidents,
		})
	}
	return rows
}
