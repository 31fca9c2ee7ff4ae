package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/saferoute-dashboard/internal/models"
)

func TestBuildRiskDistribution(t *testing.T) {
	t.Run("groups zones by observed level", func(t *testing.T) {
		three, five := 3, 5
		zones := []models.RiskZone{
			{RiskLevel: models.RiskLow, IncidentCount: &three},
			{RiskLevel: models.RiskLow},
			{RiskLevel: models.RiskCritical, IncidentCount: &five},
		}

		rows := BuildRiskDistribution(zones)
		require.Len(t, rows, 2)

		assert.Equal(t, models.RiskLow, rows[0].Level)
		assert.Equal(t, 2, rows[0].Zones)
		assert.Equal(t, 3, rows[0].Incidents)

		assert.Equal(t, models.RiskCritical, rows[1].Level)
		assert.Equal(t, 1, rows[1].Zones)
		assert.Equal(t, 5, rows[1].Incidents)
	})

	t.Run("row zone counts sum to the total record count", func(t *testing.T) {
		zones := []models.RiskZone{
			{RiskLevel: models.RiskLow},
			{RiskLevel: models.RiskMedium},
			{RiskLevel: models.RiskMedium},
			{RiskLevel: models.RiskHigh},
			{RiskLevel: models.RiskCritical},
		}
		rows := BuildRiskDistribution(zones)

		total := 0
		for _, row := range rows {
			total += row.Zones
		}
		assert.Equal(t, len(zones), total)
	})

	t.Run("levels without zones are omitted", func(t *testing.T) {
		zones := []models.RiskZone{{RiskLevel: models.RiskHigh}}
		rows := BuildRiskDistribution(zones)
		require.Len(t, rows, 1)
		assert.Equal(t, models.RiskHigh, rows[0].Level)
	})

	t.Run("empty input yields empty distribution", func(t *testing.T) {
		assert.Empty(t, BuildRiskDistribution(nil))
	})

	t.Run("negative incident counts are excluded", func(t *testing.T) {
		negative := -4
		zones := []models.RiskZone{
			{RiskLevel: models.RiskHigh},
			{RiskLevel: models.RiskHigh, IncidentCount: &negative},
		}
		rows := BuildRiskDistribution(zones)
		require.Len(t, rows, 1)
		assert.Equal(t, 1, rows[0].Zones)
		assert.Equal(t, 0, rows[0].Incidents)
	})
}
