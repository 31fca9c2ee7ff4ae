package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskZoneIncidents(t *testing.T) {
	t.Run("missing count reads as zero", func(t *testing.T) {
		zone := RiskZone{RiskLevel: RiskLow}
		assert.Equal(t, 0, zone.Incidents())
	})

	t.Run("present count reads through", func(t *testing.T) {
		seven := 7
		zone := RiskZone{RiskLevel: RiskHigh, IncidentCount: &seven}
		assert.Equal(t, 7, zone.Incidents())
	})
}

func TestRiskZoneValid(t *testing.T) {
	t.Run("known levels are valid", func(t *testing.T) {
		for _, level := range []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical} {
			zone := RiskZone{RiskLevel: level}
			assert.True(t, zone.Valid(), string(level))
		}
	})

	t.Run("unknown level is invalid", func(t *testing.T) {
		zone := RiskZone{RiskLevel: RiskLevel("mild")}
		assert.False(t, zone.Valid())
	})

	t.Run("negative incident count is invalid", func(t *testing.T) {
		negative := -1
		zone := RiskZone{RiskLevel: RiskHigh, IncidentCount: &negative}
		assert.False(t, zone.Valid())
	})
}
