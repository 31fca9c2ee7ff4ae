package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// RiskLevel grades an area or delivery by expected incident exposure.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// IsValidRiskLevel checks if a risk level is one of the known grades.
func IsValidRiskLevel(l RiskLevel) bool {
	switch l {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	default:
		return false
	}
}

// RiskZone represents a geographic area graded by incident history.
type RiskZone struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RiskLevel     RiskLevel          `bson:"risk_level" json:"risk_level"`
	Boundary      string             `bson:"boundary" json:"boundary"`
	IncidentCount *int               `bson:"incident_count,omitempty" json:"incident_count,omitempty"`
}

// Incidents returns the incident count, treating a missing count as 0.
func (z *RiskZone) Incidents() int {
	if z.IncidentCount == nil {
		return 0
	}
	return *z.IncidentCount
}

// Valid reports whether the zone satisfies its record invariants:
// known risk level and a non-negative incident count.
func (z *RiskZone) Valid() bool {
	if !IsValidRiskLevel(z.RiskLevel) {
		return false
	}
	if z.IncidentCount != nil && *z.IncidentCount < 0 {
		return false
	}
	return true
}
