package models

import "time"

// KpiBlock is the scalar fleet-health summary computed per aggregation cycle.
type KpiBlock struct {
	ActiveDrivers      int     `json:"active_drivers"`
	OpenAlerts         int     `json:"open_alerts"`
	AverageSafetyScore float64 `json:"average_safety_score"`
	HighRiskZones      int     `json:"high_risk_zones"`
	// ScoreCount lets callers distinguish "no score data" from a genuine
	// average equal to the empty-set default.
	ScoreCount int `json:"score_count"`
}

// TrendPoint is one bucket of a fixed-length, gap-filled daily series.
type TrendPoint struct {
	Label     string         `json:"label"`
	Date      time.Time      `json:"date"`
	Value     float64        `json:"value"`
	Breakdown map[string]int `json:"breakdown,omitempty"`
}

// RiskDistributionRow groups risk zones sharing one risk level.
type RiskDistributionRow struct {
	Level     RiskLevel `json:"level"`
	Zones     int       `json:"zones"`
	Incidents int       `json:"incidents"`
}

// DashboardSnapshot is the complete aggregation result at one point in
// time. It is always constructed whole from a single store read and
// replaced wholesale, never patched field by field.
type DashboardSnapshot struct {
	Kpi              KpiBlock              `json:"kpi"`
	AlertTrend       []TrendPoint          `json:"alert_trend"`
	DeliveryTrend    []TrendPoint          `json:"delivery_trend"`
	ScoreTrend       []TrendPoint          `json:"score_trend"`
	RiskDistribution []RiskDistributionRow `json:"risk_distribution"`
	GeneratedAt      time.Time             `json:"generated_at"`
}
