package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AlertType classifies the kind of emergency a driver raised.
type AlertType string

const (
	AlertPanic    AlertType = "panic"
	AlertHijack   AlertType = "hijack"
	AlertMedical  AlertType = "medical"
	AlertAccident AlertType = "accident"
)

// AlertStatus tracks the dispatcher-facing lifecycle of an alert.
type AlertStatus string

const (
	AlertActive       AlertStatus = "active"
	AlertAcknowledged AlertStatus = "acknowledged"
	AlertResolved     AlertStatus = "resolved"
)

// Alert represents a panic alert raised by a driver in the field.
type Alert struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DriverID       string             `bson:"driver_id" json:"driver_id"`
	Type           AlertType          `bson:"type" json:"type"`
	Status         AlertStatus        `bson:"status" json:"status"`
	AcknowledgedBy string             `bson:"acknowledged_by,omitempty" json:"acknowledged_by,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	ResolvedAt     *time.Time         `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
}

// IsValidAlertType checks if an alert type is one of the known kinds.
func IsValidAlertType(t AlertType) bool {
	switch t {
	case AlertPanic, AlertHijack, AlertMedical, AlertAccident:
		return true
	default:
		return false
	}
}

// IsValidAlertStatus checks if an alert status is valid.
func IsValidAlertStatus(s AlertStatus) bool {
	switch s {
	case AlertActive, AlertAcknowledged, AlertResolved:
		return true
	default:
		return false
	}
}

// Valid reports whether the alert satisfies its record invariants:
// known type and status, and ResolvedAt never before CreatedAt.
func (a *Alert) Valid() bool {
	if !IsValidAlertType(a.Type) || !IsValidAlertStatus(a.Status) {
		return false
	}
	if a.ResolvedAt != nil && a.ResolvedAt.Before(a.CreatedAt) {
		return false
	}
	return true
}

// AlertSummary is the trimmed alert shape pushed to dashboard viewers.
type AlertSummary struct {
	ID        string      `json:"id"`
	DriverID  string      `json:"driver_id"`
	Type      AlertType   `json:"type"`
	Status    AlertStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// Summary converts an alert into its viewer-facing form.
func (a *Alert) Summary() AlertSummary {
	return AlertSummary{
		ID:        a.ID.Hex(),
		DriverID:  a.DriverID,
		Type:      a.Type,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
	}
}
