package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeliveryStatus tracks a delivery from dispatch to completion.
type DeliveryStatus string

const (
	DeliveryPending    DeliveryStatus = "pending"
	DeliveryInProgress DeliveryStatus = "in_progress"
	DeliveryCompleted  DeliveryStatus = "completed"
)

// Delivery represents a scheduled or completed delivery run.
type Delivery struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DriverID    string             `bson:"driver_id" json:"driver_id"`
	RiskLevel   RiskLevel          `bson:"risk_level" json:"risk_level"`
	Status      DeliveryStatus     `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	CompletedAt *time.Time         `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// IsValidDeliveryStatus checks if a delivery status is valid.
func IsValidDeliveryStatus(s DeliveryStatus) bool {
	switch s {
	case DeliveryPending, DeliveryInProgress, DeliveryCompleted:
		return true
	default:
		return false
	}
}

// Valid reports whether the delivery satisfies its record invariants:
// CompletedAt is only present on completed deliveries.
func (d *Delivery) Valid() bool {
	if !IsValidDeliveryStatus(d.Status) {
		return false
	}
	if d.CompletedAt != nil && d.Status != DeliveryCompleted {
		return false
	}
	return true
}
