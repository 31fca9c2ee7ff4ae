package db

import (
	"context"
	"time"

	"github.com/ukydev/saferoute-dashboard/internal/models"
)

// AlertCollection defines the interface for panic alert record operations.
type AlertCollection interface {
	InsertAlert(ctx context.Context, alert models.Alert) error
	// FindAlerts returns alerts whose created_at falls inside the optional
	// [from, to) range. Nil bounds are open.
	FindAlerts(ctx context.Context, from, to *time.Time) ([]models.Alert, error)
}

// ScoreCollection defines the interface for safety score record operations.
type ScoreCollection interface {
	InsertScore(ctx context.Context, score models.SafetyScore) error
	FindScores(ctx context.Context, from, to *time.Time) ([]models.SafetyScore, error)
}

// DeliveryCollection defines the interface for delivery record operations.
type DeliveryCollection interface {
	InsertDelivery(ctx context.Context, delivery models.Delivery) error
	FindDeliveries(ctx context.Context, from, to *time.Time) ([]models.Delivery, error)
}

// RiskZoneCollection defines the interface for risk zone record operations.
type RiskZoneCollection interface {
	InsertRiskZone(ctx context.Context, zone models.RiskZone) error
	FindRiskZones(ctx context.Context) ([]models.RiskZone, error)
}

// Store bundles the four record collections consumed by the aggregation
// core. Aggregation components receive it as a read-only handle per call;
// only the ingest bridge and the simulator write through it.
type Store struct {
	Alerts     AlertCollection
	Scores     ScoreCollection
	Deliveries DeliveryCollection
	RiskZones  RiskZoneCollection
}
