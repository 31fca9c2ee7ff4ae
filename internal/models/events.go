package models

import "time"

// Event names pushed over the real-time channel.
const (
	EventSnapshot       = "snapshot"
	EventDriverLocation = "driverLocationUpdated"
	EventDriverStatus   = "driverStatusUpdated"
	EventNewAlert       = "newAlert"
	EventMetricUpdated  = "metricUpdated"
	EventSystemStatus   = "systemStatusUpdated"
)

// Event is a named, typed message delivered to dashboard viewers.
type Event struct {
	Name    string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// DriverLocation is the payload of a driverLocationUpdated event.
type DriverLocation struct {
	DriverID string  `json:"driver_id"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// DriverStatus is the payload of a driverStatusUpdated event.
type DriverStatus struct {
	DriverID string `json:"driver_id"`
	Status   string `json:"status"`
}

// MetricUpdate is the payload of a metricUpdated event.
type MetricUpdate struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

// SystemStatus is the payload of a systemStatusUpdated event.
type SystemStatus struct {
	Status     string    `json:"status"`
	LastUpdate time.Time `json:"last_update"`
}
