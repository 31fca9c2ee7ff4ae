// Package ingest bridges field telemetry arriving over MQTT into the
// dashboard: panic alerts are persisted and broadcast, location pings and
// driver status changes are fanned out as fire-and-forget events.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/saferoute-dashboard/internal/dashboard"
	"github.com/ukydev/saferoute-dashboard/internal/db"
	"github.com/ukydev/saferoute-dashboard/internal/models"
)

const (
	TopicAlerts    = "saferoute/alerts"
	TopicLocations = "saferoute/locations"
	TopicStatus    = "saferoute/status"
)

// Triggerer requests an immediate aggregation cycle. Satisfied by
// dashboard.Refresher.
type Triggerer interface {
	Trigger()
}

// alertMessage is the wire shape of a panic button press.
type alertMessage struct {
	DriverID string           `json:"driver_id"`
	Type     models.AlertType `json:"type"`
}

// Bridge subscribes to the field topics and translates messages into store
// writes and hub events.
type Bridge struct {
	client    mqtt.Client
	alerts    db.AlertCollection
	publisher dashboard.Publisher
	refresher Triggerer
	timeout   time.Duration
}

// NewBridge creates a bridge over an already configured MQTT client.
func NewBridge(client mqtt.Client, alerts db.AlertCollection, publisher dashboard.Publisher, refresher Triggerer) *Bridge {
	return &Bridge{
		client:    client,
		alerts:    alerts,
		publisher: publisher,
		refresher: refresher,
		timeout:   5 * time.Second,
	}
}

// Connect dials the broker and subscribes to the field topics.
func Connect(broker string, alerts db.AlertCollection, publisher dashboard.Publisher, refresher Triggerer) (*Bridge, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("saferoute-dashboard").
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}

	b := NewBridge(client, alerts, publisher, refresher)
	if err := b.subscribe(); err != nil {
		client.Disconnect(250)
		return nil, err
	}
	log.WithField("broker", broker).Info("Ingest bridge connected")
	return b, nil
}

func (b *Bridge) subscribe() error {
	subs := map[string]mqtt.MessageHandler{
		TopicAlerts:    func(_ mqtt.Client, m mqtt.Message) { b.HandleAlert(m.Payload()) },
		TopicLocations: func(_ mqtt.Client, m mqtt.Message) { b.HandleLocation(m.Payload()) },
		TopicStatus:    func(_ mqtt.Client, m mqtt.Message) { b.HandleStatus(m.Payload()) },
	}
	for topic, handler := range subs {
		if token := b.client.Subscribe(topic, 1, handler); token.Wait() && token.Error() != nil {
			return fmt.Errorf("mqtt subscribe %s: %w", topic, token.Error())
		}
	}
	return nil
}

// Close disconnects from the broker.
func (b *Bridge) Close() {
	if b.client != nil {
		b.client.Disconnect(250)
	}
}

// HandleAlert persists a panic alert, broadcasts it and triggers a refresh
// cycle so KPI counts catch up promptly.
func (b *Bridge) HandleAlert(payload []byte) {
	var msg alertMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		log.WithError(err).Warn("Dropping malformed alert message")
		return
	}
	if msg.DriverID == "" || !models.IsValidAlertType(msg.Type) {
		log.WithFields(log.Fields{"driver_id": msg.DriverID, "type": msg.Type}).
			Warn("Dropping invalid alert message")
		return
	}

	alert := models.Alert{
		DriverID:  msg.DriverID,
		Type:      msg.Type,
		Status:    models.AlertActive,
		CreatedAt: time.Now(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	if err := b.alerts.InsertAlert(ctx, alert); err != nil {
		log.WithError(err).Error("Failed to persist panic alert")
		return
	}

	if b.publisher != nil {
		b.publisher.Publish(models.Event{Name: models.EventNewAlert, Payload: alert.Summary()})
	}
	if b.refresher != nil {
		b.refresher.Trigger()
	}
}

// HandleLocation fans a location ping out to viewers. Pings are telemetry,
// not records; they are never written to the store.
func (b *Bridge) HandleLocation(payload []byte) {
	var loc models.DriverLocation
	if err := json.Unmarshal(payload, &loc); err != nil {
		log.WithError(err).Warn("Dropping malformed location message")
		return
	}
	if loc.DriverID == "" {
		return
	}
	if b.publisher != nil {
		b.publisher.Publish(models.Event{Name: models.EventDriverLocation, Payload: loc})
	}
}

// HandleStatus fans a driver status change out to viewers.
func (b *Bridge) HandleStatus(payload []byte) {
	var status models.DriverStatus
	if err := json.Unmarshal(payload, &status); err != nil {
		log.WithError(err).Warn("Dropping malformed status message")
		return
	}
	if status.DriverID == "" {
		return
	}
	if b.publisher != nil {
		b.publisher.Publish(models.Event{Name: models.EventDriverStatus, Payload: status})
	}
}
