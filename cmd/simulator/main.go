// Demo fleet generator. Seeds the record store with drivers' safety data
// and publishes synthetic panic alerts and location pings over MQTT so the
// dashboard has something to show. Test fixture only; no aggregation logic
// lives here.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/saferoute-dashboard/internal/db"
	"github.com/ukydev/saferoute-dashboard/internal/ingest"
	"github.com/ukydev/saferoute-dashboard/internal/models"
)

// Depot locations for realistic routes
var depots = []struct{ lat, lng float64 }{
	{-26.2041, 28.0473}, // Johannesburg
	{-33.9249, 18.4241}, // Cape Town
	{-29.8587, 31.0218}, // Durban
	{-25.7479, 28.2293}, // Pretoria
	{-33.0153, 27.9116}, // East London
}

type driverState struct {
	id     string
	lat    float64
	lng    float64
	status string
}

func jitter(base, meters float64) float64 {
	return base + (rand.Float64()*2-1)*(meters/111320.0)
}

func seedRecords(store *db.Store, drivers []*driverState) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	levels := []models.RiskLevel{models.RiskLow, models.RiskMedium, models.RiskHigh, models.RiskCritical}
	for i := 0; i < 8; i++ {
		count := rand.Intn(20)
		zone := models.RiskZone{
			RiskLevel:     levels[rand.Intn(len(levels))],
			Boundary:      fmt.Sprintf("zone-%d", i+1),
			IncidentCount: &count,
		}
		if err := store.RiskZones.InsertRiskZone(ctx, zone); err != nil {
			return err
		}
	}

	statuses := []models.DeliveryStatus{models.DeliveryPending, models.DeliveryInProgress, models.DeliveryCompleted}
	for _, d := range drivers {
		score := models.SafetyScore{
			DriverID:   d.id,
			Score:      60 + rand.Float64()*40,
			ComputedAt: time.Now().AddDate(0, 0, -rand.Intn(7)),
		}
		if err := store.Scores.InsertScore(ctx, score); err != nil {
			return err
		}

		for i := 0; i < 3; i++ {
			status := statuses[rand.Intn(len(statuses))]
			delivery := models.Delivery{
				DriverID:  d.id,
				RiskLevel: levels[rand.Intn(len(levels))],
				Status:    status,
				CreatedAt: time.Now().AddDate(0, 0, -rand.Intn(7)),
			}
			if status == models.DeliveryCompleted {
				completed := delivery.CreatedAt.Add(time.Hour)
				delivery.CompletedAt = &completed
			}
			if err := store.Deliveries.InsertDelivery(ctx, delivery); err != nil {
				return err
			}
		}
	}
	return nil
}

func publishJSON(client mqtt.Client, topic string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.WithError(err).Error("Failed to marshal message")
		return
	}
	if token := client.Publish(topic, 1, false, data); token.Wait() && token.Error() != nil {
		log.WithError(token.Error()).WithField("topic", topic).Error("Failed to publish")
	}
}

func simulateDriver(client mqtt.Client, d *driverState, interval time.Duration) {
	alertTypes := []models.AlertType{models.AlertPanic, models.AlertHijack, models.AlertMedical, models.AlertAccident}
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for range tick.C {
		d.lat = jitter(d.lat, 500)
		d.lng = jitter(d.lng, 500)
		publishJSON(client, ingest.TopicLocations, models.DriverLocation{
			DriverID: d.id, Lat: d.lat, Lng: d.lng,
		})

		// rare panic events
		if rand.Intn(100) < 2 {
			publishJSON(client, ingest.TopicAlerts, map[string]string{
				"driver_id": d.id,
				"type":      string(alertTypes[rand.Intn(len(alertTypes))]),
			})
			log.WithField("driver_id", d.id).Info("Published panic alert")
		}

		if rand.Intn(100) < 5 {
			next := []string{"on_route", "idle", "delivering"}[rand.Intn(3)]
			if next != d.status {
				d.status = next
				publishJSON(client, ingest.TopicStatus, models.DriverStatus{DriverID: d.id, Status: next})
			}
		}
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment")
	}

	fleetSize := 10
	if val := os.Getenv("FLEET_SIZE"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			fleetSize = n
		}
	}

	interval := 2 * time.Second
	if v := os.Getenv("SIM_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			interval = time.Duration(n) * time.Second
		}
	}

	broker := os.Getenv("MQTT_BROKER")
	if broker == "" {
		broker = "tcp://localhost:1883"
	}

	log.WithFields(log.Fields{
		"fleet_size": fleetSize,
		"broker":     broker,
		"interval":   interval,
	}).Info("Starting fleet simulation")

	drivers := make([]*driverState, 0, fleetSize)
	for i := 0; i < fleetSize; i++ {
		depot := depots[rand.Intn(len(depots))]
		drivers = append(drivers, &driverState{
			id:     fmt.Sprintf("driver-%03d", i+1),
			lat:    jitter(depot.lat, 2000),
			lng:    jitter(depot.lng, 2000),
			status: "idle",
		})
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	dbName := os.Getenv("MONGO_DATABASE")
	if dbName == "" {
		dbName = "saferoute"
	}
	store := db.NewMongoStore(client.Database(dbName))
	if err := seedRecords(store, drivers); err != nil {
		log.WithError(err).Fatal("Failed to seed records")
	}
	log.WithField("drivers", len(drivers)).Info("Seeded record store")

	opts := mqtt.NewClientOptions().AddBroker(broker).SetClientID("saferoute-simulator")
	mqttClient := mqtt.NewClient(opts)
	if token := mqttClient.Connect(); token.Wait() && token.Error() != nil {
		log.WithError(token.Error()).Fatal("Failed to connect to MQTT broker")
	}
	defer mqttClient.Disconnect(250)

	for _, d := range drivers {
		go simulateDriver(mqttClient, d, interval)
	}

	log.Info("Telemetry simulation started")
	select {} // Block forever
}
