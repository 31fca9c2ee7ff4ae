package db

import (
	"context"
	"testing"
	"time"

	"github.com/ukydev/saferoute-dashboard/internal/models"
)

func TestConnectMongo_BadURI(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://bad:uri")
	client, err := ConnectMongo()
	if err == nil {
		t.Error("expected error for bad URI, got nil")
	}
	if client != nil {
		t.Error("expected nil client on error")
	}
}

func TestCollections_NilGuard(t *testing.T) {
	ctx := context.Background()

	alerts := &MongoAlertCollection{Collection: nil}
	if err := alerts.InsertAlert(ctx, models.Alert{}); err == nil {
		t.Error("expected error when alert collection is nil")
	}
	if _, err := alerts.FindAlerts(ctx, nil, nil); err == nil {
		t.Error("expected error when alert collection is nil")
	}

	scores := &MongoScoreCollection{Collection: nil}
	if err := scores.InsertScore(ctx, models.SafetyScore{}); err == nil {
		t.Error("expected error when score collection is nil")
	}
	if _, err := scores.FindScores(ctx, nil, nil); err == nil {
		t.Error("expected error when score collection is nil")
	}

	deliveries := &MongoDeliveryCollection{Collection: nil}
	if err := deliveries.InsertDelivery(ctx, models.Delivery{}); err == nil {
		t.Error("expected error when delivery collection is nil")
	}
	if _, err := deliveries.FindDeliveries(ctx, nil, nil); err == nil {
		t.Error("expected error when delivery collection is nil")
	}

	zones := &MongoRiskZoneCollection{Collection: nil}
	if err := zones.InsertRiskZone(ctx, models.RiskZone{}); err == nil {
		t.Error("expected error when risk zone collection is nil")
	}
	if _, err := zones.FindRiskZones(ctx); err == nil {
		t.Error("expected error when risk zone collection is nil")
	}
}

// Integration test (requires running MongoDB)
func TestAlertCollection_RangeQuery_Integration(t *testing.T) {
	client, err := ConnectMongo()
	if err != nil {
		t.Skipf("failed to create client: %v, skipping integration test", err)
	}
	defer client.Disconnect(context.Background())

	collection := client.Database("test_saferoute").Collection("panic_alerts")
	collection.Drop(context.Background())

	alerts := &MongoAlertCollection{Collection: collection}
	base := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	for offset := 0; offset < 3; offset++ {
		alert := models.Alert{
			DriverID:  "driver-1",
			Type:      models.AlertPanic,
			Status:    models.AlertActive,
			CreatedAt: base.AddDate(0, 0, offset),
		}
		if err := alerts.InsertAlert(context.Background(), alert); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	// Open bounds return everything
	all, err := alerts.FindAlerts(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 alerts, got %d", len(all))
	}

	// Half-open [from, to) keeps the middle day only
	from := base.AddDate(0, 0, 1).Add(-time.Hour)
	to := base.AddDate(0, 0, 2).Add(-time.Hour)
	ranged, err := alerts.FindAlerts(context.Background(), &from, &to)
	if err != nil {
		t.Fatalf("ranged find failed: %v", err)
	}
	if len(ranged) != 1 {
		t.Errorf("expected 1 alert in range, got %d", len(ranged))
	}

	// Upper bound is exclusive
	exact := base.AddDate(0, 0, 2)
	upper, err := alerts.FindAlerts(context.Background(), &from, &exact)
	if err != nil {
		t.Fatalf("upper-bound find failed: %v", err)
	}
	if len(upper) != 1 {
		t.Errorf("expected the boundary alert to be excluded, got %d", len(upper))
	}
}

// Integration test (requires running MongoDB)
func TestInsertAlert_DefaultsCreatedAt_Integration(t *testing.T) {
	client, err := ConnectMongo()
	if err != nil {
		t.Skipf("failed to create client: %v, skipping integration test", err)
	}
	defer client.Disconnect(context.Background())

	collection := client.Database("test_saferoute").Collection("panic_alerts")
	collection.Drop(context.Background())

	alerts := &MongoAlertCollection{Collection: collection}
	alert := models.Alert{DriverID: "driver-1", Type: models.AlertPanic, Status: models.AlertActive}
	if err := alerts.InsertAlert(context.Background(), alert); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	found, err := alerts.FindAlerts(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(found))
	}
	if found[0].CreatedAt.IsZero() {
		t.Error("expected created_at to be defaulted on insert")
	}
}
