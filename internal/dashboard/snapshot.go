package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ukydev/saferoute-dashboard/internal/db"
	"github.com/ukydev/saferoute-dashboard/internal/models"
)

// ErrStoreUnavailable signals that a record store read failed or timed out.
// The current aggregation cycle is aborted and the previous snapshot stays
// the last-known-good.
var ErrStoreUnavailable = errors.New("record store unavailable")

// TrendKind selects which record kind a trend series is built from.
type TrendKind string

const (
	TrendAlerts     TrendKind = "alerts"
	TrendDeliveries TrendKind = "deliveries"
	TrendScores     TrendKind = "scores"
)

// IsValidTrendKind checks if a trend kind is known.
func IsValidTrendKind(k TrendKind) bool {
	switch k {
	case TrendAlerts, TrendDeliveries, TrendScores:
		return true
	default:
		return false
	}
}

// Config carries the aggregation knobs.
type Config struct {
	// TrendDays is the default trend span. Defaults to 7.
	TrendDays int
	// EmptyScoreDefault is reported as the average safety score when no
	// score records exist. The production fleet historically ran with 82.0;
	// this deployment pins 0.0 unless overridden.
	EmptyScoreDefault float64
}

// DefaultConfig returns the standard aggregation configuration.
func DefaultConfig() Config {
	return Config{TrendDays: 7, EmptyScoreDefault: 0.0}
}

// SnapshotSource is the capability interface the HTTP surface and the
// refresher consume. One concrete implementation is backed by the store
// gateway; tests substitute deterministic doubles.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*models.DashboardSnapshot, error)
	Kpi(ctx context.Context) (*models.KpiBlock, error)
	Trend(ctx context.Context, kind TrendKind, days int) ([]models.TrendPoint, error)
}

// StoreSource composes the KPI aggregator, trend builder and risk
// distribution calculator over one logically consistent store read.
type StoreSource struct {
	store *db.Store
	cfg   Config
	now   func() time.Time
}

// NewStoreSource creates a snapshot source backed by the record store.
func NewStoreSource(store *db.Store, cfg Config) *StoreSource {
	if cfg.TrendDays < 1 {
		cfg.TrendDays = DefaultConfig().TrendDays
	}
	return &StoreSource{store: store, cfg: cfg, now: time.Now}
}

// recordSet is the result of a single read pass over all four collections.
// Every aggregate of one snapshot is computed from the same recordSet, so a
// snapshot never mixes values from different read instants.
type recordSet struct {
	alerts     []models.Alert
	scores     []models.SafetyScore
	deliveries []models.Delivery
	zones      []models.RiskZone
	readAt     time.Time
}

// readAll performs the cycle's single read pass. Any failed query aborts
// the whole pass; partial data never reaches the aggregators.
func (s *StoreSource) readAll(ctx context.Context) (*recordSet, error) {
	set := &recordSet{readAt: s.now()}
	var err error

	if set.alerts, err = s.store.Alerts.FindAlerts(ctx, nil, nil); err != nil {
		return nil, fmt.Errorf("%w: alerts: %v", ErrStoreUnavailable, err)
	}
	if set.scores, err = s.store.Scores.FindScores(ctx, nil, nil); err != nil {
		return nil, fmt.Errorf("%w: scores: %v", ErrStoreUnavailable, err)
	}
	if set.deliveries, err = s.store.Deliveries.FindDeliveries(ctx, nil, nil); err != nil {
		return nil, fmt.Errorf("%w: deliveries: %v", ErrStoreUnavailable, err)
	}
	if set.zones, err = s.store.RiskZones.FindRiskZones(ctx); err != nil {
		return nil, fmt.Errorf("%w: risk zones: %v", ErrStoreUnavailable, err)
	}
	return set, nil
}

// Snapshot assembles a complete dashboard snapshot from one store read.
func (s *StoreSource) Snapshot(ctx context.Context) (*models.DashboardSnapshot, error) {
	set, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}
	return composeSnapshot(set, s.cfg), nil
}

// Kpi computes just the KPI block, still from its own consistent read.
func (s *StoreSource) Kpi(ctx context.Context) (*models.KpiBlock, error) {
	set, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}
	kpi := BuildKpiBlock(set.alerts, set.scores, set.deliveries, set.zones, s.cfg.EmptyScoreDefault)
	return &kpi, nil
}

// Trend builds one gap-filled series of the requested kind and span.
func (s *StoreSource) Trend(ctx context.Context, kind TrendKind, days int) ([]models.TrendPoint, error) {
	if days < 1 {
		days = s.cfg.TrendDays
	}
	end := s.now()

	switch kind {
	case TrendAlerts:
		alerts, err := s.store.Alerts.FindAlerts(ctx, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: alerts: %v", ErrStoreUnavailable, err)
		}
		return alertTrend(alerts, end, days), nil
	case TrendDeliveries:
		deliveries, err := s.store.Deliveries.FindDeliveries(ctx, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: deliveries: %v", ErrStoreUnavailable, err)
		}
		return deliveryTrend(deliveries, end, days), nil
	case TrendScores:
		scores, err := s.store.Scores.FindScores(ctx, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: scores: %v", ErrStoreUnavailable, err)
		}
		return scoreTrend(scores, end, days, s.cfg.EmptyScoreDefault), nil
	default:
		return nil, fmt.Errorf("unknown trend kind %q", kind)
	}
}

// composeSnapshot runs the three aggregators over one record set.
func composeSnapshot(set *recordSet, cfg Config) *models.DashboardSnapshot {
	return &models.DashboardSnapshot{
		Kpi:              BuildKpiBlock(set.alerts, set.scores, set.deliveries, set.zones, cfg.EmptyScoreDefault),
		AlertTrend:       alertTrend(set.alerts, set.readAt, cfg.TrendDays),
		DeliveryTrend:    deliveryTrend(set.deliveries, set.readAt, cfg.TrendDays),
		ScoreTrend:       scoreTrend(set.scores, set.readAt, cfg.TrendDays, cfg.EmptyScoreDefault),
		RiskDistribution: BuildRiskDistribution(set.zones),
		GeneratedAt:      set.readAt,
	}
}

func alertTrend(alerts []models.Alert, end time.Time, days int) []models.TrendPoint {
	samples := make([]CountSample, 0, len(alerts))
	for i := range alerts {
		if !alerts[i].Valid() {
			continue
		}
		samples = append(samples, CountSample{At: alerts[i].CreatedAt, Category: string(alerts[i].Type)})
	}
	return BuildCountTrend(samples, end, days)
}

func deliveryTrend(deliveries []models.Delivery, end time.Time, days int) []models.TrendPoint {
	samples := make([]CountSample, 0, len(deliveries))
	for i := range deliveries {
		if !deliveries[i].Valid() {
			continue
		}
		samples = append(samples, CountSample{At: deliveries[i].CreatedAt, Category: string(deliveries[i].Status)})
	}
	return BuildCountTrend(samples, end, days)
}

func scoreTrend(scores []models.SafetyScore, end time.Time, days int, emptyDefault float64) []models.TrendPoint {
	samples := make([]ValueSample, 0, len(scores))
	for i := range scores {
		if !scores[i].Valid() {
			continue
		}
		samples = append(samples, ValueSample{At: scores[i].ComputedAt, Value: scores[i].Score})
	}
	return BuildAverageTrend(samples, end, days, emptyDefault)
}
