package dashboard

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/saferoute-dashboard/internal/models"
)

// Publisher fans events out to connected viewers. Satisfied by hub.Hub.
type Publisher interface {
	Publish(event models.Event)
}

// Refresher drives periodic aggregation cycles and keeps the last-known-good
// snapshot. A failed cycle never overwrites the previous snapshot and is
// reported to the log, not to viewers.
type Refresher struct {
	source    SnapshotSource
	publisher Publisher
	interval  time.Duration
	timeout   time.Duration

	mu      sync.RWMutex
	last    *models.DashboardSnapshot
	trigger chan struct{}
}

// NewRefresher creates a refresher. interval is the cycle period, timeout
// bounds each cycle's store read.
func NewRefresher(source SnapshotSource, publisher Publisher, interval, timeout time.Duration) *Refresher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Refresher{
		source:    source,
		publisher: publisher,
		interval:  interval,
		timeout:   timeout,
		trigger:   make(chan struct{}, 1),
	}
}

// Last returns the last successfully computed snapshot, or nil before the
// first successful cycle.
func (r *Refresher) Last() *models.DashboardSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// Trigger requests an immediate cycle without waiting for the next tick.
// Coalesces if a trigger is already pending.
func (r *Refresher) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// Run executes aggregation cycles until ctx is cancelled. The first cycle
// runs immediately so viewers get a baseline without waiting one interval.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.cycle(ctx)
		case <-r.trigger:
			r.cycle(ctx)
		}
	}
}

// cycle runs one read-aggregate-publish pass.
func (r *Refresher) cycle(ctx context.Context) {
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	snapshot, err := r.source.Snapshot(cctx)
	if err != nil {
		// last-known-good stays in place, viewers see no update
		log.WithError(err).Error("Aggregation cycle failed")
		return
	}

	r.mu.Lock()
	r.last = snapshot
	r.mu.Unlock()

	if r.publisher != nil {
		r.publisher.Publish(models.Event{Name: models.EventSnapshot, Payload: snapshot})
		r.publisher.Publish(models.Event{
			Name: models.EventSystemStatus,
			Payload: models.SystemStatus{
				Status:     "online",
				LastUpdate: snapshot.GeneratedAt,
			},
		})
	}
}
