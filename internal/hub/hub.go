// Package hub implements the real-time broadcast channel: a registry of
// viewer connections and best-effort, at-most-once fan-out of dashboard
// events to all of them.
package hub

import (
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/saferoute-dashboard/internal/models"
)

// BaselineFunc supplies the current snapshot sent to a viewer on connect as
// its resync baseline. May return nil before the first aggregation cycle.
type BaselineFunc func() *models.DashboardSnapshot

// Hub owns the set of active viewer connections. Only the hub mutates the
// set; publishers and diagnostics only read it.
type Hub struct {
	mu       sync.RWMutex
	conns    map[uuid.UUID]*Conn
	baseline BaselineFunc
}

// New creates a hub. baseline may be nil if no resync snapshot is wanted.
func New(baseline BaselineFunc) *Hub {
	return &Hub{
		conns:    make(map[uuid.UUID]*Conn),
		baseline: baseline,
	}
}

// SetBaseline installs the resync snapshot provider. Used when the provider
// is constructed after the hub (the refresher needs the hub as publisher).
func (h *Hub) SetBaseline(baseline BaselineFunc) {
	h.mu.Lock()
	h.baseline = baseline
	h.mu.Unlock()
}

// Register completes a viewer handshake: the current snapshot is queued
// first, then the connection joins the fan-out set, so the viewer always
// sees a snapshot event before any incremental event.
func (h *Hub) Register(socket Socket) *Conn {
	conn := newConn(socket, h)

	h.mu.Lock()
	if h.baseline != nil {
		if snapshot := h.baseline(); snapshot != nil {
			conn.enqueue(models.Event{Name: models.EventSnapshot, Payload: snapshot})
		}
	}
	h.conns[conn.ID] = conn
	h.mu.Unlock()

	conn.setState(StateActive)
	go conn.writePump()

	log.WithField("conn_id", conn.ID.String()).Info("Viewer connected")
	return conn
}

// Unregister removes a viewer from the fan-out set and releases its
// resources. Safe to call more than once and from any goroutine.
func (h *Hub) Unregister(id uuid.UUID) {
	h.mu.Lock()
	conn, ok := h.conns[id]
	if ok {
		delete(h.conns, id)
	}
	h.mu.Unlock()

	if !ok {
		return
	}
	conn.close()
	log.WithField("conn_id", id.String()).Info("Viewer disconnected")
}

// Publish fans an event out to every active viewer. Delivery is best-effort
// and at-most-once: a viewer whose queue is full simply misses the event,
// and no viewer's consumption blocks another's.
func (h *Hub) Publish(event models.Event) {
	h.mu.RLock()
	targets := make([]*Conn, 0, len(h.conns))
	for _, conn := range h.conns {
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	for _, conn := range targets {
		if !conn.enqueue(event) {
			log.WithFields(log.Fields{"conn_id": conn.ID.String(), "event": event.Name}).
				Debug("Viewer queue full, event dropped")
		}
	}
}

// Count reports the number of connected viewers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
