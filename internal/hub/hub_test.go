package hub

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/saferoute-dashboard/internal/models"
)

// fakeSocket records written events in memory. failAfter > 0 makes the
// socket start failing writes after that many successes.
type fakeSocket struct {
	mu        sync.Mutex
	written   []models.Event
	failAfter int
	closed    bool
}

func (s *fakeSocket) WriteJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAfter > 0 && len(s.written) >= s.failAfter {
		return errors.New("broken pipe")
	}
	event, ok := v.(models.Event)
	if !ok {
		return errors.New("unexpected payload type")
	}
	s.written = append(s.written, event)
	return nil
}

func (s *fakeSocket) SetWriteDeadline(t time.Time) error { return nil }

func (s *fakeSocket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSocket) events() []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Event, len(s.written))
	copy(out, s.written)
	return out
}

func (s *fakeSocket) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func waitForEvents(t *testing.T, socket *fakeSocket, n int) []models.Event {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(socket.events()) >= n
	}, time.Second, 5*time.Millisecond)
	return socket.events()
}

func TestHub_Register(t *testing.T) {
	snapshot := &models.DashboardSnapshot{Kpi: models.KpiBlock{OpenAlerts: 2}}

	t.Run("new viewer receives the baseline snapshot first", func(t *testing.T) {
		h := New(func() *models.DashboardSnapshot { return snapshot })
		socket := &fakeSocket{}

		h.Register(socket)
		h.Publish(models.Event{Name: models.EventNewAlert})

		events := waitForEvents(t, socket, 2)
		assert.Equal(t, models.EventSnapshot, events[0].Name)
		assert.Equal(t, snapshot, events[0].Payload)
		assert.Equal(t, models.EventNewAlert, events[1].Name)
	})

	t.Run("nil baseline sends no snapshot", func(t *testing.T) {
		h := New(func() *models.DashboardSnapshot { return nil })
		socket := &fakeSocket{}

		h.Register(socket)
		h.Publish(models.Event{Name: models.EventNewAlert})

		events := waitForEvents(t, socket, 1)
		assert.Equal(t, models.EventNewAlert, events[0].Name)
	})

	t.Run("count tracks registrations", func(t *testing.T) {
		h := New(nil)
		assert.Equal(t, 0, h.Count())

		conn := h.Register(&fakeSocket{})
		assert.Equal(t, 1, h.Count())

		h.Unregister(conn.ID)
		assert.Equal(t, 0, h.Count())
	})
}

func TestHub_Publish(t *testing.T) {
	t.Run("fans out to every connected viewer", func(t *testing.T) {
		h := New(nil)
		first := &fakeSocket{}
		second := &fakeSocket{}
		h.Register(first)
		h.Register(second)

		h.Publish(models.Event{Name: models.EventMetricUpdated})

		assert.Equal(t, models.EventMetricUpdated, waitForEvents(t, first, 1)[0].Name)
		assert.Equal(t, models.EventMetricUpdated, waitForEvents(t, second, 1)[0].Name)
	})

	t.Run("one viewer failing does not starve the others", func(t *testing.T) {
		h := New(nil)
		broken := &fakeSocket{failAfter: 1}
		healthy := &fakeSocket{}
		brokenConn := h.Register(broken)
		h.Register(healthy)

		h.Publish(models.Event{Name: models.EventMetricUpdated})
		h.Publish(models.Event{Name: models.EventNewAlert})

		events := waitForEvents(t, healthy, 2)
		assert.Equal(t, models.EventNewAlert, events[1].Name)

		require.Eventually(t, func() bool {
			return h.Count() == 1
		}, time.Second, 5*time.Millisecond)
		assert.True(t, broken.isClosed())
		assert.Equal(t, StateDisconnected, brokenConn.State())
	})

	t.Run("publish after unregister is a no-op for that viewer", func(t *testing.T) {
		h := New(nil)
		socket := &fakeSocket{}
		conn := h.Register(socket)

		h.Unregister(conn.ID)
		h.Publish(models.Event{Name: models.EventNewAlert})

		require.Eventually(t, socket.isClosed, time.Second, 5*time.Millisecond)
		for _, event := range socket.events() {
			assert.NotEqual(t, models.EventNewAlert, event.Name)
		}
	})

	t.Run("unregister is idempotent", func(t *testing.T) {
		h := New(nil)
		conn := h.Register(&fakeSocket{})

		h.Unregister(conn.ID)
		h.Unregister(conn.ID)
		assert.Equal(t, 0, h.Count())
	})
}

func TestConn_Enqueue(t *testing.T) {
	t.Run("drops events past the queue depth", func(t *testing.T) {
		conn := newConn(&fakeSocket{}, New(nil))
		// no writePump running, so the queue only fills

		for i := 0; i < sendBuffer; i++ {
			assert.True(t, conn.enqueue(models.Event{Name: models.EventMetricUpdated}))
		}
		assert.False(t, conn.enqueue(models.Event{Name: models.EventMetricUpdated}))
	})

	t.Run("enqueue after close is rejected", func(t *testing.T) {
		conn := newConn(&fakeSocket{}, New(nil))
		conn.close()
		assert.False(t, conn.enqueue(models.Event{Name: models.EventMetricUpdated}))
	})
}
