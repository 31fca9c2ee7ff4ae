package hub

import (
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/saferoute-dashboard/internal/models"
)

// ConnState is the lifecycle state of a viewer connection.
type ConnState int

const (
	StateConnecting ConnState = iota
	StateActive
	StateDisconnected
)

// writeTimeout bounds a single event write; a viewer that cannot accept a
// frame within it is treated as disconnected.
const writeTimeout = 10 * time.Second

// sendBuffer is the per-viewer outbound queue depth. A publisher that
// outpaces a viewer past this depth loses events for that viewer only.
const sendBuffer = 64

// Socket is the transport a viewer connection writes to. Implemented by
// *websocket.Conn; tests substitute in-memory fakes.
type Socket interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Conn is one viewer connection, owned exclusively by the Hub.
type Conn struct {
	ID     uuid.UUID
	socket Socket
	send   chan models.Event
	hub    *Hub

	mu     sync.Mutex
	state  ConnState
	closed bool
}

func newConn(socket Socket, h *Hub) *Conn {
	return &Conn{
		ID:     uuid.New(),
		socket: socket,
		send:   make(chan models.Event, sendBuffer),
		state:  StateConnecting,
		hub:    h,
	}
}

// State returns the connection's lifecycle state.
func (c *Conn) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Conn) setState(s ConnState) {
	c.mu.Lock()
	if !c.closed {
		c.state = s
	}
	c.mu.Unlock()
}

// enqueue queues an event for delivery without ever blocking the caller.
// Returns false when the event was dropped (queue full or connection
// already closed).
func (c *Conn) enqueue(event models.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- event:
		return true
	default:
		return false
	}
}

// close shuts the outbound queue exactly once. Once closed, no further
// enqueue can reach the channel.
func (c *Conn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.state = StateDisconnected
	close(c.send)
}

// writePump drains the outbound queue onto the socket. A failed write is an
// implicit disconnect of this viewer only; it never reaches the publisher.
func (c *Conn) writePump() {
	defer c.socket.Close()
	for event := range c.send {
		if err := c.socket.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			c.hub.Unregister(c.ID)
			return
		}
		if err := c.socket.WriteJSON(event); err != nil {
			log.WithError(err).WithField("conn_id", c.ID.String()).
				Warn("Viewer delivery failed, disconnecting")
			c.hub.Unregister(c.ID)
			return
		}
	}
}
