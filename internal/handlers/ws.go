package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/saferoute-dashboard/internal/auth"
	"github.com/ukydev/saferoute-dashboard/internal/hub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser dashboards connect cross-origin in dev setups
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WsHandler upgrades viewer connections and hands them to the hub.
type WsHandler struct {
	hub         *hub.Hub
	authService *auth.Service

	// pongWait is how long a viewer may stay silent before it is treated
	// as disconnected; pingPeriod must be shorter so a healthy viewer
	// always gets a ping to answer within the window.
	pongWait   time.Duration
	pingPeriod time.Duration
}

// NewWsHandler creates a new websocket handler
func NewWsHandler(h *hub.Hub, authService *auth.Service) *WsHandler {
	return &WsHandler{
		hub:         h,
		authService: authService,
		pongWait:    60 * time.Second,
		pingPeriod:  54 * time.Second,
	}
}

// Connect performs the viewer handshake. The token travels as a query
// parameter because browsers cannot set headers on websocket upgrades.
func (h *WsHandler) Connect(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if _, err := h.authService.ValidateToken(token); err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	socket, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	socket.SetReadDeadline(time.Now().Add(h.pongWait))
	socket.SetPongHandler(func(string) error {
		return socket.SetReadDeadline(time.Now().Add(h.pongWait))
	})

	conn := h.hub.Register(socket)
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(h.pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				deadline := time.Now().Add(h.pongWait / 2)
				if err := socket.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					return
				}
			}
		}
	}()

	// Read loop exists only to observe pongs and the close handshake;
	// viewers never send application messages upstream. A viewer that
	// answers no ping within pongWait hits the read deadline here.
	go func() {
		defer close(done)
		defer h.hub.Unregister(conn.ID)
		for {
			if _, _, err := socket.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
