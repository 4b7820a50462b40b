// ABOUTME: WebSocket feed that pushes theme changes to connected clients.
// ABOUTME: Lets companion tools (status bars, browser extensions) follow the active theme.

package feed

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeTimeout = 2 * time.Second

// PingInterval is how often the daemon pings idle feed clients.
const PingInterval = 30 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow connections from any origin
	},
}

// Event describes one theme switch.
type Event struct {
	Type string    `json:"type"`
	Old  string    `json:"old"`
	New  string    `json:"new"`
	At   time.Time `json:"at"`
}

// EventTypeThemeChanged is the Type of theme switch events.
const EventTypeThemeChanged = "themeChanged"

// client is one feed connection. Events broadcast before its greeting is
// written are queued and sent right after it.
type client struct {
	mu      sync.Mutex
	greeted bool
	pending []Event
}

// Hub tracks websocket clients and broadcasts events to them.
type Hub struct {
	secret  string
	clients map[*websocket.Conn]*client
	mu      sync.RWMutex
	current func() string
}

// NewHub creates a hub. An empty secret accepts any client. current, when
// non-nil, supplies the active theme sent to clients as they connect.
func NewHub(secret string, current func() string) *Hub {
	return &Hub{
		secret:  secret,
		clients: make(map[*websocket.Conn]*client),
		current: current,
	}
}

// checkAuth validates the Authorization header against the hub secret.
func (h *Hub) checkAuth(r *http.Request) bool {
	if h.secret == "" {
		return true
	}
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return false
	}
	return strings.TrimPrefix(auth, "Bearer ") == h.secret
}

// HandleWebSocket upgrades the request and registers the client.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !h.checkAuth(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	// Register before reading the current theme so no switch falls in between.
	c := &client{greeted: h.current == nil}
	h.mu.Lock()
	h.clients[conn] = c
	h.mu.Unlock()

	if h.current != nil {
		if err := h.greet(conn, c, h.current()); err != nil {
			log.Warn().Err(err).Msg("Failed to greet feed client")
			h.remove(conn)
			return
		}
	}
	log.Info().Int("clients", h.ClientCount()).Msg("Feed client connected")

	go h.readLoop(conn)
}

// greet writes the current theme, then anything queued while it was looked up.
func (h *Hub) greet(conn *websocket.Conn, c *client, current string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	events := append([]Event{{Type: EventTypeThemeChanged, New: current, At: time.Now()}}, c.pending...)
	c.pending = nil
	c.greeted = true
	for _, ev := range events {
		if err := writeEvent(conn, ev); err != nil {
			return err
		}
	}
	return nil
}

// readLoop discards client frames and unregisters the client on disconnect.
func (h *Hub) readLoop(conn *websocket.Conn) {
	defer func() {
		h.remove(conn)
		log.Info().Int("clients", h.ClientCount()).Msg("Feed client disconnected")
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// send writes ev, or queues it while the client still awaits its greeting.
func (h *Hub) send(conn *websocket.Conn, c *client, ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.greeted {
		c.pending = append(c.pending, ev)
		return nil
	}
	return writeEvent(conn, ev)
}

func writeEvent(conn *websocket.Conn, ev Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(ev)
}

// Broadcast sends ev to every client. Clients that fail to accept it are dropped.
func (h *Hub) Broadcast(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	h.mu.RLock()
	targets := make(map[*websocket.Conn]*client, len(h.clients))
	for conn, c := range h.clients {
		targets[conn] = c
	}
	h.mu.RUnlock()

	for conn, c := range targets {
		if err := h.send(conn, c, ev); err != nil {
			log.Warn().Err(err).Msg("Dropping feed client after failed write")
			h.remove(conn)
		}
	}
}

// Ping sends a websocket ping to every client and drops the ones that fail,
// so dead connections do not linger between theme changes.
func (h *Hub) Ping() {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
			log.Debug().Err(err).Msg("Dropping feed client after failed ping")
			h.remove(conn)
		}
	}
}

// ThemeChanged adapts the hub to a theme change subscriber.
func (h *Hub) ThemeChanged(oldName, newName string) {
	h.Broadcast(Event{Type: EventTypeThemeChanged, Old: oldName, New: newName})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
