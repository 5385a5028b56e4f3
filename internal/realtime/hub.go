// Package realtime pushes order and payment changes to a seller's open browser tabs.
package realtime

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"seller-backend/internal/metrics"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	// sendBuffer is how many events a client may fall behind before it is dropped
	sendBuffer = 16
)

// Event is one change notification sent to clients
type Event struct {
	Kind     string    `json:"kind"`
	Payload  any       `json:"payload,omitempty"`
	At       time.Time `json:"at"`
	sellerID int
}

// client is one open tab. Only its write pump writes to conn.
type client struct {
	conn *websocket.Conn
	send chan Event
}

// Hub keeps websocket clients grouped by seller
type Hub struct {
	upgrader   websocket.Upgrader
	clients    map[int]map[*client]bool
	clientsMux sync.Mutex
	broadcast  chan Event
}

// NewHub creates a hub. checkOrigin may be nil to accept any origin.
func NewHub(checkOrigin func(r *http.Request) bool) *Hub {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Hub{
		upgrader:  websocket.Upgrader{CheckOrigin: checkOrigin},
		clients:   make(map[int]map[*client]bool),
		broadcast: make(chan Event, 64),
	}
}

// Run delivers published events until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case ev := <-h.broadcast:
			h.deliver(ev)
		}
	}
}

// Publish queues an event for a seller's clients. Events are dropped when the
// queue is full; clients re-fetch on reconnect anyway.
func (h *Hub) Publish(sellerID int, kind string, payload any) {
	ev := Event{Kind: kind, Payload: payload, At: time.Now(), sellerID: sellerID}
	select {
	case h.broadcast <- ev:
	default:
		log.Printf("[Realtime] Queue full, dropped %s for seller %d", kind, sellerID)
	}
}

// Serve upgrades the request and registers the connection under sellerID. It
// blocks until the client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, sellerID int) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("[Realtime] WebSocket upgrade error:", err)
		return
	}
	c := &client{conn: conn, send: make(chan Event, sendBuffer)}
	h.add(sellerID, c)
	defer h.remove(sellerID, c)
	go c.writePump()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Clients only listen; reading drives pong handling and detects close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// ClientCount returns the number of open connections for a seller
func (h *Hub) ClientCount(sellerID int) int {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	return len(h.clients[sellerID])
}

// writePump sends queued events and pings until the send channel is closed
// or a write fails
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case ev, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) add(sellerID int, c *client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	if h.clients[sellerID] == nil {
		h.clients[sellerID] = make(map[*client]bool)
	}
	h.clients[sellerID][c] = true
	metrics.RealtimeClients.Inc()
}

func (h *Hub) remove(sellerID int, c *client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	h.dropLocked(sellerID, c)
}

// dropLocked forgets c and closes its send channel, which stops its write pump.
// The caller holds clientsMux.
func (h *Hub) dropLocked(sellerID int, c *client) {
	clients := h.clients[sellerID]
	if !clients[c] {
		return
	}
	close(c.send)
	delete(clients, c)
	if len(clients) == 0 {
		delete(h.clients, sellerID)
	}
	metrics.RealtimeClients.Dec()
}

// deliver queues ev for each of the seller's clients without blocking. A client
// whose queue is full is dropped; it re-fetches when it reconnects.
func (h *Hub) deliver(ev Event) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	for c := range h.clients[ev.sellerID] {
		select {
		case c.send <- ev:
		default:
			log.Printf("[Realtime] Client of seller %d is too slow, disconnecting", ev.sellerID)
			h.dropLocked(ev.sellerID, c)
		}
	}
}

func (h *Hub) closeAll() {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	for sellerID, clients := range h.clients {
		for c := range clients {
			h.dropLocked(sellerID, c)
		}
	}
}
