// Package realtime pushes order status changes to browsers watching an order.
package realtime

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/imrishuroy/trynex-storefront/internal/models"
)

const writeWait = 10 * time.Second

// StatusUpdate is the message sent to trackers of an order.
type StatusUpdate struct {
	OrderID   string    `json:"orderId"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Hub keeps the open websocket connections per order code.
type Hub struct {
	mu       sync.Mutex
	clients  map[string]map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
}

// NewHub accepts any origin when allowedOrigins is empty or contains "*".
func NewHub(allowedOrigins []string) *Hub {
	allowAll := len(allowedOrigins) == 0
	allowed := map[string]bool{}
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}
	return &Hub{
		clients: map[string]map[*websocket.Conn]struct{}{},
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return allowAll || allowed[r.Header.Get("Origin")]
			},
		},
	}
}

// Loader returns the order's current state.
type Loader func(ctx context.Context) (*models.Order, error)

// Serve upgrades the request and registers the connection under orderCode
// until the client goes away. The first message is the order as loaded after
// registration, written before any broadcast can reach the connection.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, orderCode string, load Loader) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[realtime] upgrade: %v", err)
		return
	}
	defer conn.Close()

	if err := h.register(r.Context(), orderCode, conn, load); err != nil {
		log.Printf("[realtime] start tracking %s: %v", orderCode, err)
		return
	}
	defer h.remove(orderCode, conn)

	// reads only detect the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// register holds the hub lock across load and the first write so a status
// change broadcast meanwhile is delivered after it, never before.
func (h *Hub) register(ctx context.Context, code string, conn *websocket.Conn, load Loader) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[code] == nil {
		h.clients[code] = map[*websocket.Conn]struct{}{}
	}
	h.clients[code][conn] = struct{}{}

	current, err := load(ctx)
	if err == nil {
		err = writeLocked(conn, updateFor(current))
	}
	if err != nil {
		delete(h.clients[code], conn)
		if len(h.clients[code]) == 0 {
			delete(h.clients, code)
		}
	}
	return err
}

// Broadcast sends the order's status to everyone tracking it.
func (h *Hub) Broadcast(o *models.Order) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients[o.OrderCode]))
	for c := range h.clients[o.OrderCode] {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	msg := updateFor(o)
	for _, c := range conns {
		if err := h.write(c, msg); err != nil {
			log.Printf("[realtime] write to %s tracker: %v", o.OrderCode, err)
			h.remove(o.OrderCode, c)
			c.Close()
		}
	}
}

// Watchers returns how many connections track orderCode.
func (h *Hub) Watchers(orderCode string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[orderCode])
}

func (h *Hub) remove(code string, c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[code], c)
	if len(h.clients[code]) == 0 {
		delete(h.clients, code)
	}
}

// write serializes writers per hub; gorilla connections allow one writer.
func (h *Hub) write(c *websocket.Conn, msg StatusUpdate) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return writeLocked(c, msg)
}

func writeLocked(c *websocket.Conn, msg StatusUpdate) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_ = c.SetWriteDeadline(time.Now().Add(writeWait))
	return c.WriteMessage(websocket.TextMessage, data)
}

func updateFor(o *models.Order) StatusUpdate {
	return StatusUpdate{OrderID: o.OrderCode, Status: o.Status, UpdatedAt: o.UpdatedAt}
}
