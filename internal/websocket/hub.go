package seatws

import (
	"context"
	"encoding/json"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
	"go.uber.org/zap"
)

// Hub fans seat counter changes out to the clients watching a class. All
// subscriber bookkeeping happens on the Run goroutine.
type Hub struct {
	clients map[int64]map[*Client]struct{}
	// last seat_bookings delivered per class
	latest     map[int64]int
	register   chan *Client
	unregister chan *Client
	broadcast  chan models.SeatInventory
	done       chan struct{}
	logger     *zap.Logger
	now        func() time.Time
}

// Client is one websocket subscriber of a class feed.
type Client struct {
	hub     *Hub
	conn    conn
	classID int64
	send    chan []byte
}

type conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type Message struct {
	Type           string `json:"type"`
	ClassID        int64  `json:"class_id"`
	AvailableSeats int    `json:"available_seats"`
	SeatBookings   int    `json:"seat_bookings"`
	Timestamp      string `json:"timestamp"`
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		latest:     make(map[int64]int),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan models.SeatInventory, 64),
		done:       make(chan struct{}),
		logger:     logger,
		now:        time.Now,
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, classID int64) *Client {
	return newClient(hub, conn, classID)
}

func newClient(hub *Hub, c conn, classID int64) *Client {
	return &Client{
		hub:     hub,
		conn:    c,
		classID: classID,
		send:    make(chan []byte, 16),
	}
}

// Run owns the subscriber maps until ctx is done, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for classID, set := range h.clients {
				for client := range set {
					close(client.send)
				}
				delete(h.clients, classID)
			}
			return
		case client := <-h.register:
			set, ok := h.clients[client.classID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.classID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			h.remove(client)
		case inventory := <-h.broadcast:
			h.deliver(inventory)
		}
	}
}

// Register subscribes client. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// PublishSeats queues a seat update without blocking the caller. Updates are
// dropped when the queue is full.
func (h *Hub) PublishSeats(inventory models.SeatInventory) {
	select {
	case h.broadcast <- inventory:
	default:
		h.logger.Warn("seat feed queue full, update dropped", zap.Int64("class_id", inventory.ClassID))
	}
}

func (h *Hub) remove(client *Client) {
	set, ok := h.clients[client.classID]
	if !ok {
		return
	}
	if _, exists := set[client]; exists {
		delete(set, client)
		close(client.send)
	}
	if len(set) == 0 {
		delete(h.clients, client.classID)
	}
}

// deliver sends inventory to the class subscribers. Reservations commit in
// parallel and may be published out of order; seat_bookings only grows, so an
// update that does not raise it is stale and skipped.
func (h *Hub) deliver(inventory models.SeatInventory) {
	if last, seen := h.latest[inventory.ClassID]; seen && inventory.SeatBookings <= last {
		h.logger.Debug("stale seat update skipped",
			zap.Int64("class_id", inventory.ClassID),
			zap.Int("seat_bookings", inventory.SeatBookings),
			zap.Int("latest", last),
		)
		return
	}
	h.latest[inventory.ClassID] = inventory.SeatBookings

	set, ok := h.clients[inventory.ClassID]
	if !ok {
		return
	}

	payload, err := json.Marshal(Message{
		Type:           "seats",
		ClassID:        inventory.ClassID,
		AvailableSeats: inventory.AvailableSeats,
		SeatBookings:   inventory.SeatBookings,
		Timestamp:      h.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		h.logger.Error("encode seat update", zap.Error(err))
		return
	}

	for client := range set {
		select {
		case client.send <- payload:
		default:
			// slow reader
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, inventory.ClassID)
	}
}

// ReadPump drains the connection until the peer goes away. Subscribers do not
// send anything meaningful; reading is only needed to notice the close.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
