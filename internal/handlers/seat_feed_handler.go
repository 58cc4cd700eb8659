package handlers

import (
	"strconv"
	"strings"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	seatws "github.com/najimahamed22/sportZoneAcademy-server/internal/websocket"
)

const localClassID = "class_id"

type SeatFeedHandler struct {
	hub *seatws.Hub
}

func NewSeatFeedHandler(hub *seatws.Hub) *SeatFeedHandler {
	return &SeatFeedHandler{hub: hub}
}

// Upgrade validates the subscription request before the websocket handshake.
func (h *SeatFeedHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return errorResponse(c, fiber.StatusUpgradeRequired, "websocket upgrade required")
	}

	classID, err := strconv.ParseInt(strings.TrimSpace(c.Query("class_id")), 10, 64)
	if err != nil || classID <= 0 {
		return errorResponse(c, fiber.StatusBadRequest, "invalid class id")
	}

	c.Locals(localClassID, classID)
	return c.Next()
}

func (h *SeatFeedHandler) HandleWebSocket(conn *websocket.Conn) {
	classID, _ := conn.Locals(localClassID).(int64)
	client := seatws.NewClient(h.hub, conn, classID)

	if !h.hub.Register(client) {
		_ = conn.Close()
		return
	}
	go client.WritePump()
	client.ReadPump()
}
