package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/logger"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/realtime"
)

// NotificationHandler streams realtime.Event refresh hints to the signed-in
// user over a websocket.
type NotificationHandler struct {
	Hub *realtime.Hub
}

func NewNotificationHandler(hub *realtime.Hub) *NotificationHandler {
	return &NotificationHandler{Hub: hub}
}

// RequireUpgrade rejects plain HTTP requests on the websocket route.
func (h *NotificationHandler) RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Stream expects Locals("userId") from AttachJWTLocals.
func (h *NotificationHandler) Stream() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		uidStr, _ := c.Locals("userId").(string)
		uid, err := uuid.Parse(uidStr)
		if err != nil {
			logger.Warn("websocket: missing user", "value", uidStr)
			_ = c.Close()
			return
		}

		logger.Debug("websocket connected", "user_id", uid)
		h.Hub.Serve(c, uid)
		logger.Debug("websocket disconnected", "user_id", uid)
	})
}
