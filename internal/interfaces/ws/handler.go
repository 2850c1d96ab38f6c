package ws

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// RequireUpgrade rechaza con 426 las peticiones que no son upgrade WebSocket.
func RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.SendStatus(fiber.StatusUpgradeRequired)
}

// Handler suscribe la conexión al hub y la mantiene viva hasta que el cliente se va.
func Handler(h *Hub) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		h.Register(c)
		defer func() {
			h.Unregister(c)
			_ = c.Close()
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	})
}
