// websocket/read_pump.go
package websocket

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

// readPump следит за обрывом соединения. Входящие сообщения панели игнорируются,
// чтение нужно для обработки pong и close кадров.
func (c *Client) readPump(manager *Manager) {
	defer func() {
		manager.Unregister(c)
		c.Socket.Close()
	}()

	c.Socket.SetReadLimit(maxMessageSize)
	c.Socket.SetReadDeadline(time.Now().Add(pongWait))
	c.Socket.SetPongHandler(func(string) error {
		c.Socket.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Socket.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Ошибка: %v", err)
			}
			return
		}
	}
}
