// websocket/connection_handler.go
package websocket

import (
	"log"
	"net/http"

	"github.com/google/uuid"
)

// HandleConnections переводит запрос в WebSocket-соединение и подключает его к панели
func (manager *Manager) HandleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("❌ Ошибка при установке WebSocket-соединения:", err)
		return
	}

	client := &Client{
		ID:     uuid.NewString(),
		Socket: conn,
		Send:   make(chan []byte, sendBufferSize),
	}

	if err := manager.Register(r.Context(), client); err != nil {
		log.Printf("❌ Не удалось зарегистрировать клиента панели: %v", err)
		conn.Close()
		return
	}
	log.Printf("✅ Панель подключена с адреса %s", r.RemoteAddr)

	go client.writePump()
	go client.readPump(manager)
}
