// websocket/types.go
package websocket

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// Типы сообщений панели мониторинга
const (
	TypeOrderCreated = "order_created"
	TypeOrderUpdated = "order_updated"
	TypeOrderDeleted = "order_deleted"
	TypeForecast     = "forecast"
)

// Envelope сообщение, отправляемое клиентам панели
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Клиент панели мониторинга
type Client struct {
	ID     string
	Socket *websocket.Conn
	Send   chan []byte
}

// ClientGauge получает текущее число подключенных клиентов
type ClientGauge interface {
	SetDashboardClients(n int)
}

// Конфигурация WebSocket-соединения
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}
