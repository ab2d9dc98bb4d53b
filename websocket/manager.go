// websocket/manager.go
package websocket

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/goccy/go-json"
)

// ErrManagerStopped менеджер уже остановлен
var ErrManagerStopped = errors.New("менеджер панели остановлен")

// Менеджер WebSocket-соединений панели мониторинга
type Manager struct {
	clients    map[string]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	gauge      ClientGauge
}

// Создание нового менеджера. gauge может быть nil.
func NewManager(gauge ClientGauge) *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		gauge:      gauge,
	}
}

// Run обслуживает регистрацию клиентов и рассылку до отмены ctx.
// При остановке закрывает очереди всех клиентов.
func (manager *Manager) Run(ctx context.Context) {
	defer func() {
		for id, client := range manager.clients {
			close(client.Send)
			delete(manager.clients, id)
		}
		manager.report()
		close(manager.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-manager.register:
			manager.clients[client.ID] = client
			manager.report()
			log.Printf("👤 Клиент панели %s подключился", client.ID)

		case client := <-manager.unregister:
			if _, ok := manager.clients[client.ID]; ok {
				delete(manager.clients, client.ID)
				close(client.Send)
				manager.report()
				log.Printf("👤 Клиент панели %s отключился", client.ID)
			}

		case message := <-manager.broadcast:
			manager.fanOut(message)
		}
	}
}

// fanOut отправляет сообщение всем клиентам. Клиент с переполненной
// очередью отключается.
func (manager *Manager) fanOut(message []byte) {
	for id, client := range manager.clients {
		select {
		case client.Send <- message:
		default:
			close(client.Send)
			delete(manager.clients, id)
			log.Printf("❌ Клиент панели %s не успевает читать, отключаем", id)
		}
	}
	manager.report()
}

func (manager *Manager) report() {
	if manager.gauge != nil {
		manager.gauge.SetDashboardClients(len(manager.clients))
	}
}

// Publish рассылает сообщение заданного типа всем клиентам панели
func (manager *Manager) Publish(ctx context.Context, kind string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка сериализации сообщения %s: %w", kind, err)
	}
	data, err := json.Marshal(Envelope{Type: kind, Payload: raw})
	if err != nil {
		return fmt.Errorf("ошибка сериализации конверта %s: %w", kind, err)
	}

	select {
	case manager.broadcast <- data:
		return nil
	case <-manager.done:
		return ErrManagerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Register добавляет клиента в рассылку
func (manager *Manager) Register(ctx context.Context, client *Client) error {
	select {
	case manager.register <- client:
		return nil
	case <-manager.done:
		return ErrManagerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unregister исключает клиента из рассылки
func (manager *Manager) Unregister(client *Client) {
	select {
	case manager.unregister <- client:
	case <-manager.done:
	}
}
