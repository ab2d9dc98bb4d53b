// events/publisher.go
package events

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/LilVoxy/service_requests/database"
	"github.com/LilVoxy/service_requests/forecast"
)

// Типы событий
const (
	OrderCreated = "order_created"
	OrderUpdated = "order_updated"
	OrderDeleted = "order_deleted"
	Forecast     = "forecast"
)

// Publisher публикует события об изменении заявок и новых прогнозах
type Publisher interface {
	PublishOrder(ctx context.Context, kind string, order database.Order) error
	PublishForecast(ctx context.Context, report *forecast.Report) error
}

// Event конверт события во внешней шине
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// messageWriter часть kafka.Writer, нужная издателю
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConfig параметры подключения к Kafka
type KafkaConfig struct {
	Brokers        []string
	OrdersTopic    string
	ForecastsTopic string
}

// KafkaPublisher издатель событий в Kafka: по одному writer на топик
type KafkaPublisher struct {
	orders    messageWriter
	forecasts messageWriter
	now       func() time.Time
}

// NewKafkaPublisher создает издателя для указанных брокеров
func NewKafkaPublisher(cfg KafkaConfig) *KafkaPublisher {
	writer := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		}
	}
	return &KafkaPublisher{
		orders:    writer(cfg.OrdersTopic),
		forecasts: writer(cfg.ForecastsTopic),
		now:       time.Now,
	}
}

// PublishOrder отправляет событие по заявке. Ключ сообщения - ID заявки,
// поэтому события одной заявки попадают в одну партицию.
func (p *KafkaPublisher) PublishOrder(ctx context.Context, kind string, order database.Order) error {
	return p.publish(ctx, p.orders, []byte(strconv.Itoa(order.ID)), kind, order)
}

// PublishForecast отправляет отчет о прогнозе. Ключ - целевой месяц.
func (p *KafkaPublisher) PublishForecast(ctx context.Context, report *forecast.Report) error {
	return p.publish(ctx, p.forecasts, []byte(report.Target.String()), Forecast, report)
}

func (p *KafkaPublisher) publish(ctx context.Context, w messageWriter, key []byte, kind string, payload interface{}) error {
	event := Event{
		ID:         uuid.NewString(),
		Type:       kind,
		OccurredAt: p.now().UTC(),
		Payload:    payload,
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("ошибка сериализации события %s: %w", kind, err)
	}

	msg := kafka.Message{
		Key:   key,
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(kind)},
		},
	}
	if err := w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("ошибка отправки события %s: %w", kind, err)
	}
	return nil
}

// Close закрывает writer'ы
func (p *KafkaPublisher) Close() error {
	errOrders := p.orders.Close()
	errForecasts := p.forecasts.Close()
	if errOrders != nil {
		return errOrders
	}
	return errForecasts
}

// Nop издатель, который ничего не отправляет
type Nop struct{}

func (Nop) PublishOrder(context.Context, string, database.Order) error { return nil }

func (Nop) PublishForecast(context.Context, *forecast.Report) error { return nil }
