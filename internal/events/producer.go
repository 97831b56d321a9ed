// Package events публикует события жизненного цикла заказов в Kafka.
package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/model"
)

const orderTopic = "order-events"

// Тип события жизненного цикла заказа.
const (
	TypeOrderCreated = "order.created"
	TypeOrderUpdated = "order.updated"
	TypeOrderDeleted = "order.deleted"
)

// OrderEvent описывает событие изменения заказа, публикуемое в Kafka.
type OrderEvent struct {
	EventID   string           `json:"event_id"`
	Type      string           `json:"type"`
	OrderID   string           `json:"order_id"`
	UserID    string           `json:"user_id"`
	Items     []model.LineItem `json:"items,omitempty"`
	Total     decimal.Decimal  `json:"total"`
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
}

// Producer публикует события заказов. Публикация строго после фиксации
// изменения в хранилище; ошибка публикации логируется и не влияет на
// результат запроса.
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewProducer создаёт продюсер для указанного списка брокеров (CSV).
func NewProducer(brokersCSV string, logger *zap.Logger) *Producer {
	var brokers []string
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        orderTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}

	return &Producer{
		writer: writer,
		logger: logger,
	}
}

// OrderCreated публикует событие создания заказа.
func (p *Producer) OrderCreated(ctx context.Context, o *model.Order) {
	p.publish(ctx, TypeOrderCreated, o)
}

// OrderUpdated публикует событие изменения заказа.
func (p *Producer) OrderUpdated(ctx context.Context, o *model.Order) {
	p.publish(ctx, TypeOrderUpdated, o)
}

// OrderDeleted публикует событие удаления заказа.
func (p *Producer) OrderDeleted(ctx context.Context, o *model.Order) {
	p.publish(ctx, TypeOrderDeleted, o)
}

func (p *Producer) publish(ctx context.Context, eventType string, o *model.Order) {
	if p == nil {
		return
	}

	event := OrderEvent{
		EventID:   uuid.NewString(),
		Type:      eventType,
		OrderID:   o.ID.String(),
		UserID:    o.UserID,
		Items:     o.Items,
		Total:     o.Total,
		Status:    string(o.Status),
		Timestamp: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("marshal order event", zap.Error(err), zap.String("order", event.OrderID))
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
		Time:  event.Timestamp,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("publish order event", zap.Error(err),
			zap.String("order", event.OrderID), zap.String("type", eventType))
	}
}

// Close останавливает продюсер и дописывает буферизованные сообщения.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
