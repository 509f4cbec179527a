// Package events defines the order events emitted by the API and consumed by
// the worker, plus the publishers that carry them.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/imrishuroy/trynex-storefront/internal/aws"
	"github.com/imrishuroy/trynex-storefront/internal/models"
)

// Event types
const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the message body shared by every transport.
type OrderEvent struct {
	EventID        string          `json:"event_id"`
	Type           string          `json:"type"`
	OrderID        uint            `json:"order_id"`
	OrderCode      string          `json:"order_code"`
	Status         string          `json:"status"`
	PreviousStatus string          `json:"previous_status,omitempty"`
	PromoCode      string          `json:"promo_code,omitempty"`
	OrderMethod    string          `json:"order_method"`
	Total          decimal.Decimal `json:"total"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// NewOrderEvent builds an event for o with a fresh event id.
func NewOrderEvent(eventType string, o *models.Order, previousStatus string, at time.Time) OrderEvent {
	evt := OrderEvent{
		EventID:        uuid.NewString(),
		Type:           eventType,
		OrderID:        o.ID,
		OrderCode:      o.OrderCode,
		Status:         o.Status,
		PreviousStatus: previousStatus,
		OrderMethod:    o.OrderMethod,
		Total:          o.Total,
		OccurredAt:     at.UTC(),
	}
	if o.PromoCode != nil {
		evt.PromoCode = *o.PromoCode
	}
	return evt
}

// Decode parses a message body and rejects events without a type or order.
func Decode(body []byte) (OrderEvent, error) {
	var evt OrderEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return evt, fmt.Errorf("unmarshal order event: %w", err)
	}
	if evt.Type == "" || evt.OrderID == 0 {
		return evt, fmt.Errorf("order event missing type or order id")
	}
	return evt, nil
}

// Publisher delivers order events to the worker.
type Publisher interface {
	Publish(ctx context.Context, evt OrderEvent) error
}

// LogPublisher only logs. It is the default for local runs without a broker.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, evt OrderEvent) error {
	log.Printf("[events] %s order=%s status=%s event_id=%s", evt.Type, evt.OrderCode, evt.Status, evt.EventID)
	return nil
}

// SQSPublisher sends events through the SQS queue publisher.
type SQSPublisher struct {
	queue *aws.Publisher
}

func NewSQSPublisher(queue *aws.Publisher) *SQSPublisher {
	return &SQSPublisher{queue: queue}
}

func (p *SQSPublisher) Publish(ctx context.Context, evt OrderEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}
	return p.queue.SendOrderMessage(ctx, string(body), map[string]string{
		aws.AttrEventType: evt.Type,
		aws.AttrEventID:   evt.EventID,
		aws.AttrOrderCode: evt.OrderCode,
	})
}
