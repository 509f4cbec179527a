package main

import (
	"context"
	"fmt"
	"log"

	lambdaevents "github.com/aws/aws-lambda-go/events"

	"github.com/imrishuroy/trynex-storefront/internal/events"
	"github.com/imrishuroy/trynex-storefront/internal/models"
	"github.com/imrishuroy/trynex-storefront/internal/notify"
)

// Processor applies the side effects of order events. Every step is safe to
// repeat, so redelivered messages are harmless.
type Processor struct {
	orders   OrderStore
	sink     EventSink
	notifier *notify.Notifier
}

// NewProcessor wires the processor. sink may be nil when analytics is off.
func NewProcessor(orders OrderStore, sink EventSink, notifier *notify.Notifier) *Processor {
	return &Processor{orders: orders, sink: sink, notifier: notifier}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev lambdaevents.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.Process(ctx, []byte(rec.Body)); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			log.Printf("[worker] message %s: %v", rec.MessageId, err)
			return err
		}
	}
	return nil
}

// Process handles one event body from any transport.
func (p *Processor) Process(ctx context.Context, body []byte) error {
	evt, err := events.Decode(body)
	if err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	log.Printf("[worker] received %s order=%s event=%s", evt.Type, evt.OrderCode, evt.EventID)

	switch evt.Type {
	case events.TypeOrderCreated:
		if err := p.orderCreated(ctx, evt); err != nil {
			return err
		}
	case events.TypeOrderStatusChanged:
		log.Printf("[worker] order=%s %s -> %s", evt.OrderCode, evt.PreviousStatus, evt.Status)
	default:
		log.Printf("[worker] ignoring event type %q", evt.Type)
		return nil
	}

	if p.sink != nil {
		if err := p.sink.InsertOrderEvent(ctx, evt); err != nil {
			return fmt.Errorf("record event %s: %w", evt.EventID, err)
		}
	}
	return nil
}

func (p *Processor) orderCreated(ctx context.Context, evt events.OrderEvent) error {
	order, err := p.orders.OrderByID(ctx, evt.OrderID)
	if err != nil {
		return fmt.Errorf("failed to fetch order %d: %w", evt.OrderID, err)
	}

	redeemed, err := p.orders.RedeemPromo(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("redeem promo for order=%s: %w", order.OrderCode, err)
	}
	if redeemed {
		log.Printf("[worker] promo %s redeemed by order=%s", *order.PromoCode, order.OrderCode)
	}

	if order.OrderMethod == models.ChannelWhatsApp {
		log.Printf("[worker] whatsapp link for order=%s: %s", order.OrderCode, p.notifier.WhatsAppURL(notify.Summary(order)))
	}
	return nil
}
