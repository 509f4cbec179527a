package main

import (
	"context"

	"github.com/imrishuroy/trynex-storefront/internal/events"
	"github.com/imrishuroy/trynex-storefront/internal/models"
)

// OrderStore is the slice of the store the worker needs.
type OrderStore interface {
	OrderByID(ctx context.Context, id uint) (*models.Order, error)
	RedeemPromo(ctx context.Context, orderID uint) (bool, error)
}

// EventSink records processed events for reporting.
type EventSink interface {
	InsertOrderEvent(ctx context.Context, evt events.OrderEvent) error
}
