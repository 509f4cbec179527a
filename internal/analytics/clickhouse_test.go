package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/trynex-storefront/internal/events"
)

func TestOrderEventArgs(t *testing.T) {
	at := time.Date(2025, 1, 15, 23, 30, 0, 0, time.UTC)
	evt := events.OrderEvent{
		EventID:     "e-1",
		Type:        events.TypeOrderCreated,
		OrderID:     42,
		OrderCode:   "TXR-20250115-042",
		Status:      "pending",
		OrderMethod: "whatsapp",
		Total:       decimal.RequireFromString("1260.00"),
		OccurredAt:  at,
	}

	args := orderEventArgs(evt)
	require.Len(t, args, 11)
	assert.Equal(t, uint64(42), args[2])
	assert.Equal(t, "TXR-20250115-042", args[3])
	assert.Equal(t, "20250115", args[9])
	assert.Equal(t, at, args[10])
}
