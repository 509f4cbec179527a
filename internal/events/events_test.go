package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/trynex-storefront/internal/aws"
	"github.com/imrishuroy/trynex-storefront/internal/models"
)

type captureSQS struct {
	inputs []*sqs.SendMessageInput
}

func (c *captureSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	c.inputs = append(c.inputs, params)
	return &sqs.SendMessageOutput{}, nil
}

func sampleOrder() *models.Order {
	promo := "WELCOME20"
	return &models.Order{
		ID:          7,
		OrderCode:   "TXR-20250115-042",
		Status:      models.StatusPending,
		OrderMethod: models.ChannelWhatsApp,
		PromoCode:   &promo,
		Total:       decimal.RequireFromString("2560.00"),
	}
}

func TestNewOrderEventAndDecode(t *testing.T) {
	at := time.Date(2025, 1, 15, 8, 30, 0, 0, time.FixedZone("BDT", 6*3600))
	evt := NewOrderEvent(TypeOrderCreated, sampleOrder(), "", at)

	require.NotEmpty(t, evt.EventID)
	assert.Equal(t, "WELCOME20", evt.PromoCode)
	assert.Equal(t, time.UTC, evt.OccurredAt.Location())

	body, err := json.Marshal(evt)
	require.NoError(t, err)
	got, err := Decode(body)
	require.NoError(t, err)
	assert.Equal(t, evt.OrderCode, got.OrderCode)
	assert.True(t, got.Total.Equal(evt.Total))
}

func TestDecodeRejectsIncompleteEvents(t *testing.T) {
	_, err := Decode([]byte(`{"type":"order.created"}`))
	assert.Error(t, err)
	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestSQSPublisher(t *testing.T) {
	mock := &captureSQS{}
	p := NewSQSPublisher(aws.NewPublisher(mock, "https://sqs.local/orders"))
	evt := NewOrderEvent(TypeOrderStatusChanged, sampleOrder(), models.StatusConfirmed, time.Now())

	require.NoError(t, p.Publish(context.Background(), evt))
	require.Len(t, mock.inputs, 1)
	in := mock.inputs[0]
	assert.Equal(t, TypeOrderStatusChanged, *in.MessageAttributes["event_type"].StringValue)

	got, err := Decode([]byte(*in.MessageBody))
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.PreviousStatus)
}
