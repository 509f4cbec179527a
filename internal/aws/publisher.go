package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// Message attributes carried by every order event, so the worker and any
// queue subscription filter can route on them without decoding the body.
const (
	AttrEventType = "event_type"
	AttrEventID   = "event_id"
	AttrOrderCode = "order_code"
)

// Publisher puts order events on the orders queue.
type Publisher struct {
	SQS      SQSAPI
	QueueURL string
}

func NewPublisher(sqsClient SQSAPI, queueURL string) *Publisher {
	return &Publisher{SQS: sqsClient, QueueURL: queueURL}
}

// SendOrderMessage sends one JSON-encoded order event. attributes normally
// holds AttrEventType, AttrEventID and AttrOrderCode; empty values are left
// out because SQS rejects empty string attributes.
func (p *Publisher) SendOrderMessage(ctx context.Context, messageBody string, attributes map[string]string) error {
	_, err := p.SQS.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:          sdkaws.String(p.QueueURL),
		MessageBody:       sdkaws.String(messageBody),
		MessageAttributes: stringAttributes(attributes),
	})
	if err != nil {
		return fmt.Errorf("send order event to %s: %w", p.QueueURL, err)
	}
	return nil
}

func stringAttributes(in map[string]string) map[string]sqstypes.MessageAttributeValue {
	var out map[string]sqstypes.MessageAttributeValue
	for k, v := range in {
		if v == "" {
			continue
		}
		if out == nil {
			out = map[string]sqstypes.MessageAttributeValue{}
		}
		out[k] = sqstypes.MessageAttributeValue{
			DataType:    sdkaws.String("String"),
			StringValue: sdkaws.String(v),
		}
	}
	return out
}
