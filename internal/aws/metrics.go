package aws

import (
	"context"
	"log"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// FallbackMetric is the CloudWatch metric emitted when a catalog read is
// answered from the fallback snapshot.
const FallbackMetric = "FallbackServed"

// MetricsRecorder publishes storefront counters to CloudWatch.
type MetricsRecorder struct {
	client    CloudWatchAPI
	namespace string
	nowFunc   func() time.Time
}

func NewMetricsRecorder(client CloudWatchAPI, namespace string) *MetricsRecorder {
	return &MetricsRecorder{client: client, namespace: namespace, nowFunc: time.Now}
}

// RecordFallback counts one fallback answer for entity. Failures are logged;
// metrics never fail a request.
func (m *MetricsRecorder) RecordFallback(ctx context.Context, entity string) {
	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: sdkaws.String(m.namespace),
		MetricData: []cwtypes.MetricDatum{{
			MetricName: sdkaws.String(FallbackMetric),
			Dimensions: []cwtypes.Dimension{{Name: sdkaws.String("Entity"), Value: sdkaws.String(entity)}},
			Timestamp:  sdkaws.Time(m.nowFunc()),
			Unit:       cwtypes.StandardUnitCount,
			Value:      sdkaws.Float64(1),
		}},
	})
	if err != nil {
		log.Printf("[metrics] put %s for %s: %v", FallbackMetric, entity, err)
	}
}
