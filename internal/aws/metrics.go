package aws

import (
	"context"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/rs/zerolog/log"
)

// Metrics publishes best-effort counters to CloudWatch. A nil *Metrics is a
// no-op, so degraded startup never has to branch around it. Publish failures
// are logged and never surfaced to request paths.
type Metrics struct {
	CW        CloudWatchAPI
	Namespace string
}

// NewMetrics returns a Metrics publisher bound to a namespace.
func NewMetrics(cw CloudWatchAPI, namespace string) *Metrics {
	return &Metrics{
		CW:        cw,
		Namespace: namespace,
	}
}

func (m *Metrics) count(ctx context.Context, name string) {
	if m == nil || m.CW == nil {
		return
	}
	input := &cloudwatch.PutMetricDataInput{
		Namespace: &m.Namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: &name,
				Value:      sdkaws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
			},
		},
	}
	if _, err := m.CW.PutMetricData(ctx, input); err != nil {
		log.Warn().Err(err).Str("metric", name).Msg("metric publish failed")
	}
}

// CountOrderReceived increments the received-orders counter.
func (m *Metrics) CountOrderReceived(ctx context.Context) {
	m.count(ctx, "OrdersReceived")
}

// CountSubscriber increments the captured-subscribers counter.
func (m *Metrics) CountSubscriber(ctx context.Context) {
	m.count(ctx, "SubscribersCaptured")
}
