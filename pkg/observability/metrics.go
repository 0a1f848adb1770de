package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metrics records operational metrics to CloudWatch. Failures to publish are
// swallowed: metrics must never fail a lookup or a command.
type Metrics struct {
	namespace string
	client    *cloudwatch.Client
}

// NewMetrics creates a metrics recorder under the given namespace
func NewMetrics(namespace string, client *cloudwatch.Client) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
	}
}

// Increment bumps a counter metric by one
func (m *Metrics) Increment(ctx context.Context, metric, label string) {
	m.put(ctx, metric, label, 1, types.StandardUnitCount)
}

// RecordDuration records an operation duration in milliseconds
func (m *Metrics) RecordDuration(ctx context.Context, metric, label string, d time.Duration) {
	m.put(ctx, metric, label, float64(d.Milliseconds()), types.StandardUnitMilliseconds)
}

func (m *Metrics) put(ctx context.Context, metric, label string, value float64, unit types.StandardUnit) {
	if m.client == nil {
		return
	}

	datum := types.MetricDatum{
		MetricName: aws.String(metric),
		Value:      aws.Float64(value),
		Unit:       unit,
		Timestamp:  aws.Time(time.Now()),
		Dimensions: []types.Dimension{
			{Name: aws.String("Operation"), Value: aws.String(label)},
		},
	}

	// Best effort; errors are deliberately ignored
	_, _ = m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: []types.MetricDatum{datum},
	})
}

// Timer measures a single operation
type Timer struct {
	metrics *Metrics
	metric  string
	label   string
	start   time.Time
}

// StartTimer starts a duration measurement
func (m *Metrics) StartTimer(metric, label string) *Timer {
	return &Timer{
		metrics: m,
		metric:  metric,
		label:   label,
		start:   time.Now(),
	}
}

// Stop records the elapsed time
func (t *Timer) Stop(ctx context.Context) {
	t.metrics.RecordDuration(ctx, t.metric, t.label, time.Since(t.start))
}
