package converter

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	tracer = otel.Tracer("tracegraph.converter")
	meter  = otel.Meter("tracegraph.converter")
)

var (
	convertLatency metric.Float64Histogram
	convertTotal   metric.Int64Counter
	nodesEmitted   metric.Int64Histogram
	edgesEmitted   metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		convertLatency, err = meter.Float64Histogram(
			"tracegraph_convert_duration_seconds",
			metric.WithDescription("Duration of trace to graph conversions"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		convertTotal, err = meter.Int64Counter(
			"tracegraph_convert_total",
			metric.WithDescription("Total number of trace to graph conversions"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		nodesEmitted, err = meter.Int64Histogram(
			"tracegraph_convert_nodes",
			metric.WithDescription("Number of graph nodes emitted per conversion"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		edgesEmitted, err = meter.Int64Histogram(
			"tracegraph_convert_edges",
			metric.WithDescription("Number of graph edges emitted per conversion"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func recordConvertMetrics(ctx context.Context, duration time.Duration, nodeCount, edgeCount int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.Bool("success", success))
	convertLatency.Record(ctx, duration.Seconds(), attrs)
	convertTotal.Add(ctx, 1, attrs)
	if success {
		nodesEmitted.Record(ctx, int64(nodeCount))
		edgesEmitted.Record(ctx, int64(edgeCount))
	}
}
