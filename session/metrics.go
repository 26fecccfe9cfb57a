package session

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("xview.session")
	meter  = otel.Meter("xview.session")
)

var (
	rebuildLatency metric.Float64Histogram
	rebuildTotal   metric.Int64Counter
	correlateTotal metric.Int64Counter
	relayoutTotal  metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		var err error
		if rebuildLatency, err = meter.Float64Histogram(
			"xview_rebuild_duration_seconds",
			metric.WithDescription("Duration of snapshot rebuilds"),
			metric.WithUnit("s"),
		); err != nil {
			metricsErr = err
			return
		}
		if rebuildTotal, err = meter.Int64Counter(
			"xview_rebuild_total",
			metric.WithDescription("Total number of snapshot rebuilds"),
		); err != nil {
			metricsErr = err
			return
		}
		if correlateTotal, err = meter.Int64Counter(
			"xview_correlate_total",
			metric.WithDescription("Total number of pointer correlations"),
		); err != nil {
			metricsErr = err
			return
		}
		if relayoutTotal, err = meter.Int64Counter(
			"xview_relayout_total",
			metric.WithDescription("Total number of graph layouts"),
		); err != nil {
			metricsErr = err
		}
	})
	return metricsErr
}

func startRebuildSpan(ctx context.Context, size int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Session.Rebuild", trace.WithAttributes(attribute.Int("document.size", size)))
}

func recordRebuild(ctx context.Context, duration time.Duration, success bool) {
	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	rebuildLatency.Record(ctx, duration.Seconds(), attrs)
	rebuildTotal.Add(ctx, 1, attrs)
}

func recordCorrelation(ctx context.Context, origin string, kind string) {
	if err := initMetrics(); err != nil {
		return
	}
	correlateTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("origin", origin), attribute.String("kind", kind)))
}

func recordRelayout(ctx context.Context) {
	if err := initMetrics(); err != nil {
		return
	}
	relayoutTotal.Add(ctx, 1)
}
