package main

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// metricSummary condenses one collected OpenTelemetry metric: the sum of all counter points,
// the number and total of all histogram observations, or the latest gauge values.
type metricSummary struct {
	Name  string
	Kind  string
	Count uint64
	Value float64
}

func (a *app) collectMetrics(ctx context.Context) ([]metricSummary, error) {
	var resourceMetrics metricdata.ResourceMetrics
	if err := a.meterReader.Collect(ctx, &resourceMetrics); err != nil {
		return nil, fmt.Errorf("collecting metrics: %w", err)
	}

	var summaries []metricSummary

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			summary := metricSummary{Name: m.Name}

			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				summary.Kind = "counter"
				for _, point := range data.DataPoints {
					summary.Count += uint64(point.Value) //nolint:gosec // counters only grow
					summary.Value += float64(point.Value)
				}
			case metricdata.Histogram[float64]:
				summary.Kind = "histogram"
				for _, point := range data.DataPoints {
					summary.Count += point.Count
					summary.Value += point.Sum
				}
			case metricdata.Gauge[float64]:
				summary.Kind = "gauge"
				for _, point := range data.DataPoints {
					summary.Count++
					summary.Value = point.Value
				}
			default:
				continue
			}

			summaries = append(summaries, summary)
		}
	}

	return summaries, nil
}

func (a *app) logCollectedMetrics(ctx context.Context) error {
	summaries, err := a.collectMetrics(ctx)
	if err != nil {
		return err
	}

	for _, summary := range summaries {
		a.logger.InfoContext(ctx, "metric collected",
			"metric", summary.Name,
			"kind", summary.Kind,
			"count", summary.Count,
			"value", summary.Value,
		)
	}

	return nil
}
