package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	productsCreatedTotal  metric.Int64Counter
	stockAdjustmentsTotal metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.productsCreatedTotal, err = meter.Int64Counter(
		"products_created_total",
		metric.WithDescription("Total number of products created"),
		metric.WithUnit("{product}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create products_created_total counter: %w", err)
	}

	m.stockAdjustmentsTotal, err = meter.Int64Counter(
		"stock_adjustments_total",
		metric.WithDescription("Total number of stock adjustments, by outcome"),
		metric.WithUnit("{adjustment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create stock_adjustments_total counter: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordProductCreated(ctx context.Context) {
	m.productsCreatedTotal.Add(ctx, 1)
}

func (m *Metrics) RecordStockAdjustment(ctx context.Context, success bool) {
	status := "success"
	if !success {
		status = "rejected"
	}
	m.stockAdjustmentsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
	))
}
