package app

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/formation/products-api/internal/stats/ports"
	"github.com/formation/products-api/internal/telemetry"
)

const (
	defaultRankingLimit = 5
	maxRankingLimit     = 100
)

// Service exposes reporting queries over a StatsReader.
type Service struct {
	reader ports.StatsReader
	logger *slog.Logger
}

// NewService wires required dependencies.
func NewService(reader ports.StatsReader, logger *slog.Logger) *Service {
	return &Service{reader: reader, logger: logger}
}

// CategoryStats returns per-category product counts and average prices.
func (s *Service) CategoryStats(ctx context.Context) ([]ports.CategoryStat, error) {
	ctx, span := telemetry.StartSpan(ctx, "Stats.CategoryStats")
	defer span.End()

	stats, err := s.reader.CategoryStats(ctx)
	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}
	return stats, nil
}

// OrdersByStatus returns the order count per status.
func (s *Service) OrdersByStatus(ctx context.Context) ([]ports.StatusCount, error) {
	ctx, span := telemetry.StartSpan(ctx, "Stats.OrdersByStatus")
	defer span.End()

	counts, err := s.reader.OrdersByStatus(ctx)
	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}
	return counts, nil
}

// TotalRevenue sums the totals of all non-cancelled orders.
func (s *Service) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	ctx, span := telemetry.StartSpan(ctx, "Stats.TotalRevenue")
	defer span.End()

	revenue, err := s.reader.TotalRevenue(ctx)
	if err != nil {
		telemetry.RecordSpanError(span, err)
		return decimal.Zero, err
	}
	return revenue, nil
}

// MostOrderedProducts ranks products by the total quantity ordered.
func (s *Service) MostOrderedProducts(ctx context.Context, limit int) ([]ports.ProductOrderCount, error) {
	ctx, span := telemetry.StartSpan(ctx, "Stats.MostOrderedProducts")
	defer span.End()

	ranking, err := s.reader.MostOrderedProducts(ctx, clampLimit(limit))
	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}
	return ranking, nil
}

// TopExpensiveProducts ranks products by unit price.
func (s *Service) TopExpensiveProducts(ctx context.Context, limit int) ([]ports.ExpensiveProduct, error) {
	ctx, span := telemetry.StartSpan(ctx, "Stats.TopExpensiveProducts")
	defer span.End()

	ranking, err := s.reader.TopExpensiveProducts(ctx, clampLimit(limit))
	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}
	return ranking, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultRankingLimit
	}
	if limit > maxRankingLimit {
		return maxRankingLimit
	}
	return limit
}
