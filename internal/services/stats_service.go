package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/domain"
	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/repositories"
)

const statsSnapshotKey = "stats:dashboard"

// SnapshotCache stores JSON values with a TTL. cache.JSONCache satisfies it; a nil cache misses.
type SnapshotCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// StatsServiceDeps bundles collaborators required to construct the statistics service.
type StatsServiceDeps struct {
	FabricOrders  repositories.FabricOrderRepository
	ProductOrders repositories.ProductOrderRepository
	Cache         SnapshotCache
	SnapshotTTL   time.Duration
	Clock         func() time.Time
	Logger        func(ctx context.Context, event string, fields map[string]any)
}

type statsService struct {
	fabricOrders  repositories.FabricOrderRepository
	productOrders repositories.ProductOrderRepository
	cache         SnapshotCache
	ttl           time.Duration
	clock         func() time.Time
	logger        func(context.Context, string, map[string]any)
}

var _ StatsService = (*statsService)(nil)

// NewStatsService constructs the dashboard statistics service.
func NewStatsService(deps StatsServiceDeps) (StatsService, error) {
	if deps.FabricOrders == nil || deps.ProductOrders == nil {
		return nil, errors.New("stats service: order repositories are required")
	}
	return &statsService{
		fabricOrders:  deps.FabricOrders,
		productOrders: deps.ProductOrders,
		cache:         deps.Cache,
		ttl:           deps.SnapshotTTL,
		clock:         defaultClock(deps.Clock),
		logger:        defaultLogger(deps.Logger),
	}, nil
}

// Dashboard serves the cached snapshot when one exists, otherwise it recomputes.
func (s *statsService) Dashboard(ctx context.Context) (domain.DashboardStats, error) {
	if s.cache != nil && s.ttl > 0 {
		var cached domain.DashboardStats
		hit, err := s.cache.Get(ctx, statsSnapshotKey, &cached)
		if err != nil {
			s.logger(ctx, "stats.cache.read_failed", map[string]any{"error": err.Error()})
		}
		if hit && err == nil {
			return cached, nil
		}
	}
	return s.Refresh(ctx)
}

// Refresh fetches both order collections in full, reduces them and stores the snapshot.
func (s *statsService) Refresh(ctx context.Context) (domain.DashboardStats, error) {
	fabricOrders, err := s.fabricOrders.ListAll(ctx)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("%w: fabric orders: %v", ErrStatsUnavailable, err)
	}
	productOrders, err := s.productOrders.ListAll(ctx)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("%w: product orders: %v", ErrStatsUnavailable, err)
	}

	stats := domain.DashboardStats{
		FabricOrders:  SummarizeFabricOrders(fabricOrders),
		ProductOrders: SummarizeProductOrders(productOrders),
		GeneratedAt:   s.clock(),
	}
	stats.TotalOrders = stats.FabricOrders.TotalOrders + stats.ProductOrders.TotalOrders
	stats.TotalRevenue = stats.FabricOrders.Revenue.Add(stats.ProductOrders.Revenue)

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.Set(ctx, statsSnapshotKey, stats, s.ttl); err != nil {
			s.logger(ctx, "stats.cache.write_failed", map[string]any{"error": err.Error()})
		}
	}
	s.logger(ctx, "stats.refreshed", map[string]any{
		"totalOrders":  stats.TotalOrders,
		"totalRevenue": stats.TotalRevenue.StringFixed(2),
	})
	return stats, nil
}

// SummarizeFabricOrders counts orders per status and sums totalCost over non-cancelled orders.
func SummarizeFabricOrders(orders []domain.FabricOrder) domain.StatusStats {
	stats := newStatusStats()
	for _, order := range orders {
		stats.add(order.Status, order.Pricing.TotalCost)
	}
	return stats.StatusStats
}

// SummarizeProductOrders counts orders per status and sums total over non-cancelled orders.
func SummarizeProductOrders(orders []domain.ProductOrder) domain.StatusStats {
	stats := newStatusStats()
	for _, order := range orders {
		stats.add(order.Status, order.Pricing.Total)
	}
	return stats.StatusStats
}

type statusAccumulator struct {
	domain.StatusStats
}

func newStatusStats() *statusAccumulator {
	byStatus := make(map[domain.OrderStatus]int, len(domain.OrderStatuses))
	for _, status := range domain.OrderStatuses {
		byStatus[status] = 0
	}
	return &statusAccumulator{domain.StatusStats{ByStatus: byStatus, Revenue: decimal.Zero}}
}

func (a *statusAccumulator) add(status domain.OrderStatus, amount decimal.Decimal) {
	a.TotalOrders++
	a.ByStatus[status]++
	if status != domain.OrderStatusCancelled {
		a.Revenue = a.Revenue.Add(amount)
	}
}
