package admin

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"gerai-be/internal/logger"
	"gerai-be/internal/order"
)

// Stats is the dashboard snapshot. Metrics whose query failed or timed
// out carry their zero value and are listed in Failed, so a single slow
// aggregate never blanks the whole dashboard.
type Stats struct {
	TotalUsers    int64     `json:"total_users"`
	TotalProducts int64     `json:"total_products"`
	TotalOrders   int64     `json:"total_orders"`
	PendingOrders int64     `json:"pending_orders"`
	Revenue       int64     `json:"revenue"`
	Failed        []string  `json:"failed,omitempty"`
	GeneratedAt   time.Time `json:"generated_at"`
}

type StatsService interface {
	Collect(ctx context.Context) *Stats
}

type statsService struct {
	repo           Repository
	queryTimeout   time.Duration
	overallTimeout time.Duration
}

func NewStatsService(repo Repository, queryTimeout, overallTimeout time.Duration) StatsService {
	return &statsService{
		repo:           repo,
		queryTimeout:   queryTimeout,
		overallTimeout: overallTimeout,
	}
}

// Collect fans the aggregates out concurrently, each under its own
// deadline, and joins the results. It always returns a usable snapshot.
func (s *statsService) Collect(ctx context.Context) *Stats {
	ctx, cancel := context.WithTimeout(ctx, s.overallTimeout)
	defer cancel()

	stats := &Stats{GeneratedAt: time.Now()}

	var mu sync.Mutex
	var wg sync.WaitGroup

	run := func(name string, dst *int64, query func(ctx context.Context) (int64, error)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			qCtx, qCancel := context.WithTimeout(ctx, s.queryTimeout)
			defer qCancel()

			n, err := query(qCtx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				stats.Failed = append(stats.Failed, name)
				logger.FromCtx(ctx).Warn("stats query failed",
					zap.String("layer", "service"),
					zap.String("method", "Collect"),
					zap.String("metric", name),
					zap.Error(err),
				)
				return
			}
			*dst = n
		}()
	}

	run("total_users", &stats.TotalUsers, s.repo.CountUsers)
	run("total_products", &stats.TotalProducts, s.repo.CountProducts)
	run("total_orders", &stats.TotalOrders, s.repo.CountOrders)
	run("pending_orders", &stats.PendingOrders, func(ctx context.Context) (int64, error) {
		return s.repo.CountOrdersByStatus(ctx, string(order.StatusPending))
	})
	run("revenue", &stats.Revenue, s.repo.Revenue)

	wg.Wait()
	return stats
}
