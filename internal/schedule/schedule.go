// Package schedule drives the periodic sweeps: the hourly late-order marking
// and the daily low-stock audit. Both operations are stateless and owned by
// their services; this package only decides cadence.
package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/jcmexdev/backoffice/internal/catalog"
	"github.com/jcmexdev/backoffice/internal/order"
)

// Runner invokes the sweeps on their cadence. One Runner runs both loops in
// a single goroutine, so a sweep never overlaps with itself.
type Runner struct {
	orders   *order.Service
	products *catalog.Service

	sweepEvery time.Duration
	auditEvery time.Duration
}

func NewRunner(orders *order.Service, products *catalog.Service) *Runner {
	return &Runner{
		orders:     orders,
		products:   products,
		sweepEvery: time.Hour,
		auditEvery: 24 * time.Hour,
	}
}

// Run blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	sweep := time.NewTicker(r.sweepEvery)
	defer sweep.Stop()
	audit := time.NewTicker(r.auditEvery)
	defer audit.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sweep.C:
			if _, err := r.orders.SweepLate(ctx, order.LateAfter); err != nil {
				slog.ErrorContext(ctx, "late-order sweep failed", "error", err)
			}
		case <-audit.C:
			if _, err := r.products.AuditLowStock(ctx); err != nil {
				slog.ErrorContext(ctx, "low-stock audit failed", "error", err)
			}
		}
	}
}
