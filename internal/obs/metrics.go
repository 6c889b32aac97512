package obs

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/storelane/sale-engine/internal/core/domain"
)

var (
	// SalesCommitted counts successfully committed sales.
	SalesCommitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sale_engine",
		Subsystem: "sales",
		Name:      "committed_total",
		Help:      "Total sales committed.",
	})

	// SalesFailed counts failed sale attempts by rejection reason.
	SalesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sale_engine",
		Subsystem: "sales",
		Name:      "failed_total",
		Help:      "Total failed sale attempts by reason.",
	}, []string{"reason"})

	// AdjustmentsCommitted counts committed stock adjustments by type.
	AdjustmentsCommitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sale_engine",
		Subsystem: "inventory",
		Name:      "adjustments_total",
		Help:      "Total committed stock adjustments by transaction type.",
	}, []string{"type"})

	// LockWaitSeconds observes how long requests wait for the product lock.
	LockWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sale_engine",
		Subsystem: "lock",
		Name:      "wait_seconds",
		Help:      "Time spent waiting to acquire a product lock.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})

	// StockLevel tracks the last committed stock quantity per product.
	StockLevel = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sale_engine",
		Subsystem: "inventory",
		Name:      "stock_level",
		Help:      "Stock quantity after the most recent committed write, per product.",
	}, []string{"product_id"})

	// PriceMismatches counts client totals that diverged from the server price.
	PriceMismatches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sale_engine",
		Subsystem: "sales",
		Name:      "price_mismatch_total",
		Help:      "Sale requests whose client total diverged beyond tolerance.",
	})
)

// FailureReason maps an engine error to a low-cardinality metric label.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrEntityNotFound):
		return "entity_not_found"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidPrice):
		return "invalid_price"
	case errors.Is(err, domain.ErrInvalidTransactionType):
		return "invalid_transaction_type"
	case errors.Is(err, domain.ErrLockTimeout):
		return "lock_timeout"
	case errors.Is(err, domain.ErrStockInvariantViolation):
		return "stock_invariant_violation"
	case errors.Is(err, domain.ErrPersistenceUnavailable):
		return "persistence_unavailable"
	default:
		return "internal"
	}
}
