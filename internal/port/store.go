package port

import (
	"context"

	"github.com/storelane/sale-engine/internal/core/domain"
)

// Store is the persistence contract consumed by the sale engine. Lookups may
// fail with domain.NotFoundError or domain.PersistenceError; the Commit*
// methods are all-or-nothing multi-writes.
type Store interface {
	// GetProduct retrieves the current product snapshot. Callers that intend
	// to mutate stock must hold the product's lock before loading.
	GetProduct(ctx context.Context, id string) (*domain.Product, error)

	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)

	GetEmployee(ctx context.Context, id string) (*domain.Employee, error)

	// ListTransactions returns a product's audit trail, newest first.
	ListTransactions(ctx context.Context, productID string) ([]domain.InventoryTransaction, error)

	// CommitSale persists the sale record, applies the stock decrement and
	// appends the audit entry as one atomic unit. Returns
	// domain.ErrStockInvariantViolation (and persists nothing) if the
	// decrement would drive stock negative.
	CommitSale(ctx context.Context, sale domain.Sale, entry domain.InventoryTransaction) error

	// CommitAdjustment applies entry.Quantity to the product's stock and
	// appends the audit entry as one atomic unit, with the same non-negative
	// guard as CommitSale.
	CommitAdjustment(ctx context.Context, entry domain.InventoryTransaction) error
}
