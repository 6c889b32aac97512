package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/sale-engine/internal/core/domain"
)

func seededStore() *MemoryStore {
	s := NewMemoryStore()
	s.PutProduct(domain.Product{
		ID:            "p-1",
		Name:          "Rice 5kg",
		UnitPrice:     decimal.NewFromInt(500),
		StockQuantity: 10,
	})
	s.PutCustomer(domain.Customer{ID: "c-1", FullName: "Alice"})
	s.PutEmployee(domain.Employee{ID: "e-1", FullName: "Bob"})
	return s
}

func TestMemoryStore_Lookups(t *testing.T) {
	s := seededStore()
	ctx := context.Background()

	p, err := s.GetProduct(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 10, p.StockQuantity)

	_, err = s.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrEntityNotFound)

	_, err = s.GetCustomer(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrEntityNotFound)

	_, err = s.GetEmployee(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrEntityNotFound)
}

func TestMemoryStore_CommitSale(t *testing.T) {
	s := seededStore()
	ctx := context.Background()

	sale := domain.Sale{
		ID: "s-1", CustomerID: "c-1", EmployeeID: "e-1", ProductID: "p-1",
		Quantity: 4, UnitPrice: decimal.NewFromInt(500), TotalAmount: decimal.NewFromInt(2000),
		SoldAt: time.Now(),
	}
	entry := domain.InventoryTransaction{
		ID: "t-1", ProductID: "p-1", EmployeeID: "e-1",
		Type: domain.TransactionSale, Quantity: -4, OccurredAt: time.Now(),
	}

	require.NoError(t, s.CommitSale(ctx, sale, entry))

	p, _ := s.GetProduct(ctx, "p-1")
	assert.Equal(t, 6, p.StockQuantity)
	assert.Equal(t, 1, s.SaleCount())
}

func TestMemoryStore_CommitSale_GuardsStock(t *testing.T) {
	s := seededStore()
	ctx := context.Background()

	sale := domain.Sale{ID: "s-1", ProductID: "p-1", Quantity: 11}
	err := s.CommitSale(ctx, sale, domain.InventoryTransaction{ID: "t-1", ProductID: "p-1", Quantity: -11})
	assert.ErrorIs(t, err, domain.ErrStockInvariantViolation)

	// The failed commit left nothing behind.
	p, _ := s.GetProduct(ctx, "p-1")
	assert.Equal(t, 10, p.StockQuantity)
	assert.Equal(t, 0, s.SaleCount())
	entries, _ := s.ListTransactions(ctx, "p-1")
	assert.Empty(t, entries)
}

func TestMemoryStore_CommitAdjustment_GuardsStock(t *testing.T) {
	s := seededStore()
	ctx := context.Background()

	err := s.CommitAdjustment(ctx, domain.InventoryTransaction{
		ID: "t-1", ProductID: "p-1", Type: domain.TransactionDamage, Quantity: -15,
	})
	assert.ErrorIs(t, err, domain.ErrStockInvariantViolation)

	require.NoError(t, s.CommitAdjustment(ctx, domain.InventoryTransaction{
		ID: "t-2", ProductID: "p-1", Type: domain.TransactionRestock, Quantity: 5,
	}))

	p, _ := s.GetProduct(ctx, "p-1")
	assert.Equal(t, 15, p.StockQuantity)
}

func TestMemoryStore_ListTransactionsNewestFirst(t *testing.T) {
	s := seededStore()
	ctx := context.Background()

	base := time.Now()
	for i, id := range []string{"t-old", "t-mid", "t-new"} {
		require.NoError(t, s.CommitAdjustment(ctx, domain.InventoryTransaction{
			ID: id, ProductID: "p-1", Type: domain.TransactionRestock,
			Quantity: 1, OccurredAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	// Entry for a different product must not show up.
	s.PutProduct(domain.Product{ID: "p-2", StockQuantity: 1})
	require.NoError(t, s.CommitAdjustment(ctx, domain.InventoryTransaction{
		ID: "t-other", ProductID: "p-2", Type: domain.TransactionRestock, Quantity: 1, OccurredAt: base,
	}))

	entries, err := s.ListTransactions(ctx, "p-1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "t-new", entries[0].ID)
	assert.Equal(t, "t-old", entries[2].ID)
}
