package domain

import "time"

type TransactionType string

const (
	TransactionRestock    TransactionType = "RESTOCK"
	TransactionSale       TransactionType = "SALE"
	TransactionAdjustment TransactionType = "ADJUSTMENT"
	TransactionReturn     TransactionType = "RETURN"
	TransactionDamage     TransactionType = "DAMAGE"
	TransactionTransfer   TransactionType = "TRANSFER"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionRestock, TransactionSale, TransactionAdjustment,
		TransactionReturn, TransactionDamage, TransactionTransfer:
		return true
	}
	return false
}

// StockDelta converts a positive quantity magnitude into the signed stock
// change for this transaction type. Restocks, returns and adjustments add
// stock; sales, damage write-offs and transfers remove it.
func (t TransactionType) StockDelta(quantity int) int {
	switch t {
	case TransactionSale, TransactionDamage, TransactionTransfer:
		return -quantity
	default:
		return quantity
	}
}

// InventoryTransaction is one append-only audit entry. Quantity is the signed
// delta applied to the product's stock; entries are never updated or deleted.
type InventoryTransaction struct {
	ID         string
	ProductID  string
	EmployeeID string
	Type       TransactionType
	Quantity   int
	Reason     string
	OccurredAt time.Time
}
