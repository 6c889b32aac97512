package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalog entry whose stock quantity this engine mutates.
// All other fields are owned by catalog management and treated as read-only here.
type Product struct {
	ID            string
	Name          string
	UnitPrice     decimal.Decimal
	StockQuantity int
	ReorderLevel  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BelowReorderLevel reports whether stock has reached the reorder threshold.
func (p *Product) BelowReorderLevel() bool {
	return p.StockQuantity <= p.ReorderLevel
}

// Customer is resolved for provenance only; it is never mutated by this engine.
type Customer struct {
	ID       string
	FullName string
}

// Employee identifies who performed a sale or stock adjustment.
type Employee struct {
	ID       string
	FullName string
}
