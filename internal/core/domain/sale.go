package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is immutable once persisted. TotalAmount is always computed
// server-side; the client-proposed total never reaches this struct.
type Sale struct {
	ID          string
	CustomerID  string
	EmployeeID  string
	ProductID   string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalAmount decimal.Decimal
	SoldAt      time.Time
}

// SaleRequest carries the raw identifiers of an inbound sale. ClientTotal is
// advisory only and used for stale-price/tamper detection.
type SaleRequest struct {
	CustomerID  string
	EmployeeID  string
	ProductID   string
	Quantity    int
	ClientTotal decimal.Decimal
}
