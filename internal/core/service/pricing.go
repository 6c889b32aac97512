package service

import (
	"github.com/shopspring/decimal"

	"github.com/storelane/sale-engine/internal/core/domain"
)

// clientTotalTolerance allows one minor currency unit of rounding drift
// between the client-proposed total and the server-computed one.
var clientTotalTolerance = decimal.New(1, -2)

// Quote is the server-side pricing outcome for a validated request.
type Quote struct {
	UnitPrice decimal.Decimal
	Total     decimal.Decimal

	// ClientDiff is the absolute difference between the server total and the
	// client-proposed one.
	ClientDiff decimal.Decimal
}

// ClientMismatch reports whether the client total diverged beyond tolerance.
// A mismatch is logged as a stale-price/tamper signal but never rejects the
// sale; the server total is authoritative either way.
func (q Quote) ClientMismatch() bool {
	return q.ClientDiff.GreaterThan(clientTotalTolerance)
}

// validateAndPrice runs the sale checks in fixed order against a product
// snapshot loaded under the product lock, and computes the authoritative
// total. Pure; the first failing check wins.
func validateAndPrice(product *domain.Product, quantity int, clientTotal decimal.Decimal) (Quote, error) {
	if quantity <= 0 {
		return Quote{}, domain.ErrInvalidQuantity
	}
	if product.StockQuantity < quantity {
		return Quote{}, &domain.InsufficientStockError{
			ProductID: product.ID,
			Requested: quantity,
			Available: product.StockQuantity,
		}
	}
	if !product.UnitPrice.IsPositive() {
		return Quote{}, domain.ErrInvalidPrice
	}

	total := product.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	return Quote{
		UnitPrice:  product.UnitPrice,
		Total:      total,
		ClientDiff: total.Sub(clientTotal).Abs(),
	}, nil
}
