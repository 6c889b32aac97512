package service

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/sale-engine/internal/core/domain"
)

func testProduct(stock int, price string) *domain.Product {
	return &domain.Product{
		ID:            "p-1",
		Name:          "Test Product",
		UnitPrice:     decimal.RequireFromString(price),
		StockQuantity: stock,
	}
}

func TestValidateAndPrice_ComputesAuthoritativeTotal(t *testing.T) {
	quote, err := validateAndPrice(testProduct(10, "500"), 3, decimal.NewFromInt(1500))
	require.NoError(t, err)

	assert.True(t, quote.Total.Equal(decimal.NewFromInt(1500)), "total = %s", quote.Total)
	assert.True(t, quote.UnitPrice.Equal(decimal.NewFromInt(500)))
	assert.False(t, quote.ClientMismatch())
}

func TestValidateAndPrice_ZeroQuantity(t *testing.T) {
	_, err := validateAndPrice(testProduct(10, "500"), 0, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestValidateAndPrice_NegativeQuantity(t *testing.T) {
	_, err := validateAndPrice(testProduct(10, "500"), -3, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestValidateAndPrice_InsufficientStock(t *testing.T) {
	_, err := validateAndPrice(testProduct(7, "500"), 8, decimal.NewFromInt(4000))

	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, 8, ise.Requested)
	assert.Equal(t, 7, ise.Available)
}

func TestValidateAndPrice_ZeroPriceRefused(t *testing.T) {
	_, err := validateAndPrice(testProduct(10, "0"), 1, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestValidateAndPrice_NegativePriceRefused(t *testing.T) {
	_, err := validateAndPrice(testProduct(10, "-2.50"), 1, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestValidateAndPrice_CheckOrder(t *testing.T) {
	// A zero quantity wins over insufficient stock and a broken price.
	_, err := validateAndPrice(testProduct(0, "0"), 0, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	// Insufficient stock wins over a broken price.
	_, err = validateAndPrice(testProduct(1, "0"), 2, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestClientMismatch_Tolerance(t *testing.T) {
	// One minor currency unit of drift is tolerated.
	quote, err := validateAndPrice(testProduct(10, "499.995"), 2, decimal.RequireFromString("1000.00"))
	require.NoError(t, err)
	assert.False(t, quote.ClientMismatch(), "diff %s should be within tolerance", quote.ClientDiff)

	// Beyond one minor unit it is flagged, but pricing still succeeds with the
	// server total.
	quote, err = validateAndPrice(testProduct(10, "500"), 3, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, quote.ClientMismatch())
	assert.True(t, quote.Total.Equal(decimal.NewFromInt(1500)))
}

func TestClientMismatch_ExactTolerance(t *testing.T) {
	// A difference of exactly 0.01 is not a mismatch.
	quote, err := validateAndPrice(testProduct(10, "500"), 3, decimal.RequireFromString("1499.99"))
	require.NoError(t, err)
	assert.False(t, quote.ClientMismatch())
}
