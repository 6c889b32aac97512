package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/storelane/sale-engine/internal/core/domain"
	"github.com/storelane/sale-engine/internal/obs"
	"github.com/storelane/sale-engine/internal/port"
)

// DefaultLockTimeout bounds how long a request waits for a contended product.
const DefaultLockTimeout = 3 * time.Second

// SaleService processes sales and stock adjustments as all-or-nothing units.
// Stock for a given product is only ever mutated while holding that product's
// lock; entities are loaded after the lock is held so validation never runs
// against a stale snapshot.
type SaleService struct {
	store       port.Store
	locker      port.Locker
	lockTimeout time.Duration
	logger      *slog.Logger
	tracer      trace.Tracer
}

func NewSaleService(store port.Store, locker port.Locker, lockTimeout time.Duration, logger *slog.Logger, tracer trace.Tracer) *SaleService {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("sale-engine")
	}
	return &SaleService{
		store:       store,
		locker:      locker,
		lockTimeout: lockTimeout,
		logger:      logger,
		tracer:      tracer,
	}
}

// ProcessSale is the sole sale entry point. On success the returned Sale
// carries the generated id and the server-computed total; on failure nothing
// is persisted and the error is one of the domain error types.
func (s *SaleService) ProcessSale(ctx context.Context, req domain.SaleRequest) (domain.Sale, error) {
	ctx, span := s.tracer.Start(ctx, "process_sale")
	defer span.End()
	span.SetAttributes(
		attribute.String("product_id", req.ProductID),
		attribute.Int("quantity", req.Quantity),
	)

	sale, err := s.processSale(ctx, req)
	if err != nil {
		obs.SalesFailed.WithLabelValues(obs.FailureReason(err)).Inc()
		return domain.Sale{}, err
	}
	obs.SalesCommitted.Inc()
	return sale, nil
}

func (s *SaleService) processSale(ctx context.Context, req domain.SaleRequest) (domain.Sale, error) {
	lockStart := time.Now()
	lease, err := s.locker.Acquire(ctx, req.ProductID, s.lockTimeout)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("acquire product lock: %w", err)
	}
	defer lease.Release()
	obs.LockWaitSeconds.Observe(time.Since(lockStart).Seconds())

	customer, err := s.store.GetCustomer(ctx, req.CustomerID)
	if err != nil {
		return domain.Sale{}, err
	}
	employee, err := s.store.GetEmployee(ctx, req.EmployeeID)
	if err != nil {
		return domain.Sale{}, err
	}
	product, err := s.store.GetProduct(ctx, req.ProductID)
	if err != nil {
		return domain.Sale{}, err
	}

	quote, err := validateAndPrice(product, req.Quantity, req.ClientTotal)
	if err != nil {
		return domain.Sale{}, err
	}

	if quote.ClientMismatch() {
		obs.PriceMismatches.Inc()
		s.logger.Warn("client total differs from server price, using server total",
			"product_id", product.ID,
			"client_total", req.ClientTotal.String(),
			"server_total", quote.Total.String(),
		)
	}

	now := time.Now()
	sale := domain.Sale{
		ID:          uuid.NewString(),
		CustomerID:  customer.ID,
		EmployeeID:  employee.ID,
		ProductID:   product.ID,
		Quantity:    req.Quantity,
		UnitPrice:   quote.UnitPrice,
		TotalAmount: quote.Total,
		SoldAt:      now,
	}
	entry := domain.InventoryTransaction{
		ID:         uuid.NewString(),
		ProductID:  product.ID,
		EmployeeID: employee.ID,
		Type:       domain.TransactionSale,
		Quantity:   -req.Quantity,
		Reason:     "sale " + sale.ID,
		OccurredAt: now,
	}

	if err := s.store.CommitSale(ctx, sale, entry); err != nil {
		if errors.Is(err, domain.ErrStockInvariantViolation) {
			s.logger.Error("stock would go negative despite product lock, discarding sale",
				"product_id", product.ID,
				"requested", req.Quantity,
				"stock", product.StockQuantity,
			)
		}
		return domain.Sale{}, fmt.Errorf("commit sale: %w", err)
	}

	remaining := product.StockQuantity - req.Quantity
	s.warnLowStock(product, remaining)
	s.logger.Info("sale committed",
		"sale_id", sale.ID,
		"product_id", product.ID,
		"quantity", req.Quantity,
		"unit_price", quote.UnitPrice.String(),
		"total", quote.Total.String(),
		"stock_before", product.StockQuantity,
		"stock_after", remaining,
		"employee_id", employee.ID,
	)
	return sale, nil
}

// warnLowStock records the post-commit stock level and logs when it sits at or
// below the product's reorder threshold, so replenishment can be triggered
// from the logs.
func (s *SaleService) warnLowStock(product *domain.Product, remaining int) {
	obs.StockLevel.WithLabelValues(product.ID).Set(float64(remaining))
	after := *product
	after.StockQuantity = remaining
	if after.BelowReorderLevel() {
		s.logger.Warn("product at or below reorder level",
			"product_id", product.ID,
			"stock", remaining,
			"reorder_level", product.ReorderLevel,
		)
	}
}

// RecordAdjustment applies a non-sale stock movement (restock, return,
// damage, ...) under the same lock and non-negative invariant as sales, but
// without pricing. Quantity is a positive magnitude; the transaction type
// determines the sign of the applied delta.
func (s *SaleService) RecordAdjustment(ctx context.Context, productID string, typ domain.TransactionType, quantity int, reason, employeeID string) (domain.InventoryTransaction, error) {
	ctx, span := s.tracer.Start(ctx, "record_adjustment")
	defer span.End()
	span.SetAttributes(
		attribute.String("product_id", productID),
		attribute.String("type", string(typ)),
	)

	entry, err := s.recordAdjustment(ctx, productID, typ, quantity, reason, employeeID)
	if err != nil {
		obs.SalesFailed.WithLabelValues(obs.FailureReason(err)).Inc()
		return domain.InventoryTransaction{}, err
	}
	obs.AdjustmentsCommitted.WithLabelValues(string(typ)).Inc()
	return entry, nil
}

func (s *SaleService) recordAdjustment(ctx context.Context, productID string, typ domain.TransactionType, quantity int, reason, employeeID string) (domain.InventoryTransaction, error) {
	if !typ.Valid() {
		return domain.InventoryTransaction{}, fmt.Errorf("%w: %q", domain.ErrInvalidTransactionType, typ)
	}
	if quantity <= 0 {
		return domain.InventoryTransaction{}, domain.ErrInvalidQuantity
	}

	lockStart := time.Now()
	lease, err := s.locker.Acquire(ctx, productID, s.lockTimeout)
	if err != nil {
		return domain.InventoryTransaction{}, fmt.Errorf("acquire product lock: %w", err)
	}
	defer lease.Release()
	obs.LockWaitSeconds.Observe(time.Since(lockStart).Seconds())

	employee, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return domain.InventoryTransaction{}, err
	}
	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return domain.InventoryTransaction{}, err
	}

	delta := typ.StockDelta(quantity)
	if delta < 0 && product.StockQuantity < -delta {
		return domain.InventoryTransaction{}, &domain.InsufficientStockError{
			ProductID: product.ID,
			Requested: -delta,
			Available: product.StockQuantity,
		}
	}

	entry := domain.InventoryTransaction{
		ID:         uuid.NewString(),
		ProductID:  product.ID,
		EmployeeID: employee.ID,
		Type:       typ,
		Quantity:   delta,
		Reason:     reason,
		OccurredAt: time.Now(),
	}

	if err := s.store.CommitAdjustment(ctx, entry); err != nil {
		if errors.Is(err, domain.ErrStockInvariantViolation) {
			s.logger.Error("stock would go negative despite product lock, discarding adjustment",
				"product_id", product.ID,
				"delta", delta,
				"stock", product.StockQuantity,
			)
		}
		return domain.InventoryTransaction{}, fmt.Errorf("commit adjustment: %w", err)
	}

	s.warnLowStock(product, product.StockQuantity+delta)
	s.logger.Info("stock adjustment committed",
		"transaction_id", entry.ID,
		"product_id", product.ID,
		"type", string(typ),
		"delta", delta,
		"stock_before", product.StockQuantity,
		"stock_after", product.StockQuantity+delta,
		"employee_id", employee.ID,
	)
	return entry, nil
}
