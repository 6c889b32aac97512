package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrLockTimeout means the product lock could not be acquired in time.
	// The request was not processed and may be retried as-is.
	ErrLockTimeout = errors.New("timed out waiting for product lock")

	// ErrInvalidQuantity rejects zero or negative quantities.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	// ErrInvalidPrice rejects products whose catalog price is not strictly
	// positive; such products must not be sold until the catalog is fixed.
	ErrInvalidPrice = errors.New("product price must be positive")

	// ErrInvalidTransactionType rejects unknown adjustment types.
	ErrInvalidTransactionType = errors.New("unknown inventory transaction type")

	// ErrStockInvariantViolation means a committed write would have driven
	// stock negative even though the product lock was held. Indicates the
	// locking discipline was bypassed; alarm-worthy.
	ErrStockInvariantViolation = errors.New("stock update would drive quantity negative")

	// ErrEntityNotFound is the match target for NotFoundError.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrInsufficientStock is the match target for InsufficientStockError.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrPersistenceUnavailable is the match target for PersistenceError.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)

// NotFoundError reports which referenced entity failed to resolve.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrEntityNotFound }

// InsufficientStockError carries both sides of a failed stock check so the
// caller can show requested vs available.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// PersistenceError wraps a storage failure. Safe to retry: a failed request
// never partially persists.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistenceUnavailable }

// Retriable reports whether the caller may safely re-submit the identical
// request. Input errors are deliberately excluded.
func Retriable(err error) bool {
	return errors.Is(err, ErrLockTimeout) || errors.Is(err, ErrPersistenceUnavailable)
}
