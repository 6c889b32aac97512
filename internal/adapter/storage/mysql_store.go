package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/storelane/sale-engine/internal/core/domain"
)

// MySQLStore is the production persistence adapter. The Commit* methods wrap
// their writes in a single transaction; the stock UPDATE carries a
// `stock_quantity >= ?` guard as the last defense against a bypassed lock.
type MySQLStore struct {
	db *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (s *MySQLStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, unit_price, stock_quantity, reorder_level, created_at, updated_at
		FROM products WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.UnitPrice, &p.StockQuantity, &p.ReorderLevel, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "product", ID: id}
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "query product", Err: err}
	}
	return &p, nil
}

func (s *MySQLStore) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	var c domain.Customer
	err := s.db.QueryRowContext(ctx, `
		SELECT id, full_name FROM customers WHERE id = ?`, id,
	).Scan(&c.ID, &c.FullName)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "customer", ID: id}
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "query customer", Err: err}
	}
	return &c, nil
}

func (s *MySQLStore) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	var e domain.Employee
	err := s.db.QueryRowContext(ctx, `
		SELECT id, full_name FROM employees WHERE id = ?`, id,
	).Scan(&e.ID, &e.FullName)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "employee", ID: id}
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "query employee", Err: err}
	}
	return &e, nil
}

func (s *MySQLStore) ListTransactions(ctx context.Context, productID string) ([]domain.InventoryTransaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_id, employee_id, transaction_type, quantity, reason, occurred_at
		FROM inventory_transactions
		WHERE product_id = ?
		ORDER BY occurred_at DESC`, productID,
	)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "query transactions", Err: err}
	}
	defer rows.Close()

	var entries []domain.InventoryTransaction
	for rows.Next() {
		var e domain.InventoryTransaction
		if err := rows.Scan(&e.ID, &e.ProductID, &e.EmployeeID, &e.Type, &e.Quantity, &e.Reason, &e.OccurredAt); err != nil {
			return nil, &domain.PersistenceError{Op: "scan transaction", Err: err}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "iterate transactions", Err: err}
	}
	return entries, nil
}

func (s *MySQLStore) CommitSale(ctx context.Context, sale domain.Sale, entry domain.InventoryTransaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.PersistenceError{Op: "begin sale tx", Err: err}
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (id, customer_id, employee_id, product_id, quantity, unit_price, total_amount, sold_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sale.ID, sale.CustomerID, sale.EmployeeID, sale.ProductID,
		sale.Quantity, sale.UnitPrice, sale.TotalAmount, sale.SoldAt,
	)
	if err != nil {
		return &domain.PersistenceError{Op: "insert sale", Err: err}
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - ?, updated_at = NOW()
		WHERE id = ? AND stock_quantity >= ?`,
		sale.Quantity, sale.ProductID, sale.Quantity,
	)
	if err != nil {
		return &domain.PersistenceError{Op: "decrement stock", Err: err}
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrStockInvariantViolation
	}

	if err := insertTransaction(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return &domain.PersistenceError{Op: "commit sale tx", Err: err}
	}
	return nil
}

func (s *MySQLStore) CommitAdjustment(ctx context.Context, entry domain.InventoryTransaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.PersistenceError{Op: "begin adjustment tx", Err: err}
	}
	defer tx.Rollback()

	var result sql.Result
	if entry.Quantity < 0 {
		result, err = tx.ExecContext(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity + ?, updated_at = NOW()
			WHERE id = ? AND stock_quantity >= ?`,
			entry.Quantity, entry.ProductID, -entry.Quantity,
		)
	} else {
		result, err = tx.ExecContext(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity + ?, updated_at = NOW()
			WHERE id = ?`,
			entry.Quantity, entry.ProductID,
		)
	}
	if err != nil {
		return &domain.PersistenceError{Op: "apply stock delta", Err: err}
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrStockInvariantViolation
	}

	if err := insertTransaction(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return &domain.PersistenceError{Op: "commit adjustment tx", Err: err}
	}
	return nil
}

func insertTransaction(ctx context.Context, tx *sql.Tx, entry domain.InventoryTransaction) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO inventory_transactions (id, product_id, employee_id, transaction_type, quantity, reason, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.ProductID, entry.EmployeeID, entry.Type,
		entry.Quantity, entry.Reason, entry.OccurredAt,
	)
	if err != nil {
		return &domain.PersistenceError{Op: "insert inventory transaction", Err: err}
	}
	return nil
}
