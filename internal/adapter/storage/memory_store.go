package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/storelane/sale-engine/internal/core/domain"
)

// MemoryStore keeps everything in maps under one mutex. It backs the
// standalone server mode and most of the test suite; semantics mirror
// MySQLStore, including the non-negative stock guard on commits.
type MemoryStore struct {
	mu        sync.Mutex
	products  map[string]domain.Product
	customers map[string]domain.Customer
	employees map[string]domain.Employee
	sales     map[string]domain.Sale
	entries   []domain.InventoryTransaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:  make(map[string]domain.Product),
		customers: make(map[string]domain.Customer),
		employees: make(map[string]domain.Employee),
		sales:     make(map[string]domain.Sale),
	}
}

func (s *MemoryStore) PutProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *MemoryStore) PutCustomer(c domain.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.ID] = c
}

func (s *MemoryStore) PutEmployee(e domain.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[e.ID] = e
}

func (s *MemoryStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "product", ID: id}
	}
	return &p, nil
}

func (s *MemoryStore) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "customer", ID: id}
	}
	return &c, nil
}

func (s *MemoryStore) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "employee", ID: id}
	}
	return &e, nil
}

func (s *MemoryStore) ListTransactions(ctx context.Context, productID string) ([]domain.InventoryTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.InventoryTransaction
	for _, e := range s.entries {
		if e.ProductID == productID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})
	return out, nil
}

func (s *MemoryStore) CommitSale(ctx context.Context, sale domain.Sale, entry domain.InventoryTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[sale.ProductID]
	if !ok || p.StockQuantity < sale.Quantity {
		return domain.ErrStockInvariantViolation
	}

	p.StockQuantity -= sale.Quantity
	s.products[sale.ProductID] = p
	s.sales[sale.ID] = sale
	s.entries = append(s.entries, entry)
	return nil
}

func (s *MemoryStore) CommitAdjustment(ctx context.Context, entry domain.InventoryTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[entry.ProductID]
	if !ok || p.StockQuantity+entry.Quantity < 0 {
		return domain.ErrStockInvariantViolation
	}

	p.StockQuantity += entry.Quantity
	s.products[entry.ProductID] = p
	s.entries = append(s.entries, entry)
	return nil
}

// Sale returns a persisted sale by id; used by tests and the stress tool.
func (s *MemoryStore) Sale(id string) (domain.Sale, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale, ok := s.sales[id]
	return sale, ok
}

// SaleCount reports how many sales have been committed.
func (s *MemoryStore) SaleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sales)
}
