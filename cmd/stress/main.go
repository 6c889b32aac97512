// Contention check for the sale engine: fires more concurrent sales at one
// product than it has stock and verifies exactly stock-many succeed, the rest
// fail with insufficient stock, and the final quantity is zero.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storelane/sale-engine/internal/adapter/lock"
	"github.com/storelane/sale-engine/internal/adapter/storage"
	"github.com/storelane/sale-engine/internal/core/domain"
	"github.com/storelane/sale-engine/internal/core/service"
)

const (
	productID     = "stress-product"
	initialStock  = 20
	totalRequests = 50
)

func main() {
	ctx := context.Background()

	store := storage.NewMemoryStore()
	store.PutProduct(domain.Product{
		ID:            productID,
		Name:          "Stress Product",
		UnitPrice:     decimal.NewFromInt(500),
		StockQuantity: initialStock,
	})
	store.PutCustomer(domain.Customer{ID: "cust-1", FullName: "Walk-in"})
	store.PutEmployee(domain.Employee{ID: "emp-1", FullName: "Cashier"})

	sales := service.NewSaleService(store, lock.NewMemoryLocker(), service.DefaultLockTimeout, nil, nil)

	var successCount atomic.Int32
	var stockFailCount atomic.Int32
	var otherFailCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sales.ProcessSale(ctx, domain.SaleRequest{
				CustomerID:  "cust-1",
				EmployeeID:  "emp-1",
				ProductID:   productID,
				Quantity:    1,
				ClientTotal: decimal.NewFromInt(500),
			})
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				stockFailCount.Add(1)
			default:
				otherFailCount.Add(1)
				log.Printf("unexpected failure: %v", err)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	stockFail := stockFailCount.Load()

	fmt.Println("========== STRESS RESULTS ==========")
	fmt.Printf("Initial Stock:       %d\n", initialStock)
	fmt.Printf("Total Requests:      %d\n", totalRequests)
	fmt.Printf("Committed:           %d\n", success)
	fmt.Printf("Insufficient Stock:  %d\n", stockFail)
	fmt.Printf("Other Failures:      %d\n", otherFailCount.Load())
	fmt.Printf("Duration:            %v\n", elapsed)
	fmt.Println("====================================")

	if success == initialStock && stockFail == totalRequests-initialStock {
		fmt.Printf("PASS: exactly %d sales committed, %d rejected\n", initialStock, totalRequests-initialStock)
	} else {
		fmt.Printf("FAIL: expected %d committed/%d rejected, got %d/%d\n",
			initialStock, totalRequests-initialStock, success, stockFail)
	}

	product, err := store.GetProduct(ctx, productID)
	if err != nil {
		log.Fatalf("load product: %v", err)
	}
	fmt.Printf("Final Stock: %d\n", product.StockQuantity)
	if product.StockQuantity == 0 {
		fmt.Println("PASS: stock depleted to 0")
	} else {
		fmt.Printf("FAIL: expected stock 0, got %d\n", product.StockQuantity)
	}
}
