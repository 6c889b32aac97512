package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/storelane/sale-engine/internal/core/domain"
	"github.com/storelane/sale-engine/internal/core/service"
	"github.com/storelane/sale-engine/internal/port"
)

type HTTPHandler struct {
	sales *service.SaleService
	store port.Store
}

func NewHTTPHandler(sales *service.SaleService, store port.Store) *HTTPHandler {
	return &HTTPHandler{sales: sales, store: store}
}

// Register mounts the engine's routes on r.
func (h *HTTPHandler) Register(r *gin.Engine) {
	r.GET("/health", h.HealthCheck)
	api := r.Group("/api")
	api.POST("/sales", h.ProcessSale)
	api.POST("/adjustments", h.RecordAdjustment)
	api.GET("/products/:id", h.GetProduct)
	api.GET("/products/:id/transactions", h.ListTransactions)
}

type saleRequest struct {
	CustomerID  string          `json:"customer_id" binding:"required"`
	EmployeeID  string          `json:"employee_id" binding:"required"`
	ProductID   string          `json:"product_id" binding:"required"`
	Quantity    int             `json:"quantity"`
	ClientTotal decimal.Decimal `json:"client_total"`
}

type saleResponse struct {
	SaleID      string `json:"sale_id"`
	TotalAmount string `json:"total_amount"`
	UnitPrice   string `json:"unit_price"`
	Quantity    int    `json:"quantity"`
}

func (h *HTTPHandler) ProcessSale(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sale, err := h.sales.ProcessSale(c.Request.Context(), domain.SaleRequest{
		CustomerID:  req.CustomerID,
		EmployeeID:  req.EmployeeID,
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		ClientTotal: req.ClientTotal,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, saleResponse{
		SaleID:      sale.ID,
		TotalAmount: sale.TotalAmount.String(),
		UnitPrice:   sale.UnitPrice.String(),
		Quantity:    sale.Quantity,
	})
}

type adjustmentRequest struct {
	ProductID  string `json:"product_id" binding:"required"`
	EmployeeID string `json:"employee_id" binding:"required"`
	Type       string `json:"type" binding:"required"`
	Quantity   int    `json:"quantity"`
	Reason     string `json:"reason"`
}

type adjustmentResponse struct {
	TransactionID string `json:"transaction_id"`
	Delta         int    `json:"delta"`
}

func (h *HTTPHandler) RecordAdjustment(c *gin.Context) {
	var req adjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.sales.RecordAdjustment(c.Request.Context(),
		req.ProductID, domain.TransactionType(req.Type), req.Quantity, req.Reason, req.EmployeeID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, adjustmentResponse{
		TransactionID: entry.ID,
		Delta:         entry.Quantity,
	})
}

func (h *HTTPHandler) GetProduct(c *gin.Context) {
	product, err := h.store.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":             product.ID,
		"name":           product.Name,
		"unit_price":     product.UnitPrice.String(),
		"stock_quantity": product.StockQuantity,
		"reorder_level":  product.ReorderLevel,
	})
}

func (h *HTTPHandler) ListTransactions(c *gin.Context) {
	entries, err := h.store.ListTransactions(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": entries, "count": len(entries)})
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// writeError maps engine errors to HTTP statuses. Retriable failures carry a
// flag telling the caller the identical request can be re-submitted safely.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrEntityNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidTransactionType):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInsufficientStock):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrLockTimeout),
		errors.Is(err, domain.ErrPersistenceUnavailable):
		status = http.StatusServiceUnavailable
	}

	body := gin.H{
		"error":     err.Error(),
		"retriable": domain.Retriable(err),
	}

	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		body["requested"] = stockErr.Requested
		body["available"] = stockErr.Available
	}

	c.JSON(status, body)
}
