package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"comercio-backend/internal/database/models"
	"comercio-backend/internal/gateway/middleware"
	"comercio-backend/internal/services/warehouse"
)

type WarehouseHTTPHandler struct {
	service *warehouse.Service
}

func NewWarehouseHTTPHandler(service *warehouse.Service) *WarehouseHTTPHandler {
	return &WarehouseHTTPHandler{service: service}
}

func stockErrorStatus(err error) int {
	switch {
	case errors.Is(err, warehouse.ErrWarehouseNotFound),
		errors.Is(err, warehouse.ErrItemNotFound),
		errors.Is(err, warehouse.ErrSourceItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, warehouse.ErrInsufficientStock),
		errors.Is(err, warehouse.ErrSameWarehouse),
		errors.Is(err, warehouse.ErrInvalidQuantity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Warehouse endpoints
func (h *WarehouseHTTPHandler) ListWarehouses(c *gin.Context) {
	warehouses, err := h.service.ListWarehouses(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to list warehouses: "+err.Error())
		return
	}
	success(c, warehouses)
}

func (h *WarehouseHTTPHandler) GetWarehouse(c *gin.Context) {
	w, err := h.service.GetWarehouse(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, stockErrorStatus(err), err.Error())
		return
	}
	success(c, w)
}

func (h *WarehouseHTTPHandler) CreateWarehouse(c *gin.Context) {
	var req models.Warehouse
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		fail(c, http.StatusBadRequest, "Warehouse name is required")
		return
	}

	if err := h.service.CreateWarehouse(c.Request.Context(), &req); err != nil {
		fail(c, http.StatusInternalServerError, "Failed to create warehouse: "+err.Error())
		return
	}
	created(c, req)
}

func (h *WarehouseHTTPHandler) UpdateWarehouse(c *gin.Context) {
	var req models.Warehouse
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	w, err := h.service.UpdateWarehouse(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		fail(c, stockErrorStatus(err), err.Error())
		return
	}
	success(c, w)
}

func (h *WarehouseHTTPHandler) DeleteWarehouse(c *gin.Context) {
	if err := h.service.DeleteWarehouse(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, stockErrorStatus(err), err.Error())
		return
	}
	success(c, gin.H{"deleted": true})
}

// Stock endpoints
type stockRequest struct {
	ProductID int64           `json:"productId" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required"`
	Location  string          `json:"location"`
	Price     decimal.Decimal `json:"price"`
	Cost      decimal.Decimal `json:"cost"`
}

func (h *WarehouseHTTPHandler) AddStock(c *gin.Context) {
	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.service.AddStock(c.Request.Context(), c.Param("id"),
		req.ProductID, req.Quantity, req.Location, req.Price, req.Cost,
		c.GetString(middleware.ContextUserID))
	if err != nil {
		fail(c, stockErrorStatus(err), err.Error())
		return
	}
	success(c, item)
}

func (h *WarehouseHTTPHandler) RemoveStock(c *gin.Context) {
	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.service.RemoveStock(c.Request.Context(), c.Param("id"),
		req.ProductID, req.Quantity, c.GetString(middleware.ContextUserID))
	if err != nil {
		fail(c, stockErrorStatus(err), err.Error())
		return
	}
	success(c, item)
}

type transferRequest struct {
	SourceWarehouseID string `json:"sourceWarehouseId" binding:"required"`
	TargetWarehouseID string `json:"targetWarehouseId" binding:"required"`
	ProductID         int64  `json:"productId" binding:"required"`
	Quantity          int    `json:"quantity" binding:"required"`
}

func (h *WarehouseHTTPHandler) TransferStock(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	err := h.service.TransferStock(c.Request.Context(),
		req.SourceWarehouseID, req.TargetWarehouseID,
		req.ProductID, req.Quantity, c.GetString(middleware.ContextUserID))
	if err != nil {
		fail(c, stockErrorStatus(err), err.Error())
		return
	}
	success(c, gin.H{"transferred": req.Quantity})
}

func (h *WarehouseHTTPHandler) GetItemsByProduct(c *gin.Context) {
	productID, err := parseInt64Param(c, "productId")
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	items, err := h.service.GetItemsByProduct(c.Request.Context(), productID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to get items: "+err.Error())
		return
	}
	success(c, items)
}

type priceCostRequest struct {
	Price decimal.Decimal `json:"price"`
	Cost  decimal.Decimal `json:"cost"`
}

func (h *WarehouseHTTPHandler) UpdatePriceAndCost(c *gin.Context) {
	productID, err := parseInt64Param(c, "productId")
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req priceCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	touched, err := h.service.UpdatePriceAndCost(c.Request.Context(), productID, req.Price, req.Cost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to update price and cost: "+err.Error())
		return
	}
	success(c, gin.H{"updatedItems": touched})
}

func (h *WarehouseHTTPHandler) ListMovements(c *gin.Context) {
	movements, err := h.service.ListMovements(c.Request.Context(), c.Param("itemId"))
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to list movements: "+err.Error())
		return
	}
	success(c, movements)
}
