package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"comercio-backend/internal/services/purchase"
)

type PurchaseHTTPHandler struct {
	service *purchase.Service
}

func NewPurchaseHTTPHandler(service *purchase.Service) *PurchaseHTTPHandler {
	return &PurchaseHTTPHandler{service: service}
}

func orderErrorStatus(err error) int {
	switch {
	case errors.Is(err, purchase.ErrOrderNotFound),
		errors.Is(err, purchase.ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, purchase.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *PurchaseHTTPHandler) ListOrders(c *gin.Context) {
	orders, err := h.service.ListOrders(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to list orders: "+err.Error())
		return
	}
	success(c, orders)
}

func (h *PurchaseHTTPHandler) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, orderErrorStatus(err), err.Error())
		return
	}
	success(c, order)
}

func (h *PurchaseHTTPHandler) CreateOrder(c *gin.Context) {
	var req purchase.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), req)
	if err != nil {
		fail(c, orderErrorStatus(err), err.Error())
		return
	}
	created(c, order)
}

func (h *PurchaseHTTPHandler) UpdateOrder(c *gin.Context) {
	var req purchase.UpdateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.service.UpdateOrder(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, orderErrorStatus(err), err.Error())
		return
	}
	success(c, order)
}

func (h *PurchaseHTTPHandler) DeleteOrder(c *gin.Context) {
	if err := h.service.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, orderErrorStatus(err), err.Error())
		return
	}
	success(c, gin.H{"deleted": true})
}

func (h *PurchaseHTTPHandler) AddDocument(c *gin.Context) {
	var req purchase.DocumentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	doc, err := h.service.AddDocument(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, orderErrorStatus(err), err.Error())
		return
	}
	created(c, doc)
}

func (h *PurchaseHTTPHandler) UpdateDocument(c *gin.Context) {
	var req purchase.DocumentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	doc, err := h.service.UpdateDocument(c.Request.Context(), c.Param("documentId"), req)
	if err != nil {
		fail(c, orderErrorStatus(err), err.Error())
		return
	}
	success(c, doc)
}
