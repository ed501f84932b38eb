package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"comercio-backend/internal/database/models"
	"comercio-backend/internal/services/discount"
)

type DiscountHTTPHandler struct {
	service *discount.Service
}

func NewDiscountHTTPHandler(service *discount.Service) *DiscountHTTPHandler {
	return &DiscountHTTPHandler{service: service}
}

func (h *DiscountHTTPHandler) ListDiscounts(c *gin.Context) {
	discounts, err := h.service.ListDiscounts(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to list discounts: "+err.Error())
		return
	}
	success(c, discounts)
}

func (h *DiscountHTTPHandler) ActiveGlobalDiscounts(c *gin.Context) {
	discounts, err := h.service.ActiveGlobalDiscounts(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to list active discounts: "+err.Error())
		return
	}
	success(c, discounts)
}

func (h *DiscountHTTPHandler) GetDiscount(c *gin.Context) {
	id, err := parseInt64Param(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid discount ID")
		return
	}

	d, err := h.service.GetDiscount(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, discount.ErrDiscountNotFound) {
			fail(c, http.StatusNotFound, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to get discount: "+err.Error())
		return
	}
	success(c, d)
}

func (h *DiscountHTTPHandler) CreateDiscount(c *gin.Context) {
	var req models.Discount
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		fail(c, http.StatusBadRequest, "Discount name is required")
		return
	}

	if err := h.service.CreateDiscount(c.Request.Context(), &req); err != nil {
		fail(c, http.StatusInternalServerError, "Failed to create discount: "+err.Error())
		return
	}
	created(c, req)
}

func (h *DiscountHTTPHandler) UpdateDiscount(c *gin.Context) {
	id, err := parseInt64Param(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid discount ID")
		return
	}

	var req models.Discount
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	d, err := h.service.UpdateDiscount(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, discount.ErrDiscountNotFound) {
			fail(c, http.StatusNotFound, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to update discount: "+err.Error())
		return
	}
	success(c, d)
}

func (h *DiscountHTTPHandler) DeleteDiscount(c *gin.Context) {
	id, err := parseInt64Param(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid discount ID")
		return
	}

	if err := h.service.DeleteDiscount(c.Request.Context(), id); err != nil {
		if errors.Is(err, discount.ErrDiscountNotFound) {
			fail(c, http.StatusNotFound, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to delete discount: "+err.Error())
		return
	}
	success(c, gin.H{"deleted": true})
}
