package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"comercio-backend/internal/integrations/mailer"
	"comercio-backend/internal/integrations/whatsapp"
	"comercio-backend/internal/services/purchase"
)

type NotifyHTTPHandler struct {
	whatsapp *whatsapp.Client
	mailer   *mailer.Mailer
	orders   *purchase.Service
}

func NewNotifyHTTPHandler(wa *whatsapp.Client, mail *mailer.Mailer, orders *purchase.Service) *NotifyHTTPHandler {
	return &NotifyHTTPHandler{whatsapp: wa, mailer: mail, orders: orders}
}

type whatsappMessageRequest struct {
	To      string `json:"to" binding:"required"`
	Body    string `json:"body"`
	OrderID string `json:"orderId"`
}

// SendWhatsApp sends either a free-form text or, when orderId is set, the
// order status notification for that order.
func (h *NotifyHTTPHandler) SendWhatsApp(c *gin.Context) {
	var req whatsappMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.OrderID != "" {
		order, err := h.orders.GetOrder(c.Request.Context(), req.OrderID)
		if err != nil {
			fail(c, orderErrorStatus(err), err.Error())
			return
		}
		if err := h.whatsapp.NotifyOrderStatus(c.Request.Context(), req.To, order); err != nil {
			fail(c, http.StatusBadGateway, "Failed to send message: "+err.Error())
			return
		}
		success(c, gin.H{"sent": true})
		return
	}

	if req.Body == "" {
		fail(c, http.StatusBadRequest, "Either body or orderId is required")
		return
	}
	if err := h.whatsapp.SendText(c.Request.Context(), req.To, req.Body); err != nil {
		fail(c, http.StatusBadGateway, "Failed to send message: "+err.Error())
		return
	}
	success(c, gin.H{"sent": true})
}

type mailRequest struct {
	To      string `json:"to" binding:"required,email"`
	OrderID string `json:"orderId" binding:"required"`
}

func (h *NotifyHTTPHandler) SendOrderConfirmation(c *gin.Context) {
	var req mailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), req.OrderID)
	if err != nil {
		fail(c, orderErrorStatus(err), err.Error())
		return
	}

	if err := h.mailer.SendOrderConfirmation(req.To, order); err != nil {
		fail(c, http.StatusBadGateway, "Failed to send mail: "+err.Error())
		return
	}
	success(c, gin.H{"sent": true})
}
