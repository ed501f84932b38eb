package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"comercio-backend/internal/database/models"
	"comercio-backend/internal/services/expense"
)

type ExpenseHTTPHandler struct {
	service *expense.Service
}

func NewExpenseHTTPHandler(service *expense.Service) *ExpenseHTTPHandler {
	return &ExpenseHTTPHandler{service: service}
}

func expenseFilter(c *gin.Context) expense.Filter {
	return expense.Filter{
		Category: models.ExpenseCategory(c.Query("category")),
		From:     parseTimeQuery(c, "from"),
		To:       parseTimeQuery(c, "to"),
	}
}

func (h *ExpenseHTTPHandler) ListExpenses(c *gin.Context) {
	expenses, err := h.service.ListExpenses(c.Request.Context(), expenseFilter(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to list expenses: "+err.Error())
		return
	}
	success(c, expenses)
}

func (h *ExpenseHTTPHandler) GetExpense(c *gin.Context) {
	e, err := h.service.GetExpense(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, expense.ErrExpenseNotFound) {
			fail(c, http.StatusNotFound, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to get expense: "+err.Error())
		return
	}
	success(c, e)
}

func (h *ExpenseHTTPHandler) CreateExpense(c *gin.Context) {
	var req models.Expense
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Description == "" {
		fail(c, http.StatusBadRequest, "Expense description is required")
		return
	}

	if err := h.service.CreateExpense(c.Request.Context(), &req); err != nil {
		fail(c, http.StatusInternalServerError, "Failed to create expense: "+err.Error())
		return
	}
	created(c, req)
}

func (h *ExpenseHTTPHandler) UpdateExpense(c *gin.Context) {
	var req models.Expense
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	e, err := h.service.UpdateExpense(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, expense.ErrExpenseNotFound) {
			fail(c, http.StatusNotFound, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to update expense: "+err.Error())
		return
	}
	success(c, e)
}

func (h *ExpenseHTTPHandler) DeleteExpense(c *gin.Context) {
	if err := h.service.DeleteExpense(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, expense.ErrExpenseNotFound) {
			fail(c, http.StatusNotFound, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to delete expense: "+err.Error())
		return
	}
	success(c, gin.H{"deleted": true})
}

func (h *ExpenseHTTPHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), expenseFilter(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to build summary: "+err.Error())
		return
	}
	success(c, summary)
}
