package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"comercio-backend/internal/services/report"
)

type ReportHTTPHandler struct {
	service *report.Service
}

func NewReportHTTPHandler(service *report.Service) *ReportHTTPHandler {
	return &ReportHTTPHandler{service: service}
}

func (h *ReportHTTPHandler) Overview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to build overview: "+err.Error())
		return
	}
	success(c, overview)
}

func (h *ReportHTTPHandler) Summary(c *gin.Context) {
	year := time.Now().Year()
	if q := c.Query("year"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil {
			fail(c, http.StatusBadRequest, "Invalid year")
			return
		}
		year = parsed
	}

	summary, err := h.service.YearlySummary(c.Request.Context(), year)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to build summary: "+err.Error())
		return
	}
	success(c, summary)
}

func (h *ReportHTTPHandler) Categories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to list categories: "+err.Error())
		return
	}
	success(c, categories)
}

func (h *ReportHTTPHandler) ExportInventory(c *gin.Context) {
	payload, err := h.service.ExportInventoryXLSX(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to export inventory: "+err.Error())
		return
	}

	fileName := fmt.Sprintf("inventory-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", payload)
}
