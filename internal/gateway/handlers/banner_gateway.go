package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"comercio-backend/internal/database/models"
	"comercio-backend/internal/services/banner"
)

type BannerHTTPHandler struct {
	service *banner.Service
}

func NewBannerHTTPHandler(service *banner.Service) *BannerHTTPHandler {
	return &BannerHTTPHandler{service: service}
}

func (h *BannerHTTPHandler) ListBanners(c *gin.Context) {
	banners, err := h.service.ListBanners(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to list banners: "+err.Error())
		return
	}
	success(c, banners)
}

func (h *BannerHTTPHandler) ActiveBanners(c *gin.Context) {
	banners, err := h.service.ActiveBanners(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to list active banners: "+err.Error())
		return
	}
	success(c, banners)
}

func (h *BannerHTTPHandler) GetBanner(c *gin.Context) {
	b, err := h.service.GetBanner(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, banner.ErrBannerNotFound) {
			fail(c, http.StatusNotFound, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to get banner: "+err.Error())
		return
	}
	success(c, b)
}

func (h *BannerHTTPHandler) CreateBanner(c *gin.Context) {
	var req models.Banner
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Title == "" || req.ImageURL == "" {
		fail(c, http.StatusBadRequest, "Banner title and image URL are required")
		return
	}

	if err := h.service.CreateBanner(c.Request.Context(), &req); err != nil {
		fail(c, http.StatusInternalServerError, "Failed to create banner: "+err.Error())
		return
	}
	created(c, req)
}

func (h *BannerHTTPHandler) UpdateBanner(c *gin.Context) {
	var req models.Banner
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	b, err := h.service.UpdateBanner(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, banner.ErrBannerNotFound) {
			fail(c, http.StatusNotFound, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to update banner: "+err.Error())
		return
	}
	success(c, b)
}

type bannerStatusRequest struct {
	Status models.BannerStatus `json:"status" binding:"required"`
}

func (h *BannerHTTPHandler) SetStatus(c *gin.Context) {
	var req bannerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	b, err := h.service.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		if errors.Is(err, banner.ErrBannerNotFound) {
			fail(c, http.StatusNotFound, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to update banner status: "+err.Error())
		return
	}
	success(c, b)
}

func (h *BannerHTTPHandler) DeleteBanner(c *gin.Context) {
	if err := h.service.DeleteBanner(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, banner.ErrBannerNotFound) {
			fail(c, http.StatusNotFound, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to delete banner: "+err.Error())
		return
	}
	success(c, gin.H{"deleted": true})
}
