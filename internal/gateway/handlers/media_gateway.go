package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"comercio-backend/internal/integrations/imagekit"
)

type MediaHTTPHandler struct {
	imagekit *imagekit.Client
}

func NewMediaHTTPHandler(client *imagekit.Client) *MediaHTTPHandler {
	return &MediaHTTPHandler{imagekit: client}
}

// UploadPhoto pushes a single photo to ImageKit and returns its URL. Used for
// standalone uploads (vouchers, banners) that are not tied to a product.
func (h *MediaHTTPHandler) UploadPhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		fail(c, http.StatusBadRequest, "Photo file is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "Failed to read photo: "+err.Error())
		return
	}
	defer src.Close()

	folder := c.DefaultPostForm("folder", "uploads")
	url, err := h.imagekit.Upload(c.Request.Context(), file.Filename, src, folder)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to upload photo: "+err.Error())
		return
	}
	success(c, gin.H{"url": url})
}
