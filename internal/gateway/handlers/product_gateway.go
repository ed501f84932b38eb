package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"comercio-backend/internal/database/models"
	"comercio-backend/internal/integrations/cloudinary"
	"comercio-backend/internal/services/product"
)

type ProductHTTPHandler struct {
	service  *product.Service
	uploader *cloudinary.Uploader
}

func NewProductHTTPHandler(service *product.Service, uploader *cloudinary.Uploader) *ProductHTTPHandler {
	return &ProductHTTPHandler{service: service, uploader: uploader}
}

func productErrorStatus(err error) int {
	switch {
	case errors.Is(err, product.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, product.ErrDuplicateSku):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *ProductHTTPHandler) ListProducts(c *gin.Context) {
	products, err := h.service.ListProducts(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to list products: "+err.Error())
		return
	}
	success(c, products)
}

func (h *ProductHTTPHandler) GetProduct(c *gin.Context) {
	id, err := parseInt64Param(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	p, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		fail(c, productErrorStatus(err), err.Error())
		return
	}
	success(c, p)
}

func (h *ProductHTTPHandler) CreateProduct(c *gin.Context) {
	var req models.Product
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		fail(c, http.StatusBadRequest, "Product name is required")
		return
	}

	if err := h.service.CreateProduct(c.Request.Context(), &req); err != nil {
		fail(c, productErrorStatus(err), err.Error())
		return
	}
	created(c, req)
}

func (h *ProductHTTPHandler) UpdateProduct(c *gin.Context) {
	id, err := parseInt64Param(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req models.Product
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	p, err := h.service.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, productErrorStatus(err), err.Error())
		return
	}
	success(c, p)
}

func (h *ProductHTTPHandler) DeleteProduct(c *gin.Context) {
	id, err := parseInt64Param(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := h.service.DeleteProduct(c.Request.Context(), id); err != nil {
		fail(c, productErrorStatus(err), err.Error())
		return
	}
	success(c, gin.H{"deleted": true})
}

// UploadImages accepts multipart form files, pushes them to Cloudinary and
// replaces the product's image set with the resulting URLs.
func (h *ProductHTTPHandler) UploadImages(c *gin.Context) {
	id, err := parseInt64Param(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		fail(c, http.StatusBadRequest, "No images provided")
		return
	}
	if h.uploader == nil {
		fail(c, http.StatusServiceUnavailable, "Image uploads are not configured")
		return
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		url, err := h.uploader.Upload(c.Request.Context(), file)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Failed to upload image: "+err.Error())
			return
		}
		urls = append(urls, url)
	}

	p, err := h.service.ReplaceImages(c.Request.Context(), id, urls)
	if err != nil {
		fail(c, productErrorStatus(err), err.Error())
		return
	}
	success(c, p)
}
