package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"laptopshop-backend/internal/domains/catalog/model"
	"laptopshop-backend/internal/domains/catalog/service"
	"laptopshop-backend/internal/shared/response"
	"laptopshop-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// handleCatalogFailure reports validation failures as 400 with per-field
// details, then falls back to the shared catalog error mapping.
func handleCatalogFailure(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VAL_INVALID_INPUT", "Validation failed", verrs)
		return true
	}
	return model.HandleCatalogError(c, err)
}

type Handler struct {
	laptops *service.LaptopService
	images  *service.ImageService
}

func NewHandler(laptops *service.LaptopService, images *service.ImageService) *Handler {
	return &Handler{laptops: laptops, images: images}
}

// ListLaptops - GET /v1/laptops
// Query params: search, brand, category, price_min, price_max, sort, page, limit
func (h *Handler) ListLaptops(c *gin.Context) {
	query := model.ListLaptopsQuery{
		Search:       c.Query("search"),
		BrandSlug:    c.Query("brand"),
		CategorySlug: c.Query("category"),
		Sort:         c.DefaultQuery("sort", "newest"),
		Page:         1,
		Limit:        20,
		ActiveOnly:   true,
	}

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			query.Page = p
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			query.Limit = l
		}
	}
	if minStr := c.Query("price_min"); minStr != "" {
		if v, err := strconv.ParseFloat(minStr, 64); err == nil {
			query.PriceMin = utils.ParseFloatToDecimal(&v)
		}
	}
	if maxStr := c.Query("price_max"); maxStr != "" {
		if v, err := strconv.ParseFloat(maxStr, 64); err == nil {
			query.PriceMax = utils.ParseFloatToDecimal(&v)
		}
	}

	laptops, total, err := h.laptops.List(c.Request.Context(), query)
	if model.HandleCatalogError(c, err) {
		return
	}

	items := make([]model.LaptopResponse, 0, len(laptops))
	for i := range laptops {
		items = append(items, laptops[i].ToResponse())
	}

	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:  query.Page,
		Limit: query.Limit,
		Total: total,
	})
}

// GetLaptop - GET /v1/laptops/:slug
func (h *Handler) GetLaptop(c *gin.Context) {
	slug := c.Param("slug")

	laptop, err := h.laptops.GetBySlug(c.Request.Context(), slug)
	if model.HandleCatalogError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, laptop.ToResponse())
}

// CreateLaptop - POST /v1/admin/laptops
func (h *Handler) CreateLaptop(c *gin.Context) {
	var req model.CreateLaptopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	laptop, err := h.laptops.Create(c.Request.Context(), req)
	if handleCatalogFailure(c, err) {
		return
	}

	response.Success(c, http.StatusCreated, laptop.ToResponse())
}

// UpdateLaptop - PUT /v1/admin/laptops/:id
func (h *Handler) UpdateLaptop(c *gin.Context) {
	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		response.BadRequest(c, "Invalid laptop ID")
		return
	}

	var req model.UpdateLaptopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	laptop, err := h.laptops.Update(c.Request.Context(), uuid.MustParse(id), req)
	if model.HandleCatalogError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, laptop.ToResponse())
}

// DeleteLaptop - DELETE /v1/admin/laptops/:id
func (h *Handler) DeleteLaptop(c *gin.Context) {
	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		response.BadRequest(c, "Invalid laptop ID")
		return
	}

	err := h.laptops.Delete(c.Request.Context(), uuid.MustParse(id))
	if model.HandleCatalogError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// UploadImage - POST /v1/admin/laptops/:id/images
func (h *Handler) UploadImage(c *gin.Context) {
	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		response.BadRequest(c, "Invalid laptop ID")
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		response.BadRequest(c, "Missing image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, "Cannot read image file")
		return
	}

	sortOrder := 0
	if s := c.PostForm("sort_order"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			sortOrder = v
		}
	}

	img, err := h.images.Upload(
		c.Request.Context(),
		uuid.MustParse(id),
		data,
		header.Header.Get("Content-Type"),
		sortOrder,
	)
	if model.HandleCatalogError(c, err) {
		return
	}

	response.Success(c, http.StatusCreated, img)
}

// ListBrands - GET /v1/brands
func (h *Handler) ListBrands(c *gin.Context) {
	brands, err := h.laptops.ListBrands(c.Request.Context())
	if model.HandleCatalogError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, brands)
}

// CreateBrand - POST /v1/admin/brands
func (h *Handler) CreateBrand(c *gin.Context) {
	var req model.CreateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	brand, err := h.laptops.CreateBrand(c.Request.Context(), req)
	if handleCatalogFailure(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, brand)
}

// DeleteBrand - DELETE /v1/admin/brands/:id
func (h *Handler) DeleteBrand(c *gin.Context) {
	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		response.BadRequest(c, "Invalid brand ID")
		return
	}
	err := h.laptops.DeleteBrand(c.Request.Context(), uuid.MustParse(id))
	if model.HandleCatalogError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ListCategories - GET /v1/categories
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.laptops.ListCategories(c.Request.Context())
	if model.HandleCatalogError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, categories)
}

// CreateCategory - POST /v1/admin/categories
func (h *Handler) CreateCategory(c *gin.Context) {
	var req model.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data")
		return
	}

	category, err := h.laptops.CreateCategory(c.Request.Context(), req)
	if handleCatalogFailure(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, category)
}

// DeleteCategory - DELETE /v1/admin/categories/:id
func (h *Handler) DeleteCategory(c *gin.Context) {
	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		response.BadRequest(c, "Invalid category ID")
		return
	}
	err := h.laptops.DeleteCategory(c.Request.Context(), uuid.MustParse(id))
	if model.HandleCatalogError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
