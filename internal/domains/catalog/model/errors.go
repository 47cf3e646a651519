package model

import (
	"errors"
	"net/http"

	"laptopshop-backend/internal/shared/response"
	"laptopshop-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

var (
	ErrInvalidPageLimit   = errors.New("page and limit must be positive")
	ErrInvalidPriceRange  = errors.New("price_min must be <= price_max")
	ErrInvalidSort        = errors.New("invalid sort parameter")
	ErrInvalidUUID        = errors.New("invalid UUID format")
	ErrLaptopNotFound     = errors.New("laptop not found")
	ErrBrandNotFound      = errors.New("brand not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrSlugAlreadyExists  = errors.New("slug already exists")
	ErrLaptopHasOrders    = errors.New("laptop has active orders and cannot be deleted")
	ErrImageTooLarge      = errors.New("image exceeds maximum size (5MB)")
	ErrInvalidImageFormat = errors.New("image must be JPEG or PNG format")
)

var catalogErrorMap = map[error]struct {
	Status  int
	Code    string
	Message string
}{
	ErrLaptopNotFound:     {http.StatusNotFound, "LAPTOP_NOT_FOUND", "The specified laptop does not exist"},
	ErrBrandNotFound:      {http.StatusBadRequest, "BRAND_NOT_FOUND", "The specified brand does not exist"},
	ErrCategoryNotFound:   {http.StatusBadRequest, "CATEGORY_NOT_FOUND", "The specified category does not exist"},
	ErrSlugAlreadyExists:  {http.StatusConflict, "SLUG_EXISTS", "A product with similar name already exists"},
	ErrLaptopHasOrders:    {http.StatusBadRequest, "LAPTOP_HAS_ORDERS", "Laptop has active orders and cannot be deleted"},
	ErrInvalidPageLimit:   {http.StatusBadRequest, "INVALID_PAGINATION", "Page and limit must be positive"},
	ErrInvalidPriceRange:  {http.StatusBadRequest, "INVALID_PRICE_RANGE", "price_min must be less than or equal to price_max"},
	ErrInvalidSort:        {http.StatusBadRequest, "INVALID_SORT", "Unsupported sort parameter"},
	ErrImageTooLarge:      {http.StatusBadRequest, "IMAGE_TOO_LARGE", "Image exceeds maximum size (5MB)"},
	ErrInvalidImageFormat: {http.StatusBadRequest, "INVALID_IMAGE_FORMAT", "Image must be JPEG or PNG"},
}

// HandleCatalogError writes the matching HTTP response for a catalog error.
// Returns true when err was non-nil and a response has been written.
func HandleCatalogError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	for sentinel, cfg := range catalogErrorMap {
		if errors.Is(err, sentinel) {
			response.ErrorResponse(c, cfg.Status, cfg.Code, cfg.Message)
			return true
		}
	}

	logger.Error("catalog request failed", err)
	response.InternalServerError(c, "Internal server error")
	return true
}
