package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// REQUEST DTOs
// =====================================================

type CreateLaptopRequest struct {
	Name        string  `json:"name"`
	BrandID     string  `json:"brand_id"`
	CategoryID  string  `json:"category_id"`
	Description *string `json:"description"`
	CPU         string  `json:"cpu"`
	RAM         string  `json:"ram"`
	Storage     string  `json:"storage"`
	GPU         *string `json:"gpu"`
	Screen      *string `json:"screen"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

func (r CreateLaptopRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(3, 255)),
		validation.Field(&r.BrandID, validation.Required, validation.By(validateUUID)),
		validation.Field(&r.CategoryID, validation.Required, validation.By(validateUUID)),
		validation.Field(&r.CPU, validation.Required),
		validation.Field(&r.RAM, validation.Required),
		validation.Field(&r.Storage, validation.Required),
		validation.Field(&r.Price, validation.Required, validation.Min(0.01)),
		validation.Field(&r.Quantity, validation.Min(0)),
	)
}

type UpdateLaptopRequest struct {
	Name        *string  `json:"name"`
	BrandID     *string  `json:"brand_id"`
	CategoryID  *string  `json:"category_id"`
	Description *string  `json:"description"`
	CPU         *string  `json:"cpu"`
	RAM         *string  `json:"ram"`
	Storage     *string  `json:"storage"`
	GPU         *string  `json:"gpu"`
	Screen      *string  `json:"screen"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
	IsActive    *bool    `json:"is_active"`
}

func (r UpdateLaptopRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(3, 255)),
		validation.Field(&r.Price, validation.Min(0.01)),
		validation.Field(&r.Quantity, validation.Min(0)),
	)
}

type CreateBrandRequest struct {
	Name string `json:"name"`
}

func (r CreateBrandRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 100)),
	)
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

func (r CreateCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 100)),
	)
}

// ListLaptopsQuery holds the filter/sort/pagination params from the query string
type ListLaptopsQuery struct {
	Page       int
	Limit      int
	BrandSlug  string
	CategorySlug string
	PriceMin   *decimal.Decimal
	PriceMax   *decimal.Decimal
	Search     string
	Sort       string // price_asc, price_desc, newest, best_selling
	ActiveOnly bool
}

func (q ListLaptopsQuery) Validate() error {
	if q.Page <= 0 || q.Limit <= 0 {
		return ErrInvalidPageLimit
	}
	if q.PriceMin != nil && q.PriceMax != nil && q.PriceMin.GreaterThan(*q.PriceMax) {
		return ErrInvalidPriceRange
	}
	switch q.Sort {
	case "", "price_asc", "price_desc", "newest", "best_selling":
	default:
		return ErrInvalidSort
	}
	return nil
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type LaptopResponse struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Slug         string        `json:"slug"`
	BrandName    string        `json:"brand_name"`
	CategoryName string        `json:"category_name"`
	Description  *string       `json:"description,omitempty"`
	CPU          string        `json:"cpu"`
	RAM          string        `json:"ram"`
	Storage      string        `json:"storage"`
	GPU          *string       `json:"gpu,omitempty"`
	Screen       *string       `json:"screen,omitempty"`
	Price        string        `json:"price"`
	Quantity     int           `json:"quantity"`
	Sold         int           `json:"sold"`
	IsActive     bool          `json:"is_active"`
	Images       []LaptopImage `json:"images,omitempty"`
}

// ToResponse converts entity to response DTO
func (l *Laptop) ToResponse() LaptopResponse {
	return LaptopResponse{
		ID:           l.ID,
		Name:         l.Name,
		Slug:         l.Slug,
		BrandName:    l.BrandName,
		CategoryName: l.CategoryName,
		Description:  l.Description,
		CPU:          l.CPU,
		RAM:          l.RAM,
		Storage:      l.Storage,
		GPU:          l.GPU,
		Screen:       l.Screen,
		Price:        l.Price.StringFixed(2),
		Quantity:     l.Quantity,
		Sold:         l.Sold,
		IsActive:     l.IsActive,
		Images:       l.Images,
	}
}

func validateUUID(value interface{}) error {
	s, _ := value.(string)
	if _, err := uuid.Parse(s); err != nil {
		return ErrInvalidUUID
	}
	return nil
}
