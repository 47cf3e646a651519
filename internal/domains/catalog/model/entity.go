package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// ENTITY: Laptop
// =====================================================
type Laptop struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Slug        string          `json:"slug" db:"slug"`
	BrandID     uuid.UUID       `json:"brand_id" db:"brand_id"`
	CategoryID  uuid.UUID       `json:"category_id" db:"category_id"`
	Description *string         `json:"description,omitempty" db:"description"`
	CPU         string          `json:"cpu" db:"cpu"`
	RAM         string          `json:"ram" db:"ram"`
	Storage     string          `json:"storage" db:"storage"`
	GPU         *string         `json:"gpu,omitempty" db:"gpu"`
	Screen      *string         `json:"screen,omitempty" db:"screen"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Sold        int             `json:"sold" db:"sold"`
	IsActive    bool            `json:"is_active" db:"is_active"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`

	// Joined fields, not columns on laptops
	BrandName    string        `json:"brand_name,omitempty" db:"-"`
	CategoryName string        `json:"category_name,omitempty" db:"-"`
	Images       []LaptopImage `json:"images,omitempty" db:"-"`
}

// InStock reports whether the requested quantity can be fulfilled
func (l *Laptop) InStock(qty int) bool {
	return l.IsActive && l.Quantity >= qty
}

// =====================================================
// ENTITY: LaptopImage
// =====================================================
type LaptopImage struct {
	ID           uuid.UUID `json:"id" db:"id"`
	LaptopID     uuid.UUID `json:"laptop_id" db:"laptop_id"`
	ObjectKey    string    `json:"object_key" db:"object_key"`
	URL          string    `json:"url" db:"url"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty" db:"thumbnail_url"`
	SortOrder    int       `json:"sort_order" db:"sort_order"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// =====================================================
// ENTITY: Brand
// =====================================================
type Brand struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// =====================================================
// ENTITY: Category
// =====================================================
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
