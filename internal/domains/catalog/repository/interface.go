package repository

import (
	"context"

	"laptopshop-backend/internal/domains/catalog/model"

	"github.com/google/uuid"
)

type LaptopRepository interface {
	Create(ctx context.Context, laptop *model.Laptop) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Laptop, error)
	GetBySlug(ctx context.Context, slug string) (*model.Laptop, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Laptop, error)
	List(ctx context.Context, query model.ListLaptopsQuery) ([]model.Laptop, int, error)
	Update(ctx context.Context, laptop *model.Laptop) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
}

type BrandRepository interface {
	Create(ctx context.Context, brand *model.Brand) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Brand, error)
	GetBySlug(ctx context.Context, slug string) (*model.Brand, error)
	List(ctx context.Context) ([]model.Brand, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ImageRepository interface {
	Insert(ctx context.Context, img *model.LaptopImage) error
	ListByLaptop(ctx context.Context, laptopID uuid.UUID) ([]model.LaptopImage, error)
	DeleteByLaptop(ctx context.Context, laptopID uuid.UUID) ([]string, error)
}
