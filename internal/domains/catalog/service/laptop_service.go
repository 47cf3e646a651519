package service

import (
	"context"

	"laptopshop-backend/internal/domains/catalog/model"
	"laptopshop-backend/internal/domains/catalog/repository"
	"laptopshop-backend/internal/shared"
	"laptopshop-backend/internal/shared/utils"
	"laptopshop-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LaptopService struct {
	laptops    repository.LaptopRepository
	brands     repository.BrandRepository
	categories repository.CategoryRepository
	images     repository.ImageRepository
	enqueuer   shared.Enqueuer
}

func NewLaptopService(
	laptops repository.LaptopRepository,
	brands repository.BrandRepository,
	categories repository.CategoryRepository,
	images repository.ImageRepository,
	enqueuer shared.Enqueuer,
) *LaptopService {
	return &LaptopService{
		laptops:    laptops,
		brands:     brands,
		categories: categories,
		images:     images,
		enqueuer:   enqueuer,
	}
}

func (s *LaptopService) List(ctx context.Context, query model.ListLaptopsQuery) ([]model.Laptop, int, error) {
	if err := query.Validate(); err != nil {
		return nil, 0, err
	}
	return s.laptops.List(ctx, query)
}

// GetBySlug returns the laptop detail including its images
func (s *LaptopService) GetBySlug(ctx context.Context, slug string) (*model.Laptop, error) {
	laptop, err := s.laptops.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	images, err := s.images.ListByLaptop(ctx, laptop.ID)
	if err != nil {
		return nil, err
	}
	laptop.Images = images

	return laptop, nil
}

func (s *LaptopService) GetByID(ctx context.Context, id uuid.UUID) (*model.Laptop, error) {
	return s.laptops.GetByID(ctx, id)
}

func (s *LaptopService) Create(ctx context.Context, req model.CreateLaptopRequest) (*model.Laptop, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	brandID := utils.ParseStringToUUID(req.BrandID)
	categoryID := utils.ParseStringToUUID(req.CategoryID)

	if _, err := s.brands.GetByID(ctx, brandID); err != nil {
		return nil, err
	}
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}

	slug := utils.GenerateSlug(req.Name)
	exists, err := s.laptops.SlugExists(ctx, slug, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrSlugAlreadyExists
	}

	laptop := &model.Laptop{
		ID:          uuid.New(),
		Name:        req.Name,
		Slug:        slug,
		BrandID:     brandID,
		CategoryID:  categoryID,
		Description: req.Description,
		CPU:         req.CPU,
		RAM:         req.RAM,
		Storage:     req.Storage,
		GPU:         req.GPU,
		Screen:      req.Screen,
		Price:       decimal.NewFromFloat(req.Price).Round(2),
		Quantity:    req.Quantity,
		IsActive:    true,
	}

	if err := s.laptops.Create(ctx, laptop); err != nil {
		return nil, err
	}

	logger.Info("laptop created", map[string]interface{}{
		"laptop_id": laptop.ID.String(),
		"slug":      laptop.Slug,
	})

	return laptop, nil
}

func (s *LaptopService) Update(ctx context.Context, id uuid.UUID, req model.UpdateLaptopRequest) (*model.Laptop, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	laptop, err := s.laptops.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != laptop.Name {
		slug := utils.GenerateSlug(*req.Name)
		exists, err := s.laptops.SlugExists(ctx, slug, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, model.ErrSlugAlreadyExists
		}
		laptop.Name = *req.Name
		laptop.Slug = slug
	}
	if req.BrandID != nil {
		brandID := utils.ParseStringToUUID(*req.BrandID)
		if _, err := s.brands.GetByID(ctx, brandID); err != nil {
			return nil, err
		}
		laptop.BrandID = brandID
	}
	if req.CategoryID != nil {
		categoryID := utils.ParseStringToUUID(*req.CategoryID)
		if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
			return nil, err
		}
		laptop.CategoryID = categoryID
	}
	if req.Description != nil {
		laptop.Description = req.Description
	}
	if req.CPU != nil {
		laptop.CPU = *req.CPU
	}
	if req.RAM != nil {
		laptop.RAM = *req.RAM
	}
	if req.Storage != nil {
		laptop.Storage = *req.Storage
	}
	if req.GPU != nil {
		laptop.GPU = req.GPU
	}
	if req.Screen != nil {
		laptop.Screen = req.Screen
	}
	if req.Price != nil {
		laptop.Price = decimal.NewFromFloat(*req.Price).Round(2)
	}
	if req.Quantity != nil {
		laptop.Quantity = *req.Quantity
	}
	if req.IsActive != nil {
		laptop.IsActive = *req.IsActive
	}

	if err := s.laptops.Update(ctx, laptop); err != nil {
		return nil, err
	}

	return laptop, nil
}

// Delete deactivates the laptop and schedules its images for removal
func (s *LaptopService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.laptops.SoftDelete(ctx, id); err != nil {
		return err
	}

	if err := s.enqueuer.EnqueueTask(ctx, shared.TypeDeleteLaptopImages, shared.ImagePayload{
		LaptopID: id.String(),
	}); err != nil {
		// Orphaned objects are cleaned up by the periodic job, so log and move on
		logger.Warn("failed to enqueue image cleanup", map[string]interface{}{
			"laptop_id": id.String(),
			"error":     err.Error(),
		})
	}

	return nil
}

func (s *LaptopService) ListBrands(ctx context.Context) ([]model.Brand, error) {
	return s.brands.List(ctx)
}

func (s *LaptopService) CreateBrand(ctx context.Context, req model.CreateBrandRequest) (*model.Brand, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	brand := &model.Brand{
		ID:   uuid.New(),
		Name: req.Name,
		Slug: utils.GenerateSlug(req.Name),
	}
	if err := s.brands.Create(ctx, brand); err != nil {
		return nil, err
	}
	return brand, nil
}

func (s *LaptopService) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	return s.brands.Delete(ctx, id)
}

func (s *LaptopService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categories.List(ctx)
}

func (s *LaptopService) CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	category := &model.Category{
		ID:   uuid.New(),
		Name: req.Name,
		Slug: utils.GenerateSlug(req.Name),
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *LaptopService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.categories.Delete(ctx, id)
}
