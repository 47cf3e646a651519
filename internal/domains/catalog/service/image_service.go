package service

import (
	"context"
	"fmt"

	"laptopshop-backend/internal/domains/catalog/model"
	"laptopshop-backend/internal/domains/catalog/repository"
	"laptopshop-backend/internal/infrastructure/storage"
	"laptopshop-backend/internal/shared"
	"laptopshop-backend/pkg/logger"

	"github.com/google/uuid"
)

// ImageService handles laptop image uploads.
// The original file is stored immediately; resized variants are produced
// asynchronously by the worker.
type ImageService struct {
	laptops   repository.LaptopRepository
	images    repository.ImageRepository
	storage   *storage.MinIOStorage
	processor *storage.ImageProcessor
	enqueuer  shared.Enqueuer
}

func NewImageService(
	laptops repository.LaptopRepository,
	images repository.ImageRepository,
	store *storage.MinIOStorage,
	processor *storage.ImageProcessor,
	enqueuer shared.Enqueuer,
) *ImageService {
	return &ImageService{
		laptops:   laptops,
		images:    images,
		storage:   store,
		processor: processor,
		enqueuer:  enqueuer,
	}
}

func (s *ImageService) Upload(ctx context.Context, laptopID uuid.UUID, data []byte, contentType string, sortOrder int) (*model.LaptopImage, error) {
	if _, err := s.laptops.GetByID(ctx, laptopID); err != nil {
		return nil, err
	}

	if err := s.processor.ValidateImage(data); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrInvalidImageFormat, err.Error())
	}

	imageID := uuid.New()
	objectKey := fmt.Sprintf("laptops/%s/%s_original.jpg", laptopID, imageID)

	url, err := s.storage.Upload(ctx, objectKey, data, contentType)
	if err != nil {
		return nil, err
	}

	img := &model.LaptopImage{
		ID:        imageID,
		LaptopID:  laptopID,
		ObjectKey: objectKey,
		URL:       url,
		SortOrder: sortOrder,
	}
	if err := s.images.Insert(ctx, img); err != nil {
		return nil, err
	}

	// Variants are generated out of band
	if err := s.enqueuer.EnqueueTask(ctx, shared.TypeProcessLaptopImage, shared.ImagePayload{
		LaptopID:   laptopID.String(),
		ObjectName: objectKey,
	}); err != nil {
		logger.Warn("failed to enqueue image processing", map[string]interface{}{
			"laptop_id": laptopID.String(),
			"error":     err.Error(),
		})
	}

	return img, nil
}

// ProcessVariants is called by the worker to build resized copies of an
// uploaded original.
func (s *ImageService) ProcessVariants(ctx context.Context, objectKey string) error {
	data, err := s.storage.Download(ctx, objectKey)
	if err != nil {
		return err
	}

	variants, err := s.processor.ProcessImage(data)
	if err != nil {
		return err
	}

	for name, body := range variants {
		key := variantKey(objectKey, name)
		if _, err := s.storage.Upload(ctx, key, body, "image/jpeg"); err != nil {
			return fmt.Errorf("failed to upload %s variant: %w", name, err)
		}
	}

	return nil
}

// CleanupLaptopImages deletes DB rows and all stored objects for a laptop
func (s *ImageService) CleanupLaptopImages(ctx context.Context, laptopID uuid.UUID) error {
	if _, err := s.images.DeleteByLaptop(ctx, laptopID); err != nil {
		return err
	}
	return s.storage.RemoveFolder(ctx, fmt.Sprintf("laptops/%s/", laptopID))
}

// variantKey: laptops/<id>/<img>_original.jpg -> laptops/<id>/<img>_<variant>.jpg
func variantKey(originalKey, variant string) string {
	const suffix = "_original.jpg"
	base := originalKey[:len(originalKey)-len(suffix)]
	return fmt.Sprintf("%s_%s.jpg", base, variant)
}
