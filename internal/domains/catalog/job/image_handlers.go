package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"laptopshop-backend/internal/domains/catalog/service"
	"laptopshop-backend/internal/shared"
)

// ============================================
// Process Image Handler
// ============================================
// Sinh các variant (thumbnail, medium) cho ảnh gốc đã upload lên MinIO

type ProcessImageHandler struct {
	images *service.ImageService
}

func NewProcessImageHandler(images *service.ImageService) *ProcessImageHandler {
	return &ProcessImageHandler{images: images}
}

func (h *ProcessImageHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ImagePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ProcessImage payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := h.images.ProcessVariants(ctx, payload.ObjectName); err != nil {
		log.Error().Err(err).Str("object", payload.ObjectName).Msg("Failed to process image variants")
		return fmt.Errorf("process variants: %w", err)
	}

	log.Info().
		Str("laptop_id", payload.LaptopID).
		Str("object", payload.ObjectName).
		Msg("Image variants generated")

	return nil
}

// ============================================
// Delete Images Handler
// ============================================
// Xóa toàn bộ object trên MinIO của laptop đã bị xóa

type DeleteImagesHandler struct {
	images *service.ImageService
}

func NewDeleteImagesHandler(images *service.ImageService) *DeleteImagesHandler {
	return &DeleteImagesHandler{images: images}
}

func (h *DeleteImagesHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ImagePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeleteImages payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	laptopID, err := uuid.Parse(payload.LaptopID)
	if err != nil {
		return fmt.Errorf("invalid laptop id %q: %w", payload.LaptopID, err)
	}

	if err := h.images.CleanupLaptopImages(ctx, laptopID); err != nil {
		log.Error().Err(err).Str("laptop_id", payload.LaptopID).Msg("Failed to cleanup laptop images")
		return fmt.Errorf("cleanup laptop images: %w", err)
	}

	log.Info().Str("laptop_id", payload.LaptopID).Msg("Laptop images cleaned up")
	return nil
}
