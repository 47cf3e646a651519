package repository

import (
	"context"
	"fmt"

	"laptopshop-backend/internal/domains/catalog/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type imageRepository struct {
	db *pgxpool.Pool
}

func NewImageRepository(db *pgxpool.Pool) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Insert(ctx context.Context, img *model.LaptopImage) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO laptop_images (id, laptop_id, object_key, url, thumbnail_url, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		img.ID, img.LaptopID, img.ObjectKey, img.URL, img.ThumbnailURL, img.SortOrder,
	).Scan(&img.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert laptop image: %w", err)
	}
	return nil
}

func (r *imageRepository) ListByLaptop(ctx context.Context, laptopID uuid.UUID) ([]model.LaptopImage, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, laptop_id, object_key, url, thumbnail_url, sort_order, created_at
		 FROM laptop_images WHERE laptop_id = $1 ORDER BY sort_order`,
		laptopID)
	if err != nil {
		return nil, fmt.Errorf("failed to list laptop images: %w", err)
	}
	defer rows.Close()

	var images []model.LaptopImage
	for rows.Next() {
		var img model.LaptopImage
		if err := rows.Scan(&img.ID, &img.LaptopID, &img.ObjectKey, &img.URL,
			&img.ThumbnailURL, &img.SortOrder, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan laptop image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// DeleteByLaptop removes all image rows and returns the object keys so the
// caller can clean up MinIO afterwards.
func (r *imageRepository) DeleteByLaptop(ctx context.Context, laptopID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`DELETE FROM laptop_images WHERE laptop_id = $1 RETURNING object_key`, laptopID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete laptop images: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan object key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
