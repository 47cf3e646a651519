package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"laptopshop-backend/internal/domains/announcement/model"
)

type AnnouncementRepository interface {
	Create(ctx context.Context, a *model.Announcement) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Announcement, error)
	List(ctx context.Context, activeOnly bool) ([]model.Announcement, error)
	Update(ctx context.Context, a *model.Announcement) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type announcementRepository struct {
	db *pgxpool.Pool
}

func NewAnnouncementRepository(db *pgxpool.Pool) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, a *model.Announcement) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO announcements (id, title, content, image_url, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		a.ID, a.Title, a.Content, a.ImageURL, a.IsActive,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}
	return nil
}

func (r *announcementRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Announcement, error) {
	var a model.Announcement
	err := r.db.QueryRow(ctx, `
		SELECT id, title, content, image_url, is_active, created_at, updated_at
		FROM announcements WHERE id = $1`, id,
	).Scan(&a.ID, &a.Title, &a.Content, &a.ImageURL, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAnnouncementNotFound
		}
		return nil, fmt.Errorf("failed to get announcement: %w", err)
	}
	return &a, nil
}

func (r *announcementRepository) List(ctx context.Context, activeOnly bool) ([]model.Announcement, error) {
	query := `
		SELECT id, title, content, image_url, is_active, created_at, updated_at
		FROM announcements`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	defer rows.Close()

	items := make([]model.Announcement, 0)
	for rows.Next() {
		var a model.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.ImageURL, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan announcement: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read announcements: %w", err)
	}
	return items, nil
}

func (r *announcementRepository) Update(ctx context.Context, a *model.Announcement) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE announcements
		SET title = $2, content = $3, image_url = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1`,
		a.ID, a.Title, a.Content, a.ImageURL, a.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAnnouncementNotFound
	}
	return nil
}

func (r *announcementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAnnouncementNotFound
	}
	return nil
}
