package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"laptopshop-backend/internal/domains/discount/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type discountRepository struct {
	db *pgxpool.Pool
}

func NewDiscountRepository(db *pgxpool.Pool) DiscountRepository {
	return &discountRepository{db: db}
}

const discountColumns = `id, code, percent, active, starts_at, expires_at, created_at, updated_at`

func (r *discountRepository) Create(ctx context.Context, d *model.DiscountCode) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO discount_codes (id, code, percent, active, starts_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		d.ID, d.Code, d.Percent, d.Active, d.StartsAt, d.ExpiresAt,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateCode
		}
		return fmt.Errorf("failed to insert discount code: %w", err)
	}
	return nil
}

func (r *discountRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.DiscountCode, error) {
	var d model.DiscountCode
	err := r.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM discount_codes WHERE id = $1`, discountColumns), id,
	).Scan(&d.ID, &d.Code, &d.Percent, &d.Active, &d.StartsAt, &d.ExpiresAt, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrDiscountNotFound
		}
		return nil, fmt.Errorf("failed to get discount code: %w", err)
	}
	return &d, nil
}

func (r *discountRepository) GetByCode(ctx context.Context, code string) (*model.DiscountCode, error) {
	var d model.DiscountCode
	err := r.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM discount_codes WHERE LOWER(code) = $1`, discountColumns),
		strings.ToLower(code),
	).Scan(&d.ID, &d.Code, &d.Percent, &d.Active, &d.StartsAt, &d.ExpiresAt, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrDiscountNotFound
		}
		return nil, fmt.Errorf("failed to get discount code: %w", err)
	}
	return &d, nil
}

func (r *discountRepository) List(ctx context.Context) ([]model.DiscountCode, error) {
	rows, err := r.db.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM discount_codes ORDER BY created_at DESC`, discountColumns))
	if err != nil {
		return nil, fmt.Errorf("failed to list discount codes: %w", err)
	}
	defer rows.Close()

	var discounts []model.DiscountCode
	for rows.Next() {
		var d model.DiscountCode
		if err := rows.Scan(&d.ID, &d.Code, &d.Percent, &d.Active, &d.StartsAt,
			&d.ExpiresAt, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan discount code: %w", err)
		}
		discounts = append(discounts, d)
	}
	return discounts, rows.Err()
}

func (r *discountRepository) Update(ctx context.Context, d *model.DiscountCode) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE discount_codes SET
			percent = $2, active = $3, starts_at = $4, expires_at = $5, updated_at = NOW()
		 WHERE id = $1`,
		d.ID, d.Percent, d.Active, d.StartsAt, d.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to update discount code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDiscountNotFound
	}
	return nil
}

func (r *discountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM discount_codes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete discount code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDiscountNotFound
	}
	return nil
}

func (r *discountRepository) DeactivateExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE discount_codes SET active = false, updated_at = NOW()
		 WHERE active = true AND expires_at IS NOT NULL AND expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate expired codes: %w", err)
	}
	return tag.RowsAffected(), nil
}
