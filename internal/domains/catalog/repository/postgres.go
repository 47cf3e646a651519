package repository

import (
	"context"
	"errors"
	"fmt"

	"laptopshop-backend/internal/domains/catalog/model"
	"laptopshop-backend/internal/shared/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type laptopRepository struct {
	db *pgxpool.Pool
}

func NewLaptopRepository(db *pgxpool.Pool) LaptopRepository {
	return &laptopRepository{db: db}
}

const laptopColumns = `
	l.id, l.name, l.slug, l.brand_id, l.category_id, l.description,
	l.cpu, l.ram, l.storage, l.gpu, l.screen,
	l.price, l.quantity, l.sold, l.is_active, l.created_at, l.updated_at,
	b.name, c.name`

func scanLaptop(row pgx.Row) (*model.Laptop, error) {
	var l model.Laptop
	err := row.Scan(
		&l.ID, &l.Name, &l.Slug, &l.BrandID, &l.CategoryID, &l.Description,
		&l.CPU, &l.RAM, &l.Storage, &l.GPU, &l.Screen,
		&l.Price, &l.Quantity, &l.Sold, &l.IsActive, &l.CreatedAt, &l.UpdatedAt,
		&l.BrandName, &l.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *laptopRepository) Create(ctx context.Context, laptop *model.Laptop) error {
	query := `
		INSERT INTO laptops (
			id, name, slug, brand_id, category_id, description,
			cpu, ram, storage, gpu, screen, price, quantity, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		laptop.ID, laptop.Name, laptop.Slug, laptop.BrandID, laptop.CategoryID,
		laptop.Description, laptop.CPU, laptop.RAM, laptop.Storage, laptop.GPU,
		laptop.Screen, laptop.Price, laptop.Quantity, laptop.IsActive,
	).Scan(&laptop.CreatedAt, &laptop.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert laptop: %w", err)
	}
	return nil
}

func (r *laptopRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Laptop, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM laptops l
		JOIN brands b ON b.id = l.brand_id
		JOIN categories c ON c.id = l.category_id
		WHERE l.id = $1`, laptopColumns)

	laptop, err := scanLaptop(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrLaptopNotFound
		}
		return nil, fmt.Errorf("failed to get laptop: %w", err)
	}
	return laptop, nil
}

func (r *laptopRepository) GetBySlug(ctx context.Context, slug string) (*model.Laptop, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM laptops l
		JOIN brands b ON b.id = l.brand_id
		JOIN categories c ON c.id = l.category_id
		WHERE l.slug = $1`, laptopColumns)

	laptop, err := scanLaptop(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrLaptopNotFound
		}
		return nil, fmt.Errorf("failed to get laptop by slug: %w", err)
	}
	return laptop, nil
}

func (r *laptopRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Laptop, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM laptops l
		JOIN brands b ON b.id = l.brand_id
		JOIN categories c ON c.id = l.category_id
		WHERE l.id = ANY($1)`, laptopColumns)

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query laptops: %w", err)
	}
	defer rows.Close()

	var laptops []model.Laptop
	for rows.Next() {
		l, err := scanLaptop(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan laptop: %w", err)
		}
		laptops = append(laptops, *l)
	}
	return laptops, rows.Err()
}

func (r *laptopRepository) List(ctx context.Context, q model.ListLaptopsQuery) ([]model.Laptop, int, error) {
	clauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if q.ActiveOnly {
		clauses = append(clauses, "l.is_active = true")
	}
	if q.BrandSlug != "" {
		clauses = append(clauses, fmt.Sprintf("b.slug = $%d", argIdx))
		args = append(args, q.BrandSlug)
		argIdx++
	}
	if q.CategorySlug != "" {
		clauses = append(clauses, fmt.Sprintf("c.slug = $%d", argIdx))
		args = append(args, q.CategorySlug)
		argIdx++
	}
	if q.PriceMin != nil {
		clauses = append(clauses, fmt.Sprintf("l.price >= $%d", argIdx))
		args = append(args, *q.PriceMin)
		argIdx++
	}
	if q.PriceMax != nil {
		clauses = append(clauses, fmt.Sprintf("l.price <= $%d", argIdx))
		args = append(args, *q.PriceMax)
		argIdx++
	}
	if q.Search != "" {
		clauses = append(clauses, fmt.Sprintf("(l.name ILIKE $%d OR l.cpu ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+q.Search+"%")
		argIdx++
	}

	where := utils.JoinWithAnd(clauses)

	orderBy := "l.created_at DESC"
	switch q.Sort {
	case "price_asc":
		orderBy = "l.price ASC"
	case "price_desc":
		orderBy = "l.price DESC"
	case "best_selling":
		orderBy = "l.sold DESC"
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*) FROM laptops l
		JOIN brands b ON b.id = l.brand_id
		JOIN categories c ON c.id = l.category_id
		WHERE %s`, where)

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count laptops: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s FROM laptops l
		JOIN brands b ON b.id = l.brand_id
		JOIN categories c ON c.id = l.category_id
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`, laptopColumns, where, orderBy, argIdx, argIdx+1)

	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list laptops: %w", err)
	}
	defer rows.Close()

	var laptops []model.Laptop
	for rows.Next() {
		l, err := scanLaptop(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan laptop: %w", err)
		}
		laptops = append(laptops, *l)
	}
	return laptops, total, rows.Err()
}

func (r *laptopRepository) Update(ctx context.Context, laptop *model.Laptop) error {
	query := `
		UPDATE laptops SET
			name = $2, slug = $3, brand_id = $4, category_id = $5,
			description = $6, cpu = $7, ram = $8, storage = $9, gpu = $10,
			screen = $11, price = $12, quantity = $13, is_active = $14,
			updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		laptop.ID, laptop.Name, laptop.Slug, laptop.BrandID, laptop.CategoryID,
		laptop.Description, laptop.CPU, laptop.RAM, laptop.Storage, laptop.GPU,
		laptop.Screen, laptop.Price, laptop.Quantity, laptop.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to update laptop: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrLaptopNotFound
	}
	return nil
}

func (r *laptopRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE laptops SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete laptop: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrLaptopNotFound
	}
	return nil
}

func (r *laptopRepository) SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM laptops WHERE slug = $1 AND id <> $2)`,
		slug, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}
