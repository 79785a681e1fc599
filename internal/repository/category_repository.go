package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abdulrehan17773/am-backend/internal/domain"
	"github.com/abdulrehan17773/am-backend/internal/port"
)

type categoryRepository struct {
	db DB
}

func NewCategory(pool *pgxpool.Pool) port.CategoryRepository {
	return &categoryRepository{db: pool}
}

const categoryColumns = "id, name, created_at, updated_at"

func (r *categoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(
		"SELECT %s FROM categories WHERE deleted_at IS NULL ORDER BY name", categoryColumns))
	if err != nil {
		return nil, fmt.Errorf("categories query: %w", err)
	}
	defer rows.Close()

	return collectCategories(rows)
}

func (r *categoryRepository) SearchCategories(ctx context.Context, name string, page domain.Page) ([]domain.Category, int64, error) {
	cond := "deleted_at IS NULL"
	var args []any

	if name != "" {
		args = append(args, likePattern(name))
		cond += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}

	var total int64
	if err := r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT count(*) FROM categories WHERE %s", cond), args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("categories count: %w", err)
	}

	page = page.Normalize()
	args = append(args, page.Limit, page.Offset())

	rows, err := r.db.Query(ctx, fmt.Sprintf(
		"SELECT %s FROM categories WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		categoryColumns, cond, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("categories query: %w", err)
	}
	defer rows.Close()

	categories, err := collectCategories(rows)
	if err != nil {
		return nil, 0, err
	}

	return categories, total, nil
}

func (r *categoryRepository) GetCategory(ctx context.Context, categoryID uuid.UUID) (domain.Category, error) {
	return r.getCategoryWhere(ctx, "id = $1", categoryID)
}

func (r *categoryRepository) GetCategoryByName(ctx context.Context, name string) (domain.Category, error) {
	return r.getCategoryWhere(ctx, "name = $1", name)
}

func (r *categoryRepository) getCategoryWhere(ctx context.Context, cond string, arg any) (domain.Category, error) {
	var c domain.Category

	row := r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM categories WHERE %s AND deleted_at IS NULL", categoryColumns, cond),
		arg)

	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c, fmt.Errorf("categories scan: %w", ErrCategoryNotFound)
		}
		return c, fmt.Errorf("categories scan: %w", err)
	}

	return c, nil
}

func (r *categoryRepository) InsertCategory(ctx context.Context, name string) (domain.Category, error) {
	var c domain.Category

	if name == "" {
		return c, errors.New("name is empty")
	}

	row := r.db.QueryRow(ctx,
		"INSERT INTO categories (name) VALUES ($1) RETURNING id, name, created_at, updated_at",
		name)

	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return c, fmt.Errorf("categories insert: %w", ErrDuplicate)
		}
		return c, fmt.Errorf("categories insert: %w", err)
	}

	return c, nil
}

func (r *categoryRepository) RenameCategory(ctx context.Context, categoryID uuid.UUID, name string) (domain.Category, error) {
	var c domain.Category

	if name == "" {
		return c, errors.New("name is empty")
	}

	row := r.db.QueryRow(ctx, `
		UPDATE categories SET name = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id, name, created_at, updated_at`,
		categoryID, name)

	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c, fmt.Errorf("categories update: %w", ErrCategoryNotFound)
		}
		if isUniqueViolation(err) {
			return c, fmt.Errorf("categories update: %w", ErrDuplicate)
		}
		return c, fmt.Errorf("categories update: %w", err)
	}

	return c, nil
}

func (r *categoryRepository) SoftDeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx,
		"UPDATE categories SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL",
		categoryID)
	if err != nil {
		return fmt.Errorf("categories update: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

func collectCategories(rows pgx.Rows) ([]domain.Category, error) {
	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("categories scan: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}
