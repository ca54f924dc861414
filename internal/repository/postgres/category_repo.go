package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"pantrio/internal/domain"
	"pantrio/internal/port"
)

type categoryRepo struct {
	db *sqlx.DB
}

// NewCategoryRepo creates a new PostgreSQL-backed CategoryRepository.
func NewCategoryRepo(db *sqlx.DB) port.CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var category domain.Category
	err := r.db.GetContext(ctx, &category,
		"SELECT * FROM categories WHERE slug = $1", slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUnknownCategory
		}
		return nil, fmt.Errorf("categoryRepo.GetBySlug: %w", err)
	}
	return &category, nil
}

func (r *categoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.SelectContext(ctx, &categories,
		"SELECT * FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("categoryRepo.List: %w", err)
	}
	return categories, nil
}
