package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pantrio/internal/domain"
	"pantrio/internal/port"
)

type productRepo struct {
	db *sqlx.DB
}

// NewProductRepo creates a new PostgreSQL-backed ProductRepository.
func NewProductRepo(db *sqlx.DB) port.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, product *domain.Product) error {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	query := `INSERT INTO products (
		id, name, brand, barcode, category_id, unit_type, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		product.ID, product.Name, product.Brand, product.Barcode,
		product.CategoryID, product.UnitType, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("productRepo.Create: %w", err)
	}
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, productID uuid.UUID) (*domain.Product, error) {
	var product domain.Product
	err := r.db.GetContext(ctx, &product,
		"SELECT * FROM products WHERE id = $1", productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("productRepo.GetByID: %w", err)
	}
	return &product, nil
}

func (r *productRepo) FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.GetContext(ctx, &product,
		"SELECT * FROM products WHERE barcode = $1", barcode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("productRepo.FindByBarcode: %w", err)
	}
	return &product, nil
}

func (r *productRepo) FindByNameExact(ctx context.Context, name string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.GetContext(ctx, &product,
		"SELECT * FROM products WHERE LOWER(name) = LOWER($1) LIMIT 1", name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("productRepo.FindByNameExact: %w", err)
	}
	return &product, nil
}

func (r *productRepo) FindByNameContainingAny(ctx context.Context, keywords []string) ([]domain.Product, error) {
	return r.findContainingAny(ctx, keywords, false)
}

func (r *productRepo) FindByNameOrBrandContainingAny(ctx context.Context, keywords []string) ([]domain.Product, error) {
	return r.findContainingAny(ctx, keywords, true)
}

// findContainingAny builds an ILIKE disjunction over the keywords. The
// candidate pool is capped; fine-grained scoring happens in the matching
// engine, not in SQL.
func (r *productRepo) findContainingAny(ctx context.Context, keywords []string, includeBrand bool) ([]domain.Product, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	conditions := make([]string, 0, len(keywords))
	args := make([]interface{}, 0, len(keywords))
	for i, kw := range keywords {
		if includeBrand {
			conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR brand ILIKE $%d)", i+1, i+1))
		} else {
			conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", i+1))
		}
		args = append(args, "%"+kw+"%")
	}

	query := fmt.Sprintf(
		"SELECT * FROM products WHERE %s ORDER BY name LIMIT 100",
		strings.Join(conditions, " OR "))

	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("productRepo.findContainingAny: %w", err)
	}
	return products, nil
}

func (r *productRepo) FindCategorySlug(ctx context.Context, categoryID uuid.UUID) (string, error) {
	var slug string
	err := r.db.GetContext(ctx, &slug,
		"SELECT slug FROM categories WHERE id = $1", categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrUnknownCategory
		}
		return "", fmt.Errorf("productRepo.FindCategorySlug: %w", err)
	}
	return slug, nil
}
