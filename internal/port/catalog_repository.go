package port

import (
	"context"

	"github.com/google/uuid"

	"pantrio/internal/domain"
)

// ProductRepository defines the contract for catalog persistence. The lookup
// methods also satisfy the matching engine's Catalog capability.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, productID uuid.UUID) (*domain.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error)
	FindByNameExact(ctx context.Context, name string) (*domain.Product, error)
	FindByNameContainingAny(ctx context.Context, keywords []string) ([]domain.Product, error)
	FindByNameOrBrandContainingAny(ctx context.Context, keywords []string) ([]domain.Product, error)
	FindCategorySlug(ctx context.Context, categoryID uuid.UUID) (string, error)
}

// CategoryRepository defines the contract for category persistence.
type CategoryRepository interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}
