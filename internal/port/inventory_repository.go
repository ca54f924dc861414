package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pantrio/internal/domain"
)

// InventoryRepository defines the contract for inventory persistence.
type InventoryRepository interface {
	// CreateWithProduct inserts the inventory item, first creating
	// newProduct when it is non-nil, inside one database transaction. Either
	// both rows commit or neither does.
	CreateWithProduct(ctx context.Context, item *domain.InventoryItem, newProduct *domain.Product) error
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.InventoryItem, int, error)
	GetByID(ctx context.Context, userID, itemID uuid.UUID) (*domain.InventoryItem, error)
	Delete(ctx context.Context, userID, itemID uuid.UUID) error
}

// BudgetRepository defines the contract for budget persistence.
type BudgetRepository interface {
	Create(ctx context.Context, budget *domain.Budget) error
	GetByID(ctx context.Context, userID, budgetID uuid.UUID) (*domain.Budget, error)
	// FindActive returns the budget whose period covers the given date, or
	// domain.ErrNoBudgetActive.
	FindActive(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.Budget, error)
}

// ExpenseRepository defines the contract for the expense ledger.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error
	SumByBudget(ctx context.Context, budgetID uuid.UUID) (float64, error)
	ListByBudget(ctx context.Context, budgetID uuid.UUID) ([]domain.Expense, error)
}
