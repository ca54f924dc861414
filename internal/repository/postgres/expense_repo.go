package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pantrio/internal/domain"
	"pantrio/internal/port"
)

type expenseRepo struct {
	db *sqlx.DB
}

// NewExpenseRepo creates a new PostgreSQL-backed ExpenseRepository.
func NewExpenseRepo(db *sqlx.DB) port.ExpenseRepository {
	return &expenseRepo{db: db}
}

func (r *expenseRepo) Create(ctx context.Context, expense *domain.Expense) error {
	expense.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, budget_id, user_id, amount, spent_at, memo, receipt_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		expense.ID, expense.BudgetID, expense.UserID, expense.Amount,
		expense.SpentAt, expense.Memo, expense.ReceiptID, expense.CreatedAt)
	if err != nil {
		return fmt.Errorf("expenseRepo.Create: %w", err)
	}
	return nil
}

func (r *expenseRepo) SumByBudget(ctx context.Context, budgetID uuid.UUID) (float64, error) {
	var sum float64
	err := r.db.GetContext(ctx, &sum,
		"SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE budget_id = $1", budgetID)
	if err != nil {
		return 0, fmt.Errorf("expenseRepo.SumByBudget: %w", err)
	}
	return sum, nil
}

func (r *expenseRepo) ListByBudget(ctx context.Context, budgetID uuid.UUID) ([]domain.Expense, error) {
	var expenses []domain.Expense
	err := r.db.SelectContext(ctx, &expenses,
		"SELECT * FROM expenses WHERE budget_id = $1 ORDER BY spent_at DESC", budgetID)
	if err != nil {
		return nil, fmt.Errorf("expenseRepo.ListByBudget: %w", err)
	}
	return expenses, nil
}
