package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pantrio/internal/domain"
	"pantrio/internal/port"
)

type budgetRepo struct {
	db *sqlx.DB
}

// NewBudgetRepo creates a new PostgreSQL-backed BudgetRepository.
func NewBudgetRepo(db *sqlx.DB) port.BudgetRepository {
	return &budgetRepo{db: db}
}

func (r *budgetRepo) Create(ctx context.Context, budget *domain.Budget) error {
	budget.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (id, user_id, amount, period_start, period_end, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		budget.ID, budget.UserID, budget.Amount,
		budget.PeriodStart, budget.PeriodEnd, budget.CreatedAt)
	if err != nil {
		return fmt.Errorf("budgetRepo.Create: %w", err)
	}
	return nil
}

func (r *budgetRepo) GetByID(ctx context.Context, userID, budgetID uuid.UUID) (*domain.Budget, error) {
	var budget domain.Budget
	err := r.db.GetContext(ctx, &budget,
		"SELECT * FROM budgets WHERE id = $1 AND user_id = $2", budgetID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, fmt.Errorf("budgetRepo.GetByID: %w", err)
	}
	return &budget, nil
}

func (r *budgetRepo) FindActive(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.Budget, error) {
	var budget domain.Budget
	err := r.db.GetContext(ctx, &budget,
		`SELECT * FROM budgets
		 WHERE user_id = $1 AND period_start <= $2 AND period_end >= $2
		 ORDER BY period_start DESC LIMIT 1`,
		userID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoBudgetActive
		}
		return nil, fmt.Errorf("budgetRepo.FindActive: %w", err)
	}
	return &budget, nil
}
