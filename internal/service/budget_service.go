package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pantrio/internal/domain"
	"pantrio/internal/port"
)

// CreateBudgetInput is the DTO for creating a budget period.
type CreateBudgetInput struct {
	UserID      uuid.UUID
	Amount      float64   `json:"amount" binding:"required,gt=0"`
	PeriodStart time.Time `json:"period_start" binding:"required"`
	PeriodEnd   time.Time `json:"period_end" binding:"required"`
}

// BudgetStatus is a budget with its current spending.
type BudgetStatus struct {
	Budget    *domain.Budget `json:"budget"`
	Spent     float64        `json:"spent"`
	Remaining float64        `json:"remaining"`
}

// BudgetService defines the budget tracking contract.
type BudgetService interface {
	Create(ctx context.Context, input CreateBudgetInput) (*domain.Budget, error)
	GetStatus(ctx context.Context, userID, budgetID uuid.UUID) (*BudgetStatus, error)
	GetActiveStatus(ctx context.Context, userID uuid.UUID) (*BudgetStatus, error)
	ListExpenses(ctx context.Context, userID, budgetID uuid.UUID) ([]domain.Expense, error)
}

type budgetService struct {
	budgetRepo  port.BudgetRepository
	expenseRepo port.ExpenseRepository
}

// NewBudgetService creates a new BudgetService implementation.
func NewBudgetService(budgetRepo port.BudgetRepository, expenseRepo port.ExpenseRepository) BudgetService {
	return &budgetService{
		budgetRepo:  budgetRepo,
		expenseRepo: expenseRepo,
	}
}

func (s *budgetService) Create(ctx context.Context, input CreateBudgetInput) (*domain.Budget, error) {
	if !input.PeriodEnd.After(input.PeriodStart) {
		return nil, fmt.Errorf("budget period end must be after start")
	}

	budget := &domain.Budget{
		ID:          uuid.New(),
		UserID:      input.UserID,
		Amount:      input.Amount,
		PeriodStart: input.PeriodStart,
		PeriodEnd:   input.PeriodEnd,
	}
	if err := s.budgetRepo.Create(ctx, budget); err != nil {
		return nil, fmt.Errorf("creating budget: %w", err)
	}
	return budget, nil
}

func (s *budgetService) GetStatus(ctx context.Context, userID, budgetID uuid.UUID) (*BudgetStatus, error) {
	budget, err := s.budgetRepo.GetByID(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}
	return s.statusOf(ctx, budget)
}

func (s *budgetService) GetActiveStatus(ctx context.Context, userID uuid.UUID) (*BudgetStatus, error) {
	budget, err := s.budgetRepo.FindActive(ctx, userID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return s.statusOf(ctx, budget)
}

func (s *budgetService) statusOf(ctx context.Context, budget *domain.Budget) (*BudgetStatus, error) {
	spent, err := s.expenseRepo.SumByBudget(ctx, budget.ID)
	if err != nil {
		return nil, fmt.Errorf("summing expenses: %w", err)
	}
	return &BudgetStatus{
		Budget:    budget,
		Spent:     spent,
		Remaining: budget.Amount - spent,
	}, nil
}

func (s *budgetService) ListExpenses(ctx context.Context, userID, budgetID uuid.UUID) ([]domain.Expense, error) {
	// Ownership check before exposing the ledger
	if _, err := s.budgetRepo.GetByID(ctx, userID, budgetID); err != nil {
		return nil, err
	}
	return s.expenseRepo.ListByBudget(ctx, budgetID)
}
