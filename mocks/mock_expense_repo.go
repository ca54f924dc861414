package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"pantrio/internal/domain"
)

// MockExpenseRepo is a mock implementation of port.ExpenseRepository.
type MockExpenseRepo struct {
	mock.Mock
}

func (m *MockExpenseRepo) Create(ctx context.Context, expense *domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepo) SumByBudget(ctx context.Context, budgetID uuid.UUID) (float64, error) {
	args := m.Called(ctx, budgetID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockExpenseRepo) ListByBudget(ctx context.Context, budgetID uuid.UUID) ([]domain.Expense, error) {
	args := m.Called(ctx, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}
