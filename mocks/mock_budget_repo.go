package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"pantrio/internal/domain"
)

// MockBudgetRepo is a mock implementation of port.BudgetRepository.
type MockBudgetRepo struct {
	mock.Mock
}

func (m *MockBudgetRepo) Create(ctx context.Context, budget *domain.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockBudgetRepo) GetByID(ctx context.Context, userID, budgetID uuid.UUID) (*domain.Budget, error) {
	args := m.Called(ctx, userID, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepo) FindActive(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.Budget, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}
