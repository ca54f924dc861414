package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pantrio/internal/domain"
	"pantrio/internal/service"
	"pantrio/mocks"
)

func setupBudgetService() (service.BudgetService, *mocks.MockBudgetRepo, *mocks.MockExpenseRepo) {
	budgetRepo := new(mocks.MockBudgetRepo)
	expenseRepo := new(mocks.MockExpenseRepo)
	return service.NewBudgetService(budgetRepo, expenseRepo), budgetRepo, expenseRepo
}

func TestBudgetService_Create(t *testing.T) {
	svc, budgetRepo, _ := setupBudgetService()
	budgetRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Budget")).Return(nil)

	userID := uuid.New()
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	budget, err := svc.Create(context.Background(), service.CreateBudgetInput{
		UserID:      userID,
		Amount:      300,
		PeriodStart: start,
		PeriodEnd:   start.AddDate(0, 1, 0),
	})

	require.NoError(t, err)
	assert.Equal(t, userID, budget.UserID)
	assert.Equal(t, 300.0, budget.Amount)
}

func TestBudgetService_Create_RejectsInvertedPeriod(t *testing.T) {
	svc, _, _ := setupBudgetService()

	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Create(context.Background(), service.CreateBudgetInput{
		UserID:      uuid.New(),
		Amount:      300,
		PeriodStart: start,
		PeriodEnd:   start.AddDate(0, -1, 0),
	})

	assert.Error(t, err)
}

func TestBudgetService_GetStatus(t *testing.T) {
	svc, budgetRepo, expenseRepo := setupBudgetService()

	userID := uuid.New()
	budget := &domain.Budget{ID: uuid.New(), UserID: userID, Amount: 300}
	budgetRepo.On("GetByID", mock.Anything, userID, budget.ID).Return(budget, nil)
	expenseRepo.On("SumByBudget", mock.Anything, budget.ID).Return(120.50, nil)

	status, err := svc.GetStatus(context.Background(), userID, budget.ID)

	require.NoError(t, err)
	assert.Equal(t, 120.50, status.Spent)
	assert.InDelta(t, 179.50, status.Remaining, 1e-9)
}

func TestBudgetService_GetActiveStatus_NoBudget(t *testing.T) {
	svc, budgetRepo, _ := setupBudgetService()
	budgetRepo.On("FindActive", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrNoBudgetActive)

	_, err := svc.GetActiveStatus(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNoBudgetActive)
}

func TestBudgetService_ListExpenses_ChecksOwnership(t *testing.T) {
	svc, budgetRepo, expenseRepo := setupBudgetService()

	userID := uuid.New()
	budgetID := uuid.New()
	budgetRepo.On("GetByID", mock.Anything, userID, budgetID).
		Return(nil, domain.ErrBudgetNotFound)

	_, err := svc.ListExpenses(context.Background(), userID, budgetID)
	assert.ErrorIs(t, err, domain.ErrBudgetNotFound)
	expenseRepo.AssertNotCalled(t, "ListByBudget", mock.Anything, mock.Anything)
}
