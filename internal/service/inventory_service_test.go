package service_test

import (
	"context"
	"errors"
	"math"
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

type inventoryServiceMocks struct {
	inventoryRepo *mocks.MockInventoryRepo
	receiptRepo   *mocks.MockReceiptRepo
	itemRepo      *mocks.MockReceiptItemRepo
	categoryRepo  *mocks.MockCategoryRepo
	budgetRepo    *mocks.MockBudgetRepo
	expenseRepo   *mocks.MockExpenseRepo
}

func setupInventoryService() (service.InventoryService, *inventoryServiceMocks) {
	m := &inventoryServiceMocks{
		inventoryRepo: new(mocks.MockInventoryRepo),
		receiptRepo:   new(mocks.MockReceiptRepo),
		itemRepo:      new(mocks.MockReceiptItemRepo),
		categoryRepo:  new(mocks.MockCategoryRepo),
		budgetRepo:    new(mocks.MockBudgetRepo),
		expenseRepo:   new(mocks.MockExpenseRepo),
	}
	svc := service.NewInventoryService(
		m.inventoryRepo, m.receiptRepo, m.itemRepo, m.categoryRepo, m.budgetRepo, m.expenseRepo)
	return svc, m
}

func price(v float64) *float64 { return &v }

func validatedReceipt(userID uuid.UUID) *domain.Receipt {
	purchaseDate := time.Date(2025, 4, 2, 17, 45, 0, 0, time.UTC)
	return &domain.Receipt{
		ID:           uuid.New(),
		UserID:       userID,
		Status:       domain.ReceiptStatusValidated,
		MerchantName: "carrefour market",
		PurchaseDate: &purchaseDate,
	}
}

func TestInventoryService_CommitReceipt_CreatesItemsAndExpense(t *testing.T) {
	svc, m := setupInventoryService()

	userID := uuid.New()
	receipt := validatedReceipt(userID)
	productID := uuid.New()
	categoryID := uuid.New()

	items := []domain.ReceiptItem{
		// already associated with a catalog product
		{ID: uuid.New(), ReceiptID: receipt.ID, ProductID: &productID,
			Description: "lait demi ecreme", TotalPrice: price(1.29), Validated: true},
		// no association: a product is created from the description
		{ID: uuid.New(), ReceiptID: receipt.ID,
			Description: "tomates grappe", SuggestedCategory: "produce",
			TotalPrice: price(1.50), Validated: true},
		// not validated: reported, not committed
		{ID: uuid.New(), ReceiptID: receipt.ID,
			Description: "ligne illisible", TotalPrice: price(0.99), Validated: false},
	}

	m.receiptRepo.On("GetByID", mock.Anything, userID, receipt.ID).Return(receipt, nil)
	m.itemRepo.On("ListByReceipt", mock.Anything, receipt.ID).Return(items, nil)
	m.categoryRepo.On("GetBySlug", mock.Anything, "produce").
		Return(&domain.Category{ID: categoryID, Slug: "produce"}, nil)
	m.inventoryRepo.On("CreateWithProduct", mock.Anything,
		mock.AnythingOfType("*domain.InventoryItem"), mock.Anything).Return(nil)

	budget := &domain.Budget{ID: uuid.New(), UserID: userID, Amount: 50.00}
	m.budgetRepo.On("FindActive", mock.Anything, userID, *receipt.PurchaseDate).Return(budget, nil)
	m.expenseRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Expense")).Return(nil)
	m.expenseRepo.On("SumByBudget", mock.Anything, budget.ID).Return(2.79, nil)

	result, err := svc.CommitReceipt(context.Background(), service.CommitReceiptInput{
		UserID:          userID,
		ReceiptID:       receipt.ID,
		StorageLocation: "fridge",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.CreatedCount)
	assert.InDelta(t, 2.79, result.TotalAmount, 1e-9)
	require.Len(t, result.FailedItems, 1)
	assert.Equal(t, items[2].ID, result.FailedItems[0].ItemID)
	assert.Equal(t, domain.ErrItemNotValidated.Error(), result.FailedItems[0].Reason)
	assert.True(t, result.ExpenseCreated)
	require.NotNil(t, result.RemainingBudget)
	assert.InDelta(t, 47.21, *result.RemainingBudget, 1e-9)

	// the unassociated line item gets a product created alongside it
	m.inventoryRepo.AssertCalled(t, "CreateWithProduct", mock.Anything,
		mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
			return p != nil && p.Name == "tomates grappe" && p.CategoryID != nil && *p.CategoryID == categoryID
		}))
	m.expenseRepo.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(e *domain.Expense) bool {
		return e.BudgetID == budget.ID && math.Abs(e.Amount-2.79) < 1e-9 && e.Memo == "carrefour market"
	}))
}

func TestInventoryService_CommitReceipt_NoActiveBudget(t *testing.T) {
	svc, m := setupInventoryService()

	userID := uuid.New()
	receipt := validatedReceipt(userID)
	productID := uuid.New()
	items := []domain.ReceiptItem{
		{ID: uuid.New(), ReceiptID: receipt.ID, ProductID: &productID,
			Description: "camembert", TotalPrice: price(2.10), Validated: true},
	}

	m.receiptRepo.On("GetByID", mock.Anything, userID, receipt.ID).Return(receipt, nil)
	m.itemRepo.On("ListByReceipt", mock.Anything, receipt.ID).Return(items, nil)
	m.inventoryRepo.On("CreateWithProduct", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.budgetRepo.On("FindActive", mock.Anything, userID, mock.Anything).
		Return(nil, domain.ErrNoBudgetActive)

	result, err := svc.CommitReceipt(context.Background(), service.CommitReceiptInput{
		UserID:    userID,
		ReceiptID: receipt.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.CreatedCount)
	assert.False(t, result.ExpenseCreated)
	assert.Nil(t, result.RemainingBudget)
	m.expenseRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInventoryService_CommitReceipt_ItemFailureIsolated(t *testing.T) {
	svc, m := setupInventoryService()

	userID := uuid.New()
	receipt := validatedReceipt(userID)
	goodID := uuid.New()
	badID := uuid.New()
	productID := uuid.New()
	items := []domain.ReceiptItem{
		{ID: badID, ReceiptID: receipt.ID, ProductID: &productID,
			Description: "beurre doux", TotalPrice: price(2.50), Validated: true},
		{ID: goodID, ReceiptID: receipt.ID, ProductID: &productID,
			Description: "farine t55", TotalPrice: price(1.10), Validated: true},
	}

	m.receiptRepo.On("GetByID", mock.Anything, userID, receipt.ID).Return(receipt, nil)
	m.itemRepo.On("ListByReceipt", mock.Anything, receipt.ID).Return(items, nil)
	m.inventoryRepo.On("CreateWithProduct", mock.Anything,
		mock.MatchedBy(func(item *domain.InventoryItem) bool { return item.ReceiptItemID != nil && *item.ReceiptItemID == badID }),
		mock.Anything).Return(errors.New("constraint violation")).Once()
	m.inventoryRepo.On("CreateWithProduct", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.budgetRepo.On("FindActive", mock.Anything, userID, mock.Anything).
		Return(nil, domain.ErrNoBudgetActive)

	result, err := svc.CommitReceipt(context.Background(), service.CommitReceiptInput{
		UserID:    userID,
		ReceiptID: receipt.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.CreatedCount)
	assert.InDelta(t, 1.10, result.TotalAmount, 1e-9)
	require.Len(t, result.FailedItems, 1)
	assert.Equal(t, badID, result.FailedItems[0].ItemID)
}

func TestInventoryService_CommitReceipt_UnknownCategoryFailsItem(t *testing.T) {
	svc, m := setupInventoryService()

	userID := uuid.New()
	receipt := validatedReceipt(userID)
	items := []domain.ReceiptItem{
		{ID: uuid.New(), ReceiptID: receipt.ID,
			Description: "objet mystere", SuggestedCategory: "gadgets",
			TotalPrice: price(4.99), Validated: true},
	}

	m.receiptRepo.On("GetByID", mock.Anything, userID, receipt.ID).Return(receipt, nil)
	m.itemRepo.On("ListByReceipt", mock.Anything, receipt.ID).Return(items, nil)
	m.categoryRepo.On("GetBySlug", mock.Anything, "gadgets").
		Return(nil, domain.ErrUnknownCategory)

	result, err := svc.CommitReceipt(context.Background(), service.CommitReceiptInput{
		UserID:    userID,
		ReceiptID: receipt.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, 0, result.CreatedCount)
	require.Len(t, result.FailedItems, 1)
	assert.Equal(t, items[0].ID, result.FailedItems[0].ItemID)
	assert.Contains(t, result.FailedItems[0].Reason, domain.ErrUnknownCategory.Error())
	m.inventoryRepo.AssertNotCalled(t, "CreateWithProduct", mock.Anything, mock.Anything, mock.Anything)
	m.expenseRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInventoryService_CommitReceipt_RequiresReviewedReceipt(t *testing.T) {
	svc, m := setupInventoryService()

	userID := uuid.New()
	receiptID := uuid.New()
	m.receiptRepo.On("GetByID", mock.Anything, userID, receiptID).Return(&domain.Receipt{
		ID:     receiptID,
		UserID: userID,
		Status: domain.ReceiptStatusProcessing,
	}, nil)

	_, err := svc.CommitReceipt(context.Background(), service.CommitReceiptInput{
		UserID:    userID,
		ReceiptID: receiptID,
	})

	assert.ErrorIs(t, err, domain.ErrReceiptNotCompleted)
}
