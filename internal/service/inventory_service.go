package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"pantrio/internal/domain"
	"pantrio/internal/port"
)

// CommitReceiptInput is the DTO for committing a reviewed receipt to the
// user's inventory.
type CommitReceiptInput struct {
	UserID          uuid.UUID
	ReceiptID       uuid.UUID
	StorageLocation string `json:"storage_location"`
}

// FailedCommitItem describes one line item that could not be committed.
type FailedCommitItem struct {
	ItemID uuid.UUID `json:"item_id"`
	Reason string    `json:"reason"`
}

// CommitResult summarizes one inventory commit. Items are committed
// independently: a failure on one never rolls back the others.
type CommitResult struct {
	CreatedCount    int                `json:"created_count"`
	FailedItems     []FailedCommitItem `json:"failed_items"`
	TotalAmount     float64            `json:"total_amount"`
	ExpenseCreated  bool               `json:"expense_created"`
	RemainingBudget *float64           `json:"remaining_budget"`
}

// InventoryService defines the inventory management contract.
type InventoryService interface {
	CommitReceipt(ctx context.Context, input CommitReceiptInput) (*CommitResult, error)
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.InventoryItem, int, error)
	GetByID(ctx context.Context, userID, itemID uuid.UUID) (*domain.InventoryItem, error)
	Delete(ctx context.Context, userID, itemID uuid.UUID) error
}

type inventoryService struct {
	inventoryRepo port.InventoryRepository
	receiptRepo   port.ReceiptRepository
	itemRepo      port.ReceiptItemRepository
	categoryRepo  port.CategoryRepository
	budgetRepo    port.BudgetRepository
	expenseRepo   port.ExpenseRepository
}

// NewInventoryService creates a new InventoryService implementation.
func NewInventoryService(
	inventoryRepo port.InventoryRepository,
	receiptRepo port.ReceiptRepository,
	itemRepo port.ReceiptItemRepository,
	categoryRepo port.CategoryRepository,
	budgetRepo port.BudgetRepository,
	expenseRepo port.ExpenseRepository,
) InventoryService {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		receiptRepo:   receiptRepo,
		itemRepo:      itemRepo,
		categoryRepo:  categoryRepo,
		budgetRepo:    budgetRepo,
		expenseRepo:   expenseRepo,
	}
}

// CommitReceipt turns every validated line item of a reviewed receipt into an
// inventory item. Each item commits in its own transaction so one bad row
// never blocks the rest; unvalidated items are reported, not committed. The
// spending is recorded against the active budget once, after the loop.
func (s *inventoryService) CommitReceipt(ctx context.Context, input CommitReceiptInput) (*CommitResult, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, input.UserID, input.ReceiptID)
	if err != nil {
		return nil, err
	}
	if receipt.Status != domain.ReceiptStatusCompleted && receipt.Status != domain.ReceiptStatusValidated {
		return nil, domain.ErrReceiptNotCompleted
	}

	items, err := s.itemRepo.ListByReceipt(ctx, input.ReceiptID)
	if err != nil {
		return nil, fmt.Errorf("listing receipt items: %w", err)
	}

	result := &CommitResult{}
	for i := range items {
		item := &items[i]
		if !item.Validated {
			result.FailedItems = append(result.FailedItems, FailedCommitItem{
				ItemID: item.ID,
				Reason: domain.ErrItemNotValidated.Error(),
			})
			continue
		}

		if err := s.commitItem(ctx, receipt, item, input.StorageLocation); err != nil {
			log.Printf("inventoryService.CommitReceipt: item %s failed: %v", item.ID, err)
			result.FailedItems = append(result.FailedItems, FailedCommitItem{
				ItemID: item.ID,
				Reason: err.Error(),
			})
			continue
		}

		result.CreatedCount++
		if item.TotalPrice != nil {
			result.TotalAmount += *item.TotalPrice
		}
	}

	s.recordExpense(ctx, receipt, result)

	log.Printf("inventoryService.CommitReceipt: receipt %s committed (%d created, %d failed, total %.2f)",
		receipt.ID, result.CreatedCount, len(result.FailedItems), result.TotalAmount)

	return result, nil
}

// commitItem inserts one inventory item, creating a catalog product on the
// fly when the line item has no confirmed association.
func (s *inventoryService) commitItem(ctx context.Context, receipt *domain.Receipt, item *domain.ReceiptItem, location string) error {
	quantity := 1.0
	if item.Quantity != nil && *item.Quantity > 0 {
		quantity = *item.Quantity
	}

	invItem := &domain.InventoryItem{
		ID:              uuid.New(),
		UserID:          receipt.UserID,
		ReceiptItemID:   &item.ID,
		Quantity:        quantity,
		PurchaseDate:    receipt.PurchaseDate,
		StorageLocation: location,
		Price:           item.TotalPrice,
	}

	var newProduct *domain.Product
	if item.ProductID != nil {
		invItem.ProductID = *item.ProductID
	} else {
		newProduct = &domain.Product{
			ID:       uuid.New(),
			Name:     item.Description,
			UnitType: domain.UnitTypePiece,
		}
		// An unknown slug fails the item rather than committing a
		// category-less product
		if item.SuggestedCategory != "" {
			category, err := s.categoryRepo.GetBySlug(ctx, item.SuggestedCategory)
			if err != nil {
				return fmt.Errorf("looking up category %q: %w", item.SuggestedCategory, err)
			}
			newProduct.CategoryID = &category.ID
		}
	}

	return s.inventoryRepo.CreateWithProduct(ctx, invItem, newProduct)
}

// recordExpense writes one expense against the active budget. Without an
// active budget the commit succeeds with no budget impact.
func (s *inventoryService) recordExpense(ctx context.Context, receipt *domain.Receipt, result *CommitResult) {
	if result.TotalAmount <= 0 {
		return
	}

	spentAt := time.Now().UTC()
	if receipt.PurchaseDate != nil {
		spentAt = *receipt.PurchaseDate
	}

	budget, err := s.budgetRepo.FindActive(ctx, receipt.UserID, spentAt)
	if err != nil {
		if errors.Is(err, domain.ErrNoBudgetActive) {
			log.Printf("inventoryService.recordExpense: no active budget for user %s, skipping", receipt.UserID)
			return
		}
		log.Printf("inventoryService.recordExpense: budget lookup failed for user %s: %v", receipt.UserID, err)
		return
	}

	expense := &domain.Expense{
		ID:        uuid.New(),
		BudgetID:  budget.ID,
		UserID:    receipt.UserID,
		Amount:    result.TotalAmount,
		SpentAt:   spentAt,
		Memo:      receipt.MerchantName,
		ReceiptID: &receipt.ID,
	}
	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		log.Printf("inventoryService.recordExpense: failed to record expense for receipt %s: %v", receipt.ID, err)
		return
	}
	result.ExpenseCreated = true

	spent, err := s.expenseRepo.SumByBudget(ctx, budget.ID)
	if err != nil {
		log.Printf("inventoryService.recordExpense: failed to sum budget %s: %v", budget.ID, err)
		return
	}
	remaining := budget.Amount - spent
	result.RemainingBudget = &remaining
}

func (s *inventoryService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.InventoryItem, int, error) {
	return s.inventoryRepo.ListByUser(ctx, userID, offset, limit)
}

func (s *inventoryService) GetByID(ctx context.Context, userID, itemID uuid.UUID) (*domain.InventoryItem, error) {
	return s.inventoryRepo.GetByID(ctx, userID, itemID)
}

func (s *inventoryService) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	return s.inventoryRepo.Delete(ctx, userID, itemID)
}
