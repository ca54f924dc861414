package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"pantrio/internal/csvexport"
	"pantrio/internal/domain"
	"pantrio/internal/port"
)

const exportPageSize = 500

// ExportService renders a user's data as downloadable files.
type ExportService interface {
	// InventoryCSV exports the user's whole inventory as CSV bytes.
	InventoryCSV(ctx context.Context, userID uuid.UUID) ([]byte, error)
	// ReceiptXLSX exports one completed receipt as an XLSX workbook.
	ReceiptXLSX(ctx context.Context, userID, receiptID uuid.UUID) ([]byte, error)
}

type exportService struct {
	inventoryRepo port.InventoryRepository
	productRepo   port.ProductRepository
	receiptRepo   port.ReceiptRepository
	itemRepo      port.ReceiptItemRepository
}

// NewExportService creates a new ExportService implementation.
func NewExportService(
	inventoryRepo port.InventoryRepository,
	productRepo port.ProductRepository,
	receiptRepo port.ReceiptRepository,
	itemRepo port.ReceiptItemRepository,
) ExportService {
	return &exportService{
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
		receiptRepo:   receiptRepo,
		itemRepo:      itemRepo,
	}
}

func (s *exportService) InventoryCSV(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	var rows []csvexport.InventoryRow

	for offset := 0; ; offset += exportPageSize {
		items, total, err := s.inventoryRepo.ListByUser(ctx, userID, offset, exportPageSize)
		if err != nil {
			return nil, fmt.Errorf("listing inventory: %w", err)
		}
		for i := range items {
			rows = append(rows, s.toRow(ctx, &items[i]))
		}
		if offset+len(items) >= total || len(items) == 0 {
			break
		}
	}

	var buf bytes.Buffer
	if err := csvexport.WriteInventory(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *exportService) toRow(ctx context.Context, item *domain.InventoryItem) csvexport.InventoryRow {
	row := csvexport.InventoryRow{
		Quantity:        item.Quantity,
		StorageLocation: item.StorageLocation,
		PurchaseDate:    item.PurchaseDate,
		Price:           item.Price,
		Notes:           item.Notes,
	}

	product, err := s.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		log.Printf("exportService: product lookup failed for %s: %v", item.ProductID, err)
		row.ProductName = item.ProductID.String()
		return row
	}
	row.ProductName = product.Name
	row.Brand = product.Brand
	if product.CategoryID != nil {
		if slug, err := s.productRepo.FindCategorySlug(ctx, *product.CategoryID); err == nil {
			row.Category = slug
		}
	}
	return row
}

func (s *exportService) ReceiptXLSX(ctx context.Context, userID, receiptID uuid.UUID) ([]byte, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, userID, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt.Status != domain.ReceiptStatusCompleted && receipt.Status != domain.ReceiptStatusValidated {
		return nil, domain.ErrReceiptNotCompleted
	}

	items, err := s.itemRepo.ListByReceipt(ctx, receiptID)
	if err != nil {
		return nil, fmt.Errorf("listing receipt items: %w", err)
	}

	workbook, err := csvexport.ReceiptWorkbook(receipt, items)
	if err != nil {
		return nil, err
	}
	defer workbook.Close()

	buf, err := workbook.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
