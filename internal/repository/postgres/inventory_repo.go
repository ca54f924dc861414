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

type inventoryRepo struct {
	db *sqlx.DB
}

// NewInventoryRepo creates a new PostgreSQL-backed InventoryRepository.
func NewInventoryRepo(db *sqlx.DB) port.InventoryRepository {
	return &inventoryRepo{db: db}
}

func (r *inventoryRepo) CreateWithProduct(ctx context.Context, item *domain.InventoryItem, newProduct *domain.Product) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("inventoryRepo.CreateWithProduct begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	if newProduct != nil {
		newProduct.CreatedAt = now
		newProduct.UpdatedAt = now
		_, err = tx.ExecContext(ctx,
			`INSERT INTO products (
				id, name, brand, barcode, category_id, unit_type, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			newProduct.ID, newProduct.Name, newProduct.Brand, newProduct.Barcode,
			newProduct.CategoryID, newProduct.UnitType, newProduct.CreatedAt, newProduct.UpdatedAt)
		if err != nil {
			return fmt.Errorf("inventoryRepo.CreateWithProduct product insert: %w", err)
		}
		item.ProductID = newProduct.ID
	}

	item.CreatedAt = now
	item.UpdatedAt = now
	_, err = tx.ExecContext(ctx,
		`INSERT INTO inventory_items (
			id, user_id, product_id, receipt_item_id, quantity, purchase_date,
			expiry_date, storage_location, price, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		item.ID, item.UserID, item.ProductID, item.ReceiptItemID, item.Quantity, item.PurchaseDate,
		item.ExpiryDate, item.StorageLocation, item.Price, item.Notes, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inventoryRepo.CreateWithProduct item insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("inventoryRepo.CreateWithProduct commit: %w", err)
	}
	return nil
}

func (r *inventoryRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.InventoryItem, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM inventory_items WHERE user_id = $1", userID)
	if err != nil {
		return nil, 0, fmt.Errorf("inventoryRepo.ListByUser count: %w", err)
	}

	var items []domain.InventoryItem
	err = r.db.SelectContext(ctx, &items,
		`SELECT * FROM inventory_items WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("inventoryRepo.ListByUser: %w", err)
	}
	return items, total, nil
}

func (r *inventoryRepo) GetByID(ctx context.Context, userID, itemID uuid.UUID) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := r.db.GetContext(ctx, &item,
		"SELECT * FROM inventory_items WHERE id = $1 AND user_id = $2", itemID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("inventoryRepo.GetByID: %w", err)
	}
	return &item, nil
}

func (r *inventoryRepo) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM inventory_items WHERE id = $1 AND user_id = $2", itemID, userID)
	if err != nil {
		return fmt.Errorf("inventoryRepo.Delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("inventoryRepo.Delete rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
