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

type receiptItemRepo struct {
	db *sqlx.DB
}

// NewReceiptItemRepo creates a new PostgreSQL-backed ReceiptItemRepository.
func NewReceiptItemRepo(db *sqlx.DB) port.ReceiptItemRepository {
	return &receiptItemRepo{db: db}
}

func (r *receiptItemRepo) CreateBatch(ctx context.Context, items []domain.ReceiptItem) error {
	if len(items) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for i := range items {
		items[i].CreatedAt = now
		items[i].UpdatedAt = now
	}

	query := `INSERT INTO receipt_items (
		id, receipt_id, product_id, description, quantity, unit_price,
		total_price, confidence, match_score, match_type, match_status,
		suggested_category, suspicious, validated, created_at, updated_at
	) VALUES (
		:id, :receipt_id, :product_id, :description, :quantity, :unit_price,
		:total_price, :confidence, :match_score, :match_type, :match_status,
		:suggested_category, :suspicious, :validated, :created_at, :updated_at
	)`

	if _, err := r.db.NamedExecContext(ctx, query, items); err != nil {
		return fmt.Errorf("receiptItemRepo.CreateBatch: %w", err)
	}
	return nil
}

func (r *receiptItemRepo) ListByReceipt(ctx context.Context, receiptID uuid.UUID) ([]domain.ReceiptItem, error) {
	var items []domain.ReceiptItem
	err := r.db.SelectContext(ctx, &items,
		"SELECT * FROM receipt_items WHERE receipt_id = $1 ORDER BY created_at, id", receiptID)
	if err != nil {
		return nil, fmt.Errorf("receiptItemRepo.ListByReceipt: %w", err)
	}
	return items, nil
}

func (r *receiptItemRepo) GetByID(ctx context.Context, receiptID, itemID uuid.UUID) (*domain.ReceiptItem, error) {
	var item domain.ReceiptItem
	err := r.db.GetContext(ctx, &item,
		"SELECT * FROM receipt_items WHERE id = $1 AND receipt_id = $2", itemID, receiptID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReceiptItemNotFound
		}
		return nil, fmt.Errorf("receiptItemRepo.GetByID: %w", err)
	}
	return &item, nil
}

func (r *receiptItemRepo) Update(ctx context.Context, item *domain.ReceiptItem) error {
	item.UpdatedAt = time.Now().UTC()

	query := `UPDATE receipt_items SET
		product_id = $1, description = $2, quantity = $3, unit_price = $4,
		total_price = $5, match_score = $6, match_type = $7, match_status = $8,
		suggested_category = $9, validated = $10, updated_at = $11
	WHERE id = $12 AND receipt_id = $13`

	res, err := r.db.ExecContext(ctx, query,
		item.ProductID, item.Description, item.Quantity, item.UnitPrice,
		item.TotalPrice, item.MatchScore, item.MatchType, item.MatchStatus,
		item.SuggestedCategory, item.Validated, item.UpdatedAt,
		item.ID, item.ReceiptID)
	if err != nil {
		return fmt.Errorf("receiptItemRepo.Update: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("receiptItemRepo.Update rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrReceiptItemNotFound
	}
	return nil
}

func (r *receiptItemRepo) DeleteByReceipt(ctx context.Context, receiptID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM receipt_items WHERE receipt_id = $1", receiptID); err != nil {
		return fmt.Errorf("receiptItemRepo.DeleteByReceipt: %w", err)
	}
	return nil
}
