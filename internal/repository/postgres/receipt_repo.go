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

type receiptRepo struct {
	db *sqlx.DB
}

// NewReceiptRepo creates a new PostgreSQL-backed ReceiptRepository.
func NewReceiptRepo(db *sqlx.DB) port.ReceiptRepository {
	return &receiptRepo{db: db}
}

func (r *receiptRepo) Create(ctx context.Context, receipt *domain.Receipt) error {
	now := time.Now().UTC()
	receipt.CreatedAt = now
	receipt.UpdatedAt = now

	query := `INSERT INTO receipts (
		id, user_id, file_id, document_type,
		status, job_status, progress, attempts, retry_after, error_message,
		merchant_name, merchant_address, total_amount, tax_amount,
		purchase_date, currency, invoice_number, order_number,
		document_format, overall_confidence, consistency_score, ocr_provider,
		processed_at, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7, $8, $9, $10,
		$11, $12, $13, $14,
		$15, $16, $17, $18,
		$19, $20, $21, $22,
		$23, $24, $25
	)`

	_, err := r.db.ExecContext(ctx, query,
		receipt.ID, receipt.UserID, receipt.FileID, receipt.DocumentType,
		receipt.Status, receipt.JobStatus, receipt.Progress, receipt.Attempts, receipt.RetryAfter, receipt.ErrorMessage,
		receipt.MerchantName, receipt.MerchantAddress, receipt.TotalAmount, receipt.TaxAmount,
		receipt.PurchaseDate, receipt.Currency, receipt.InvoiceNumber, receipt.OrderNumber,
		receipt.DocumentFormat, receipt.OverallConfidence, receipt.ConsistencyScore, receipt.OcrProvider,
		receipt.ProcessedAt, receipt.CreatedAt, receipt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("receiptRepo.Create: %w", err)
	}
	return nil
}

func (r *receiptRepo) GetByID(ctx context.Context, userID, receiptID uuid.UUID) (*domain.Receipt, error) {
	var receipt domain.Receipt
	err := r.db.GetContext(ctx, &receipt,
		"SELECT * FROM receipts WHERE id = $1 AND user_id = $2", receiptID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReceiptNotFound
		}
		return nil, fmt.Errorf("receiptRepo.GetByID: %w", err)
	}
	return &receipt, nil
}

func (r *receiptRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Receipt, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM receipts WHERE user_id = $1", userID)
	if err != nil {
		return nil, 0, fmt.Errorf("receiptRepo.ListByUser count: %w", err)
	}

	var receipts []domain.Receipt
	err = r.db.SelectContext(ctx, &receipts,
		`SELECT * FROM receipts WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("receiptRepo.ListByUser: %w", err)
	}
	return receipts, total, nil
}

func (r *receiptRepo) Delete(ctx context.Context, userID, receiptID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM receipts WHERE id = $1 AND user_id = $2", receiptID, userID)
	if err != nil {
		return fmt.Errorf("receiptRepo.Delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("receiptRepo.Delete rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrReceiptNotFound
	}
	return nil
}

func (r *receiptRepo) UpdateExtractedFields(ctx context.Context, receipt *domain.Receipt) error {
	receipt.UpdatedAt = time.Now().UTC()

	query := `UPDATE receipts SET
		merchant_name = $1, merchant_address = $2, total_amount = $3,
		tax_amount = $4, purchase_date = $5, currency = $6,
		invoice_number = $7, order_number = $8, document_format = $9,
		overall_confidence = $10, consistency_score = $11, ocr_provider = $12,
		updated_at = $13
	WHERE id = $14`

	_, err := r.db.ExecContext(ctx, query,
		receipt.MerchantName, receipt.MerchantAddress, receipt.TotalAmount,
		receipt.TaxAmount, receipt.PurchaseDate, receipt.Currency,
		receipt.InvoiceNumber, receipt.OrderNumber, receipt.DocumentFormat,
		receipt.OverallConfidence, receipt.ConsistencyScore, receipt.OcrProvider,
		receipt.UpdatedAt, receipt.ID)
	if err != nil {
		return fmt.Errorf("receiptRepo.UpdateExtractedFields: %w", err)
	}
	return nil
}

func (r *receiptRepo) UpdateJobState(ctx context.Context, receipt *domain.Receipt) error {
	receipt.UpdatedAt = time.Now().UTC()

	query := `UPDATE receipts SET
		status = $1, job_status = $2, progress = $3, attempts = $4,
		retry_after = $5, error_message = $6, processed_at = $7, updated_at = $8
	WHERE id = $9`

	_, err := r.db.ExecContext(ctx, query,
		receipt.Status, receipt.JobStatus, receipt.Progress, receipt.Attempts,
		receipt.RetryAfter, receipt.ErrorMessage, receipt.ProcessedAt, receipt.UpdatedAt,
		receipt.ID)
	if err != nil {
		return fmt.Errorf("receiptRepo.UpdateJobState: %w", err)
	}
	return nil
}

func (r *receiptRepo) UpdateProgress(ctx context.Context, receiptID uuid.UUID, progress int) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE receipts SET progress = $1, updated_at = $2 WHERE id = $3",
		progress, time.Now().UTC(), receiptID)
	if err != nil {
		return fmt.Errorf("receiptRepo.UpdateProgress: %w", err)
	}
	return nil
}

func (r *receiptRepo) UpdateStatus(ctx context.Context, receiptID uuid.UUID, status domain.ReceiptStatus) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE receipts SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now().UTC(), receiptID)
	if err != nil {
		return fmt.Errorf("receiptRepo.UpdateStatus: %w", err)
	}
	return nil
}

// ClaimQueued claims runnable jobs with FOR UPDATE SKIP LOCKED so concurrent
// workers never pick up the same receipt, and a receipt has at most one
// active job at a time.
func (r *receiptRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.Receipt, error) {
	query := `UPDATE receipts SET job_status = $1, updated_at = $2
	WHERE id IN (
		SELECT id FROM receipts
		WHERE job_status = $3
		   OR (job_status = $4 AND retry_after IS NOT NULL AND retry_after <= $2)
		ORDER BY created_at
		LIMIT $5
		FOR UPDATE SKIP LOCKED
	)
	RETURNING *`

	var receipts []domain.Receipt
	err := r.db.SelectContext(ctx, &receipts, query,
		domain.JobStatusActive, time.Now().UTC(),
		domain.JobStatusWaiting, domain.JobStatusDelayed, limit)
	if err != nil {
		return nil, fmt.Errorf("receiptRepo.ClaimQueued: %w", err)
	}
	return receipts, nil
}

func (r *receiptRepo) CancelPending(ctx context.Context, userID, receiptID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE receipts SET job_status = $1, status = $2, error_message = $3, updated_at = $4
		 WHERE id = $5 AND user_id = $6 AND job_status IN ($7, $8)`,
		domain.JobStatusFailed, domain.ReceiptStatusFailed, "canceled by user",
		time.Now().UTC(), receiptID, userID,
		domain.JobStatusWaiting, domain.JobStatusDelayed)
	if err != nil {
		return fmt.Errorf("receiptRepo.CancelPending: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("receiptRepo.CancelPending rows affected: %w", err)
	}
	if affected == 0 {
		// Either missing or not in a cancelable state; disambiguate
		if _, getErr := r.GetByID(ctx, userID, receiptID); getErr != nil {
			return getErr
		}
		return domain.ErrJobNotCancelable
	}
	return nil
}
