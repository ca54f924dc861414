package port

import (
	"context"

	"github.com/google/uuid"

	"pantrio/internal/domain"
)

// ReceiptRepository defines the contract for receipt persistence, including
// the queue-side claim/release operations. All user-facing query methods
// include userID to enforce ownership at the data layer.
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *domain.Receipt) error
	GetByID(ctx context.Context, userID, receiptID uuid.UUID) (*domain.Receipt, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Receipt, int, error)
	Delete(ctx context.Context, userID, receiptID uuid.UUID) error

	// UpdateExtractedFields persists the analysis output on the receipt row.
	UpdateExtractedFields(ctx context.Context, receipt *domain.Receipt) error
	// UpdateJobState persists status, job status, attempts, retry_after,
	// progress, error message, and processed_at.
	UpdateJobState(ctx context.Context, receipt *domain.Receipt) error
	// UpdateProgress persists the worker's progress percentage.
	UpdateProgress(ctx context.Context, receiptID uuid.UUID, progress int) error
	// UpdateStatus persists only the user-visible status.
	UpdateStatus(ctx context.Context, receiptID uuid.UUID, status domain.ReceiptStatus) error

	// ClaimQueued atomically marks up to limit runnable receipts (waiting,
	// or delayed with an elapsed retry timer) as active and returns them.
	// A receipt can be claimed by at most one worker at a time.
	ClaimQueued(ctx context.Context, limit int) ([]domain.Receipt, error)
	// CancelPending cancels a job that is still waiting or delayed. Returns
	// domain.ErrJobNotCancelable when the job is already active or terminal.
	CancelPending(ctx context.Context, userID, receiptID uuid.UUID) error
}

// ReceiptItemRepository defines the contract for receipt item persistence.
type ReceiptItemRepository interface {
	CreateBatch(ctx context.Context, items []domain.ReceiptItem) error
	ListByReceipt(ctx context.Context, receiptID uuid.UUID) ([]domain.ReceiptItem, error)
	GetByID(ctx context.Context, receiptID, itemID uuid.UUID) (*domain.ReceiptItem, error)
	Update(ctx context.Context, item *domain.ReceiptItem) error
	DeleteByReceipt(ctx context.Context, receiptID uuid.UUID) error
}
