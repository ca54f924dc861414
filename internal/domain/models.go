package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated account.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FileMeta stores metadata about an uploaded receipt image or invoice file.
type FileMeta struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	OwnerID      uuid.UUID  `db:"owner_id" json:"owner_id"`
	FileName     string     `db:"file_name" json:"file_name"`
	OriginalName string     `db:"original_name" json:"original_name"`
	FileType     FileType   `db:"file_type" json:"file_type"`
	FileSize     int64      `db:"file_size" json:"file_size"`
	S3Bucket     string     `db:"s3_bucket" json:"s3_bucket"`
	S3Key        string     `db:"s3_key" json:"s3_key"`
	ContentType  string     `db:"content_type" json:"content_type"`
	Status       FileStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Category is a product category, addressed by slug.
type Category struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Product is a catalog entry that receipt line items are matched against.
type Product struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	Name       string     `db:"name" json:"name"`
	Brand      string     `db:"brand" json:"brand"`
	Barcode    *string    `db:"barcode" json:"barcode"`
	CategoryID *uuid.UUID `db:"category_id" json:"category_id"`
	UnitType   UnitType   `db:"unit_type" json:"unit_type"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// Receipt is the persisted aggregate for one submitted document. It carries
// both the user-visible status and the queue-side job state, so a worker
// crash never loses terminal state visibility.
type Receipt struct {
	ID           uuid.UUID    `db:"id" json:"id"`
	UserID       uuid.UUID    `db:"user_id" json:"user_id"`
	FileID       uuid.UUID    `db:"file_id" json:"file_id"`
	DocumentType DocumentType `db:"document_type" json:"document_type"`

	Status       ReceiptStatus `db:"status" json:"status"`
	JobStatus    JobStatus     `db:"job_status" json:"job_status"`
	Progress     int           `db:"progress" json:"progress"`
	Attempts     int           `db:"attempts" json:"attempts"`
	RetryAfter   *time.Time    `db:"retry_after" json:"retry_after"`
	ErrorMessage string        `db:"error_message" json:"error_message"`

	MerchantName      string         `db:"merchant_name" json:"merchant_name"`
	MerchantAddress   string         `db:"merchant_address" json:"merchant_address"`
	TotalAmount       *float64       `db:"total_amount" json:"total_amount"`
	TaxAmount         *float64       `db:"tax_amount" json:"tax_amount"`
	PurchaseDate      *time.Time     `db:"purchase_date" json:"purchase_date"`
	Currency          string         `db:"currency" json:"currency"`
	InvoiceNumber     string         `db:"invoice_number" json:"invoice_number"`
	OrderNumber       string         `db:"order_number" json:"order_number"`
	DocumentFormat    DocumentFormat `db:"document_format" json:"document_format"`
	OverallConfidence float64        `db:"overall_confidence" json:"overall_confidence"`
	ConsistencyScore  float64        `db:"consistency_score" json:"consistency_score"`
	OcrProvider       string         `db:"ocr_provider" json:"ocr_provider"`

	ProcessedAt *time.Time `db:"processed_at" json:"processed_at"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// ReceiptItem is one detected line item on a receipt, enriched with the
// matching engine's result and the user's validation state.
type ReceiptItem struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	ReceiptID uuid.UUID  `db:"receipt_id" json:"receipt_id"`
	ProductID *uuid.UUID `db:"product_id" json:"product_id"`

	Description string   `db:"description" json:"description"`
	Quantity    *float64 `db:"quantity" json:"quantity"`
	UnitPrice   *float64 `db:"unit_price" json:"unit_price"`
	TotalPrice  *float64 `db:"total_price" json:"total_price"`
	Confidence  float64  `db:"confidence" json:"confidence"`

	MatchScore        *float64    `db:"match_score" json:"match_score"`
	MatchType         *MatchType  `db:"match_type" json:"match_type"`
	MatchStatus       MatchStatus `db:"match_status" json:"match_status"`
	SuggestedCategory string      `db:"suggested_category" json:"suggested_category"`
	Suspicious        bool        `db:"suspicious" json:"suspicious"`
	Validated         bool        `db:"validated" json:"validated"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// InventoryItem is a pantry record created from a validated receipt item.
type InventoryItem struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	UserID        uuid.UUID  `db:"user_id" json:"user_id"`
	ProductID     uuid.UUID  `db:"product_id" json:"product_id"`
	ReceiptItemID *uuid.UUID `db:"receipt_item_id" json:"receipt_item_id"`

	Quantity        float64    `db:"quantity" json:"quantity"`
	PurchaseDate    *time.Time `db:"purchase_date" json:"purchase_date"`
	ExpiryDate      *time.Time `db:"expiry_date" json:"expiry_date"`
	StorageLocation string     `db:"storage_location" json:"storage_location"`
	Price           *float64   `db:"price" json:"price"`
	Notes           string     `db:"notes" json:"notes"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Budget is a user's spending-limit window.
type Budget struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	Amount      float64   `db:"amount" json:"amount"`
	PeriodStart time.Time `db:"period_start" json:"period_start"`
	PeriodEnd   time.Time `db:"period_end" json:"period_end"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Expense is one ledger entry recorded against a budget.
type Expense struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	BudgetID  uuid.UUID  `db:"budget_id" json:"budget_id"`
	UserID    uuid.UUID  `db:"user_id" json:"user_id"`
	Amount    float64    `db:"amount" json:"amount"`
	SpentAt   time.Time  `db:"spent_at" json:"spent_at"`
	Memo      string     `db:"memo" json:"memo"`
	ReceiptID *uuid.UUID `db:"receipt_id" json:"receipt_id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
