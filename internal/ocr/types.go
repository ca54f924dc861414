// Package ocr defines the provider abstraction for turning receipt images
// and invoice documents into structured receipt data, plus the registry and
// selection policy over interchangeable backends.
package ocr

import (
	"encoding/json"
	"time"

	"pantrio/internal/domain"
)

// ProcessInput carries the raw document bytes for an OCR call.
type ProcessInput struct {
	FileBytes    []byte
	ContentType  string
	DocumentType domain.DocumentType
}

// LineItem is one detected product/price row, before analysis. All numeric
// fields are nullable: the backend may fail to detect each one independently.
type LineItem struct {
	Description  string   `json:"description"`
	Quantity     *float64 `json:"quantity"`
	UnitPrice    *float64 `json:"unit_price"`
	TotalPrice   *float64 `json:"total_price"`
	Confidence   float64  `json:"confidence"`
	ProductCode  string   `json:"product_code,omitempty"`
	CategoryHint string   `json:"category_hint,omitempty"`
	Discount     *float64 `json:"discount,omitempty"`
}

// ReceiptData is the normalized shape every provider returns. Confidence is
// the provider's own estimate and is never re-derived. LineItems preserve
// detection order on the source document.
type ReceiptData struct {
	MerchantName    string          `json:"merchant_name"`
	MerchantAddress string          `json:"merchant_address"`
	TotalAmount     *float64        `json:"total_amount"`
	TaxAmount       *float64        `json:"tax_amount"`
	PurchaseDate    *time.Time      `json:"purchase_date"`
	Currency        string          `json:"currency"`
	LineItems       []LineItem      `json:"line_items"`
	Confidence      float64         `json:"confidence"`
	InvoiceNumber   string          `json:"invoice_number,omitempty"`
	OrderNumber     string          `json:"order_number,omitempty"`
	RawPayload      json.RawMessage `json:"-"`
}

// Result is the outcome of one provider call. Known error classes (bad
// image, unsupported content) come back as Success=false with Error set;
// only infrastructure failures surface as Go errors from ProcessDocument.
type Result struct {
	Success        bool
	Data           *ReceiptData
	Error          string
	ProcessingTime time.Duration
	Provider       string
	DocumentType   domain.DocumentType
}

// Failure builds a non-success Result for a known error class.
func Failure(provider string, docType domain.DocumentType, msg string, elapsed time.Duration) *Result {
	return &Result{
		Success:        false,
		Error:          msg,
		ProcessingTime: elapsed,
		Provider:       provider,
		DocumentType:   docType,
	}
}
