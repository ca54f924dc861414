// Package mindee implements the OCR provider backed by the Mindee expense
// receipts API.
package mindee

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"pantrio/internal/config"
	"pantrio/internal/domain"
	"pantrio/internal/ocr"
)

const providerName = "mindee"

const defaultEndpoint = "https://api.mindee.net/v1/products/mindee/expense_receipts/v5/predict"

type mindeeProvider struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// New creates a Mindee-backed ocr.Provider from the provider config.
func New(cfg *config.OCRProviderConfig) (ocr.Provider, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &mindeeProvider{
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

func (p *mindeeProvider) Name() string { return providerName }

func (p *mindeeProvider) IsAvailable() bool { return p.apiKey != "" }

func (p *mindeeProvider) SupportsDocumentType(docType domain.DocumentType) bool {
	return docType == domain.DocumentTypeReceiptImage || docType == domain.DocumentTypeInvoice
}

func (p *mindeeProvider) ProcessDocument(ctx context.Context, input ocr.ProcessInput) (*ocr.Result, error) {
	start := time.Now()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("document", "document")
	if err != nil {
		return nil, fmt.Errorf("mindee: building request body: %w", err)
	}
	if _, err := part.Write(input.FileBytes); err != nil {
		return nil, fmt.Errorf("mindee: writing document bytes: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("mindee: closing multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("mindee: creating request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+p.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		// Network failure is infrastructure, not a document problem
		return nil, fmt.Errorf("mindee: calling API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("mindee: reading response: %w", err)
	}

	elapsed := time.Since(start)

	switch {
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		// The document itself was rejected: a known error class
		return ocr.Failure(providerName, input.DocumentType,
			fmt.Sprintf("document rejected by mindee (HTTP %d)", resp.StatusCode), elapsed), nil
	case resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("mindee: API returned HTTP %d", resp.StatusCode)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return ocr.Failure(providerName, input.DocumentType,
			fmt.Sprintf("malformed mindee response: %v", err), elapsed), nil
	}

	data := apiResp.toReceiptData()
	data.RawPayload = raw

	return &ocr.Result{
		Success:        true,
		Data:           data,
		ProcessingTime: elapsed,
		Provider:       providerName,
		DocumentType:   input.DocumentType,
	}, nil
}

// apiResponse mirrors the subset of the Mindee v5 prediction payload we use.
type apiResponse struct {
	Document struct {
		Inference struct {
			Prediction prediction `json:"prediction"`
		} `json:"inference"`
	} `json:"document"`
}

type prediction struct {
	SupplierName    stringField  `json:"supplier_name"`
	SupplierAddress stringField  `json:"supplier_address"`
	TotalAmount     numberField  `json:"total_amount"`
	TotalTax        numberField  `json:"total_tax"`
	Date            stringField  `json:"date"`
	Locale          localeField  `json:"locale"`
	ReceiptNumber   stringField  `json:"receipt_number"`
	LineItems       []lineItem   `json:"line_items"`
}

type stringField struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

type numberField struct {
	Value      *float64 `json:"value"`
	Confidence float64  `json:"confidence"`
}

type localeField struct {
	Currency string `json:"currency"`
}

type lineItem struct {
	Description string   `json:"description"`
	Quantity    *float64 `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price"`
	TotalAmount *float64 `json:"total_amount"`
	Confidence  float64  `json:"confidence"`
}

func (r *apiResponse) toReceiptData() *ocr.ReceiptData {
	pred := r.Document.Inference.Prediction

	data := &ocr.ReceiptData{
		MerchantName:    pred.SupplierName.Value,
		MerchantAddress: pred.SupplierAddress.Value,
		TotalAmount:     pred.TotalAmount.Value,
		TaxAmount:       pred.TotalTax.Value,
		Currency:        pred.Locale.Currency,
		InvoiceNumber:   pred.ReceiptNumber.Value,
		Confidence:      pred.SupplierName.Confidence,
	}

	if pred.Date.Value != "" {
		if parsed, err := time.Parse("2006-01-02", pred.Date.Value); err == nil {
			data.PurchaseDate = &parsed
		}
	}

	// Overall confidence: mean of the headline field confidences the API
	// reports, which is Mindee's own per-field estimate.
	confidences := []float64{
		pred.SupplierName.Confidence,
		pred.TotalAmount.Confidence,
		pred.Date.Confidence,
	}
	var sum float64
	for _, c := range confidences {
		sum += c
	}
	data.Confidence = sum / float64(len(confidences))

	data.LineItems = make([]ocr.LineItem, 0, len(pred.LineItems))
	for _, li := range pred.LineItems {
		data.LineItems = append(data.LineItems, ocr.LineItem{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			TotalPrice:  li.TotalAmount,
			Confidence:  li.Confidence,
		})
	}

	return data
}
