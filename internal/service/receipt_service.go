package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"pantrio/internal/analysis"
	"pantrio/internal/domain"
	"pantrio/internal/matching"
	"pantrio/internal/ocr"
	"pantrio/internal/port"
)

// Processing milestones reported through the receipt's progress column.
const (
	progressDownloaded = 25
	progressOcrDone    = 50
	progressAnalyzed   = 75
	progressMatched    = 90
	progressDone       = 100
)

// failureStateTimeout bounds the job-state write after a failed attempt. The
// attempt's own context may already be expired at that point.
const failureStateTimeout = 10 * time.Second

// SubmitReceiptInput is the DTO for submitting an uploaded file for processing.
type SubmitReceiptInput struct {
	UserID       uuid.UUID
	FileID       uuid.UUID
	DocumentType domain.DocumentType
}

// ReceiptStatusResult is the DTO returned by GetStatus.
type ReceiptStatusResult struct {
	ReceiptID            uuid.UUID            `json:"receipt_id"`
	Status               domain.ReceiptStatus `json:"status"`
	JobStatus            domain.JobStatus     `json:"job_status"`
	Progress             int                  `json:"progress"`
	Attempts             int                  `json:"attempts"`
	ErrorMessage         string               `json:"error_message,omitempty"`
	RetryAfter           *time.Time           `json:"retry_after,omitempty"`
	EstimatedSecondsLeft int                  `json:"estimated_seconds_left"`
}

// ReceiptResults bundles a completed receipt with its line items.
type ReceiptResults struct {
	Receipt *domain.Receipt      `json:"receipt"`
	Items   []domain.ReceiptItem `json:"items"`
}

// UpdateReceiptItemInput is the DTO for reviewing one line item. Nil fields
// are left unchanged.
type UpdateReceiptItemInput struct {
	UserID    uuid.UUID
	ReceiptID uuid.UUID
	ItemID    uuid.UUID

	ProductID   *uuid.UUID `json:"product_id"`
	Description *string    `json:"description"`
	Quantity    *float64   `json:"quantity"`
	UnitPrice   *float64   `json:"unit_price"`
	TotalPrice  *float64   `json:"total_price"`
	Validated   *bool      `json:"validated"`
}

// ReceiptService defines the receipt lifecycle contract: submission, status
// polling, result review, and the worker-side processing step.
type ReceiptService interface {
	Submit(ctx context.Context, input SubmitReceiptInput) (*domain.Receipt, error)
	GetStatus(ctx context.Context, userID, receiptID uuid.UUID) (*ReceiptStatusResult, error)
	GetResults(ctx context.Context, userID, receiptID uuid.UUID) (*ReceiptResults, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Receipt, int, error)
	UpdateItem(ctx context.Context, input UpdateReceiptItemInput) (*domain.ReceiptItem, error)
	Cancel(ctx context.Context, userID, receiptID uuid.UUID) error
	Delete(ctx context.Context, userID, receiptID uuid.UUID) error

	// ProcessReceipt runs one processing attempt for a claimed receipt:
	// download, OCR, analysis, catalog matching, persistence. On failure the
	// receipt is marked failed and the job is delayed or terminally failed
	// according to the document type's retry policy.
	ProcessReceipt(ctx context.Context, receipt *domain.Receipt)
}

type receiptService struct {
	receiptRepo port.ReceiptRepository
	itemRepo    port.ReceiptItemRepository
	fileRepo    port.FileMetaRepository
	userRepo    port.UserRepository
	productRepo port.ProductRepository
	storage     port.ObjectStorage
	ocrSelector *ocr.Selector
	matcher     *matching.Engine
	notifier    port.NotificationSender
}

// NewReceiptService creates a new ReceiptService implementation.
func NewReceiptService(
	receiptRepo port.ReceiptRepository,
	itemRepo port.ReceiptItemRepository,
	fileRepo port.FileMetaRepository,
	userRepo port.UserRepository,
	productRepo port.ProductRepository,
	storage port.ObjectStorage,
	ocrSelector *ocr.Selector,
	matcher *matching.Engine,
	notifier port.NotificationSender,
) ReceiptService {
	return &receiptService{
		receiptRepo: receiptRepo,
		itemRepo:    itemRepo,
		fileRepo:    fileRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		storage:     storage,
		ocrSelector: ocrSelector,
		matcher:     matcher,
		notifier:    notifier,
	}
}

func (s *receiptService) Submit(ctx context.Context, input SubmitReceiptInput) (*domain.Receipt, error) {
	if !domain.ValidDocumentTypes[input.DocumentType] {
		return nil, domain.ErrUnsupportedDocumentType
	}

	file, err := s.fileRepo.GetByID(ctx, input.UserID, input.FileID)
	if err != nil {
		return nil, err
	}
	if file.Status != domain.FileStatusUploaded {
		return nil, domain.ErrFileNotFound
	}
	if !domain.FileTypesForDocument[input.DocumentType][file.FileType] {
		return nil, domain.ErrUnsupportedFileType
	}

	receipt := &domain.Receipt{
		ID:           uuid.New(),
		UserID:       input.UserID,
		FileID:       input.FileID,
		DocumentType: input.DocumentType,
		Status:       domain.ReceiptStatusProcessing,
		JobStatus:    domain.JobStatusWaiting,
		Currency:     "EUR",
	}

	log.Printf("receiptService.Submit: queueing receipt %s (file %s, type %s) for user %s",
		receipt.ID, input.FileID, input.DocumentType, input.UserID)

	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		return nil, fmt.Errorf("creating receipt: %w", err)
	}
	return receipt, nil
}

func (s *receiptService) GetStatus(ctx context.Context, userID, receiptID uuid.UUID) (*ReceiptStatusResult, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, userID, receiptID)
	if err != nil {
		return nil, err
	}

	return &ReceiptStatusResult{
		ReceiptID:            receipt.ID,
		Status:               receipt.Status,
		JobStatus:            receipt.JobStatus,
		Progress:             receipt.Progress,
		Attempts:             receipt.Attempts,
		ErrorMessage:         receipt.ErrorMessage,
		RetryAfter:           receipt.RetryAfter,
		EstimatedSecondsLeft: estimateSecondsLeft(receipt),
	}, nil
}

// estimateSecondsLeft projects remaining processing time from the attempt
// timeout and current progress. Zero for terminal jobs.
func estimateSecondsLeft(receipt *domain.Receipt) int {
	switch receipt.JobStatus {
	case domain.JobStatusCompleted, domain.JobStatusFailed:
		return 0
	}
	policy := RetryPolicyFor(receipt.DocumentType)
	remaining := policy.Timeout.Seconds() * float64(100-receipt.Progress) / 100
	if receipt.JobStatus == domain.JobStatusDelayed && receipt.RetryAfter != nil {
		if wait := time.Until(*receipt.RetryAfter); wait > 0 {
			remaining += wait.Seconds()
		}
	}
	return int(remaining)
}

func (s *receiptService) GetResults(ctx context.Context, userID, receiptID uuid.UUID) (*ReceiptResults, error) {
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

	return &ReceiptResults{Receipt: receipt, Items: items}, nil
}

func (s *receiptService) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Receipt, int, error) {
	return s.receiptRepo.ListByUser(ctx, userID, offset, limit)
}

func (s *receiptService) UpdateItem(ctx context.Context, input UpdateReceiptItemInput) (*domain.ReceiptItem, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, input.UserID, input.ReceiptID)
	if err != nil {
		return nil, err
	}
	if receipt.Status != domain.ReceiptStatusCompleted && receipt.Status != domain.ReceiptStatusValidated {
		return nil, domain.ErrReceiptNotCompleted
	}

	item, err := s.itemRepo.GetByID(ctx, input.ReceiptID, input.ItemID)
	if err != nil {
		return nil, err
	}

	if input.ProductID != nil {
		// A user-confirmed association overrides whatever the matcher found
		if _, err := s.productRepo.GetByID(ctx, *input.ProductID); err != nil {
			return nil, err
		}
		item.ProductID = input.ProductID
		score := 1.0
		item.MatchScore = &score
		item.MatchStatus = domain.MatchStatusExact
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Quantity != nil {
		item.Quantity = input.Quantity
	}
	if input.UnitPrice != nil {
		item.UnitPrice = input.UnitPrice
	}
	if input.TotalPrice != nil {
		item.TotalPrice = input.TotalPrice
	}
	if input.Validated != nil {
		item.Validated = *input.Validated
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	// When every item has been validated the receipt itself moves to validated
	if item.Validated && receipt.Status == domain.ReceiptStatusCompleted {
		if err := s.promoteIfFullyValidated(ctx, receipt); err != nil {
			log.Printf("receiptService.UpdateItem: validation promotion failed for %s: %v", receipt.ID, err)
		}
	}

	return item, nil
}

func (s *receiptService) promoteIfFullyValidated(ctx context.Context, receipt *domain.Receipt) error {
	items, err := s.itemRepo.ListByReceipt(ctx, receipt.ID)
	if err != nil {
		return err
	}
	for i := range items {
		if !items[i].Validated {
			return nil
		}
	}
	log.Printf("receiptService: all items validated, promoting receipt %s", receipt.ID)
	return s.receiptRepo.UpdateStatus(ctx, receipt.ID, domain.ReceiptStatusValidated)
}

func (s *receiptService) Cancel(ctx context.Context, userID, receiptID uuid.UUID) error {
	log.Printf("receiptService.Cancel: canceling receipt %s for user %s", receiptID, userID)
	return s.receiptRepo.CancelPending(ctx, userID, receiptID)
}

func (s *receiptService) Delete(ctx context.Context, userID, receiptID uuid.UUID) error {
	receipt, err := s.receiptRepo.GetByID(ctx, userID, receiptID)
	if err != nil {
		return err
	}
	if receipt.JobStatus == domain.JobStatusActive {
		return domain.ErrJobNotCancelable
	}

	if err := s.itemRepo.DeleteByReceipt(ctx, receiptID); err != nil {
		return fmt.Errorf("deleting receipt items: %w", err)
	}
	return s.receiptRepo.Delete(ctx, userID, receiptID)
}

// ProcessReceipt runs one processing attempt. The receipt must already be
// claimed (job status active) with Attempts incremented by the worker.
func (s *receiptService) ProcessReceipt(ctx context.Context, receipt *domain.Receipt) {
	receipt.Status = domain.ReceiptStatusProcessing
	receipt.Progress = 0
	receipt.ErrorMessage = ""
	receipt.RetryAfter = nil
	if err := s.receiptRepo.UpdateJobState(ctx, receipt); err != nil {
		log.Printf("receiptService.ProcessReceipt: failed to mark %s processing: %v", receipt.ID, err)
		return
	}

	file, err := s.fileRepo.GetByID(ctx, receipt.UserID, receipt.FileID)
	if err != nil {
		s.handleProcessError(ctx, receipt, fmt.Sprintf("looking up file: %v", err))
		return
	}

	fileBytes, err := s.storage.Download(ctx, file.S3Bucket, file.S3Key)
	if err != nil {
		s.handleProcessError(ctx, receipt, fmt.Sprintf("downloading file: %v", err))
		return
	}
	s.reportProgress(ctx, receipt, progressDownloaded)

	provider, err := s.ocrSelector.Select(receipt.DocumentType)
	if err != nil {
		s.handleProcessError(ctx, receipt, err.Error())
		return
	}

	ocrResult, err := provider.ProcessDocument(ctx, ocr.ProcessInput{
		FileBytes:    fileBytes,
		ContentType:  file.ContentType,
		DocumentType: receipt.DocumentType,
	})
	if err != nil {
		s.handleProcessError(ctx, receipt, fmt.Sprintf("ocr provider %s: %v", provider.Name(), err))
		return
	}
	if !ocrResult.Success {
		s.handleProcessError(ctx, receipt, fmt.Sprintf("ocr provider %s: %s", provider.Name(), ocrResult.Error))
		return
	}
	s.reportProgress(ctx, receipt, progressOcrDone)

	analyzed := analysis.Analyze(ocrResult.Data)
	s.reportProgress(ctx, receipt, progressAnalyzed)

	matchResults := s.matcher.MatchItems(ctx, analyzed.Receipt.Items)
	s.reportProgress(ctx, receipt, progressMatched)

	if err := s.saveResults(ctx, receipt, provider.Name(), analyzed, matchResults); err != nil {
		s.handleProcessError(ctx, receipt, fmt.Sprintf("saving results: %v", err))
		return
	}

	now := time.Now().UTC()
	receipt.Status = domain.ReceiptStatusCompleted
	receipt.JobStatus = domain.JobStatusCompleted
	receipt.Progress = progressDone
	receipt.ErrorMessage = ""
	receipt.RetryAfter = nil
	receipt.ProcessedAt = &now
	if err := s.receiptRepo.UpdateJobState(ctx, receipt); err != nil {
		log.Printf("receiptService.ProcessReceipt: failed to complete %s: %v", receipt.ID, err)
		return
	}

	log.Printf("receiptService.ProcessReceipt: receipt %s completed in attempt %d (%d items, confidence %.2f)",
		receipt.ID, receipt.Attempts, len(matchResults), receipt.OverallConfidence)

	s.notify(ctx, receipt, true)
}

// saveResults persists the extracted receipt fields and rebuilds the line
// items from the analysis and matching output. Items from a previous attempt
// are replaced.
func (s *receiptService) saveResults(ctx context.Context, receipt *domain.Receipt, providerName string, analyzed *analysis.Result, matchResults []matching.Result) error {
	r := &analyzed.Receipt
	receipt.MerchantName = r.MerchantName
	receipt.MerchantAddress = r.MerchantAddress
	receipt.TotalAmount = r.TotalAmount
	receipt.TaxAmount = r.TaxAmount
	receipt.PurchaseDate = r.PurchaseDate
	if r.Currency != "" {
		receipt.Currency = r.Currency
	}
	receipt.InvoiceNumber = r.InvoiceNumber
	receipt.OrderNumber = r.OrderNumber
	receipt.DocumentFormat = analyzed.Metadata.DocumentFormat
	receipt.OverallConfidence = analyzed.Metadata.OverallConfidence
	receipt.ConsistencyScore = analyzed.Metadata.DataConsistencyScore
	receipt.OcrProvider = providerName

	if err := s.receiptRepo.UpdateExtractedFields(ctx, receipt); err != nil {
		return err
	}

	if err := s.itemRepo.DeleteByReceipt(ctx, receipt.ID); err != nil {
		return err
	}

	suspicious := map[int]bool{}
	for _, idx := range analyzed.Metadata.SuspiciousItems {
		suspicious[idx] = true
	}

	items := make([]domain.ReceiptItem, 0, len(matchResults))
	for i := range matchResults {
		res := &matchResults[i]
		item := domain.ReceiptItem{
			ID:                uuid.New(),
			ReceiptID:         receipt.ID,
			Description:       res.Item.Description,
			Quantity:          res.Item.Quantity,
			UnitPrice:         res.Item.UnitPrice,
			TotalPrice:        res.Item.TotalPrice,
			Confidence:        res.Item.Confidence,
			MatchStatus:       res.Status,
			SuggestedCategory: res.SuggestedCategory,
			Suspicious:        suspicious[i],
		}
		if res.BestMatch != nil {
			score := res.BestMatch.Score
			matchType := res.BestMatch.Type
			item.MatchScore = &score
			item.MatchType = &matchType
			if matching.ShouldAutoAssociate(score) {
				item.ProductID = &res.BestMatch.Product.ID
			}
			if matching.ShouldAutoValidate(score) {
				item.Validated = true
			}
		}
		items = append(items, item)
	}

	return s.itemRepo.CreateBatch(ctx, items)
}

// handleProcessError marks the receipt failed and either delays the job for
// another attempt or fails it terminally, per the document type's policy.
func (s *receiptService) handleProcessError(ctx context.Context, receipt *domain.Receipt, errMsg string) {
	// An attempt timeout is itself a failure cause, so the state write must
	// not share the attempt's deadline. Otherwise the row stays active and
	// ClaimQueued never picks the job up again.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), failureStateTimeout)
	defer cancel()

	policy := RetryPolicyFor(receipt.DocumentType)

	receipt.Status = domain.ReceiptStatusFailed
	receipt.ErrorMessage = errMsg

	if receipt.Attempts < policy.MaxAttempts {
		retryAt := time.Now().UTC().Add(policy.BackoffDelay(receipt.Attempts))
		receipt.JobStatus = domain.JobStatusDelayed
		receipt.RetryAfter = &retryAt
		log.Printf("receiptService.handleProcessError: receipt %s attempt %d/%d failed (%s), retrying at %s",
			receipt.ID, receipt.Attempts, policy.MaxAttempts, errMsg, retryAt.Format(time.RFC3339))
	} else {
		receipt.JobStatus = domain.JobStatusFailed
		receipt.RetryAfter = nil
		log.Printf("receiptService.handleProcessError: receipt %s failed permanently after %d attempts: %s",
			receipt.ID, receipt.Attempts, errMsg)
	}

	if err := s.receiptRepo.UpdateJobState(ctx, receipt); err != nil {
		log.Printf("receiptService.handleProcessError: failed to update job state for %s: %v", receipt.ID, err)
		return
	}

	if receipt.JobStatus == domain.JobStatusFailed {
		s.notify(ctx, receipt, false)
	}
}

func (s *receiptService) reportProgress(ctx context.Context, receipt *domain.Receipt, progress int) {
	receipt.Progress = progress
	if err := s.receiptRepo.UpdateProgress(ctx, receipt.ID, progress); err != nil {
		log.Printf("receiptService: failed to report progress %d for %s: %v", progress, receipt.ID, err)
	}
}

// notify emails the receipt owner. Delivery failures are logged, never fatal.
func (s *receiptService) notify(ctx context.Context, receipt *domain.Receipt, processed bool) {
	if s.notifier == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, receipt.UserID)
	if err != nil {
		log.Printf("receiptService.notify: failed to look up user %s: %v", receipt.UserID, err)
		return
	}
	if processed {
		err = s.notifier.SendReceiptProcessed(ctx, user.Email, user.FullName, receipt)
	} else {
		err = s.notifier.SendReceiptFailed(ctx, user.Email, user.FullName, receipt)
	}
	if err != nil {
		log.Printf("receiptService.notify: failed to send notification for %s: %v", receipt.ID, err)
	}
}
