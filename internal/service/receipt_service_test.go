package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pantrio/internal/domain"
	"pantrio/internal/matching"
	"pantrio/internal/ocr"
	"pantrio/internal/service"
	"pantrio/mocks"
)

type receiptServiceMocks struct {
	receiptRepo *mocks.MockReceiptRepo
	itemRepo    *mocks.MockReceiptItemRepo
	fileRepo    *mocks.MockFileMetaRepo
	userRepo    *mocks.MockUserRepo
	productRepo *mocks.MockProductRepo
	storage     *mocks.MockObjectStorage
	provider    *mocks.MockOcrProvider
	notifier    *mocks.MockEmailSender
}

func setupReceiptService() (service.ReceiptService, *receiptServiceMocks) {
	m := &receiptServiceMocks{
		receiptRepo: new(mocks.MockReceiptRepo),
		itemRepo:    new(mocks.MockReceiptItemRepo),
		fileRepo:    new(mocks.MockFileMetaRepo),
		userRepo:    new(mocks.MockUserRepo),
		productRepo: new(mocks.MockProductRepo),
		storage:     new(mocks.MockObjectStorage),
		provider:    new(mocks.MockOcrProvider),
		notifier:    new(mocks.MockEmailSender),
	}
	svc := service.NewReceiptService(
		m.receiptRepo, m.itemRepo, m.fileRepo, m.userRepo, m.productRepo,
		m.storage, ocr.NewSelector(m.provider), matching.NewEngine(m.productRepo), m.notifier)
	return svc, m
}

func uploadedFile(ownerID uuid.UUID, fileType domain.FileType) *domain.FileMeta {
	return &domain.FileMeta{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		FileType:    fileType,
		S3Bucket:    "pantrio-uploads",
		S3Key:       "receipts/test.jpg",
		ContentType: "image/jpeg",
		Status:      domain.FileStatusUploaded,
	}
}

// --- Submit ---

func TestReceiptService_Submit_QueuesReceipt(t *testing.T) {
	svc, m := setupReceiptService()

	userID := uuid.New()
	file := uploadedFile(userID, domain.FileTypeJPG)
	m.fileRepo.On("GetByID", mock.Anything, userID, file.ID).Return(file, nil)
	m.receiptRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Receipt")).Return(nil)

	receipt, err := svc.Submit(context.Background(), service.SubmitReceiptInput{
		UserID:       userID,
		FileID:       file.ID,
		DocumentType: domain.DocumentTypeReceiptImage,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ReceiptStatusProcessing, receipt.Status)
	assert.Equal(t, domain.JobStatusWaiting, receipt.JobStatus)
	assert.Equal(t, 0, receipt.Attempts)
	assert.Equal(t, "EUR", receipt.Currency)
	m.receiptRepo.AssertExpectations(t)
}

func TestReceiptService_Submit_RejectsUnknownDocumentType(t *testing.T) {
	svc, _ := setupReceiptService()

	_, err := svc.Submit(context.Background(), service.SubmitReceiptInput{
		UserID:       uuid.New(),
		FileID:       uuid.New(),
		DocumentType: "tax_form",
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedDocumentType)
}

func TestReceiptService_Submit_RejectsMismatchedFileType(t *testing.T) {
	svc, m := setupReceiptService()

	userID := uuid.New()
	file := uploadedFile(userID, domain.FileTypePDF)
	m.fileRepo.On("GetByID", mock.Anything, userID, file.ID).Return(file, nil)

	// PDFs are for invoices, not receipt photos
	_, err := svc.Submit(context.Background(), service.SubmitReceiptInput{
		UserID:       userID,
		FileID:       file.ID,
		DocumentType: domain.DocumentTypeReceiptImage,
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

// --- GetResults ---

func TestReceiptService_GetResults_RequiresCompletion(t *testing.T) {
	svc, m := setupReceiptService()

	userID := uuid.New()
	receiptID := uuid.New()
	m.receiptRepo.On("GetByID", mock.Anything, userID, receiptID).Return(&domain.Receipt{
		ID:     receiptID,
		Status: domain.ReceiptStatusProcessing,
	}, nil)

	_, err := svc.GetResults(context.Background(), userID, receiptID)
	assert.ErrorIs(t, err, domain.ErrReceiptNotCompleted)
}

// --- ProcessReceipt ---

func claimedReceipt(docType domain.DocumentType, attempts int) (*domain.Receipt, *domain.FileMeta) {
	userID := uuid.New()
	file := uploadedFile(userID, domain.FileTypeJPG)
	return &domain.Receipt{
		ID:           uuid.New(),
		UserID:       userID,
		FileID:       file.ID,
		DocumentType: docType,
		Status:       domain.ReceiptStatusProcessing,
		JobStatus:    domain.JobStatusActive,
		Attempts:     attempts,
		Currency:     "EUR",
	}, file
}

func TestReceiptService_ProcessReceipt_HappyPath(t *testing.T) {
	svc, m := setupReceiptService()

	receipt, file := claimedReceipt(domain.DocumentTypeReceiptImage, 1)
	total := 3.40
	price := 1.70
	qty := 2.0

	m.receiptRepo.On("UpdateJobState", mock.Anything, receipt).Return(nil)
	m.receiptRepo.On("UpdateProgress", mock.Anything, receipt.ID, mock.Anything).Return(nil)
	m.receiptRepo.On("UpdateExtractedFields", mock.Anything, receipt).Return(nil)
	m.fileRepo.On("GetByID", mock.Anything, receipt.UserID, receipt.FileID).Return(file, nil)
	m.storage.On("Download", mock.Anything, file.S3Bucket, file.S3Key).Return([]byte("jpeg bytes"), nil)

	m.provider.On("IsAvailable").Return(true)
	m.provider.On("SupportsDocumentType", domain.DocumentTypeReceiptImage).Return(true)
	m.provider.On("Name").Return("mindee")
	m.provider.On("ProcessDocument", mock.Anything, mock.AnythingOfType("ocr.ProcessInput")).Return(&ocr.Result{
		Success:  true,
		Provider: "mindee",
		Data: &ocr.ReceiptData{
			MerchantName: "Carrefour City",
			TotalAmount:  &total,
			Currency:     "EUR",
			Confidence:   0.92,
			LineItems: []ocr.LineItem{
				{Description: "Pommes Golden", Quantity: &qty, UnitPrice: &price, TotalPrice: &total, Confidence: 0.9},
			},
		},
	}, nil)

	// catalog has no candidates for this item
	m.productRepo.On("FindByNameExact", mock.Anything, mock.Anything).Return(nil, domain.ErrProductNotFound)
	m.productRepo.On("FindByNameContainingAny", mock.Anything, mock.Anything).Return(nil, nil)
	m.productRepo.On("FindByNameOrBrandContainingAny", mock.Anything, mock.Anything).Return(nil, nil)

	m.itemRepo.On("DeleteByReceipt", mock.Anything, receipt.ID).Return(nil)
	m.itemRepo.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]domain.ReceiptItem")).Return(nil)

	m.userRepo.On("GetByID", mock.Anything, receipt.UserID).Return(&domain.User{
		ID: receipt.UserID, Email: "claire@example.com", FullName: "Claire",
	}, nil)
	m.notifier.On("SendReceiptProcessed", mock.Anything, "claire@example.com", "Claire", receipt).Return(nil)

	svc.ProcessReceipt(context.Background(), receipt)

	assert.Equal(t, domain.ReceiptStatusCompleted, receipt.Status)
	assert.Equal(t, domain.JobStatusCompleted, receipt.JobStatus)
	assert.Equal(t, 100, receipt.Progress)
	assert.Equal(t, "carrefour city", receipt.MerchantName)
	assert.Equal(t, domain.DocumentFormatSupermarket, receipt.DocumentFormat)
	assert.Equal(t, "mindee", receipt.OcrProvider)
	require.NotNil(t, receipt.ProcessedAt)
	assert.Empty(t, receipt.ErrorMessage)

	m.itemRepo.AssertCalled(t, "CreateBatch", mock.Anything, mock.MatchedBy(func(items []domain.ReceiptItem) bool {
		return len(items) == 1 &&
			items[0].Description == "pommes golden" &&
			items[0].MatchStatus == domain.MatchStatusNone
	}))
	m.notifier.AssertExpectations(t)
}

func TestReceiptService_ProcessReceipt_FailureDelaysRetry(t *testing.T) {
	svc, m := setupReceiptService()

	receipt, file := claimedReceipt(domain.DocumentTypeReceiptImage, 1)
	m.receiptRepo.On("UpdateJobState", mock.Anything, receipt).Return(nil)
	m.receiptRepo.On("UpdateProgress", mock.Anything, receipt.ID, mock.Anything).Return(nil)
	m.fileRepo.On("GetByID", mock.Anything, receipt.UserID, receipt.FileID).Return(file, nil)
	m.storage.On("Download", mock.Anything, file.S3Bucket, file.S3Key).
		Return(nil, errors.New("s3 unavailable"))

	before := time.Now().UTC()
	svc.ProcessReceipt(context.Background(), receipt)

	assert.Equal(t, domain.ReceiptStatusFailed, receipt.Status)
	assert.Equal(t, domain.JobStatusDelayed, receipt.JobStatus)
	assert.Contains(t, receipt.ErrorMessage, "s3 unavailable")
	require.NotNil(t, receipt.RetryAfter)
	// first failed attempt of an image receipt backs off 2s
	assert.WithinDuration(t, before.Add(2*time.Second), *receipt.RetryAfter, time.Second)
	m.notifier.AssertNotCalled(t, "SendReceiptFailed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReceiptService_ProcessReceipt_ExhaustionFailsTerminally(t *testing.T) {
	svc, m := setupReceiptService()

	receipt, file := claimedReceipt(domain.DocumentTypeReceiptImage, 3)
	m.receiptRepo.On("UpdateJobState", mock.Anything, receipt).Return(nil)
	m.fileRepo.On("GetByID", mock.Anything, receipt.UserID, receipt.FileID).Return(file, nil)
	m.storage.On("Download", mock.Anything, file.S3Bucket, file.S3Key).
		Return(nil, errors.New("s3 unavailable"))
	m.userRepo.On("GetByID", mock.Anything, receipt.UserID).Return(&domain.User{
		ID: receipt.UserID, Email: "claire@example.com", FullName: "Claire",
	}, nil)
	m.notifier.On("SendReceiptFailed", mock.Anything, "claire@example.com", "Claire", receipt).Return(nil)

	svc.ProcessReceipt(context.Background(), receipt)

	assert.Equal(t, domain.ReceiptStatusFailed, receipt.Status)
	assert.Equal(t, domain.JobStatusFailed, receipt.JobStatus)
	assert.Nil(t, receipt.RetryAfter)
	m.notifier.AssertExpectations(t)
}

func TestReceiptService_ProcessReceipt_AttemptTimeoutStillDelaysRetry(t *testing.T) {
	svc, m := setupReceiptService()

	receipt, file := claimedReceipt(domain.DocumentTypeReceiptImage, 1)

	var stateCtxs []context.Context
	m.receiptRepo.On("UpdateJobState", mock.Anything, receipt).
		Run(func(args mock.Arguments) {
			stateCtxs = append(stateCtxs, args.Get(0).(context.Context))
		}).
		Return(nil)
	m.receiptRepo.On("UpdateProgress", mock.Anything, receipt.ID, mock.Anything).Return(nil)
	m.fileRepo.On("GetByID", mock.Anything, receipt.UserID, receipt.FileID).Return(file, nil)
	m.storage.On("Download", mock.Anything, file.S3Bucket, file.S3Key).Return([]byte("jpeg bytes"), nil)

	m.provider.On("IsAvailable").Return(true)
	m.provider.On("SupportsDocumentType", domain.DocumentTypeReceiptImage).Return(true)
	m.provider.On("Name").Return("mindee")
	// the provider burns the whole attempt budget before giving up
	m.provider.On("ProcessDocument", mock.Anything, mock.AnythingOfType("ocr.ProcessInput")).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.DeadlineExceeded)

	attemptCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	svc.ProcessReceipt(attemptCtx, receipt)

	assert.Equal(t, domain.ReceiptStatusFailed, receipt.Status)
	assert.Equal(t, domain.JobStatusDelayed, receipt.JobStatus)
	assert.Contains(t, receipt.ErrorMessage, "context deadline exceeded")
	require.NotNil(t, receipt.RetryAfter)

	// the delayed state must be written on a context that outlives the
	// expired attempt, or the row would stay active forever
	require.Len(t, stateCtxs, 2)
	assert.Error(t, attemptCtx.Err())
	assert.NoError(t, stateCtxs[1].Err())
}

func TestReceiptService_ProcessReceipt_OcrErrorClassRetries(t *testing.T) {
	svc, m := setupReceiptService()

	receipt, file := claimedReceipt(domain.DocumentTypeInvoice, 1)
	file.FileType = domain.FileTypePDF
	m.receiptRepo.On("UpdateJobState", mock.Anything, receipt).Return(nil)
	m.receiptRepo.On("UpdateProgress", mock.Anything, receipt.ID, mock.Anything).Return(nil)
	m.fileRepo.On("GetByID", mock.Anything, receipt.UserID, receipt.FileID).Return(file, nil)
	m.storage.On("Download", mock.Anything, file.S3Bucket, file.S3Key).Return([]byte("pdf bytes"), nil)

	m.provider.On("IsAvailable").Return(true)
	m.provider.On("SupportsDocumentType", domain.DocumentTypeInvoice).Return(true)
	m.provider.On("Name").Return("mindee")
	m.provider.On("ProcessDocument", mock.Anything, mock.AnythingOfType("ocr.ProcessInput")).
		Return(ocr.Failure("mindee", domain.DocumentTypeInvoice, "document unreadable", time.Second), nil)

	before := time.Now().UTC()
	svc.ProcessReceipt(context.Background(), receipt)

	assert.Equal(t, domain.ReceiptStatusFailed, receipt.Status)
	assert.Equal(t, domain.JobStatusDelayed, receipt.JobStatus)
	assert.Contains(t, receipt.ErrorMessage, "document unreadable")
	require.NotNil(t, receipt.RetryAfter)
	// invoice policy uses a fixed 3s delay
	assert.WithinDuration(t, before.Add(3*time.Second), *receipt.RetryAfter, time.Second)
}

// --- UpdateItem ---

func TestReceiptService_UpdateItem_PromotesFullyValidatedReceipt(t *testing.T) {
	svc, m := setupReceiptService()

	userID := uuid.New()
	receiptID := uuid.New()
	itemID := uuid.New()
	validated := true

	m.receiptRepo.On("GetByID", mock.Anything, userID, receiptID).Return(&domain.Receipt{
		ID:     receiptID,
		UserID: userID,
		Status: domain.ReceiptStatusCompleted,
	}, nil)
	m.itemRepo.On("GetByID", mock.Anything, receiptID, itemID).Return(&domain.ReceiptItem{
		ID:        itemID,
		ReceiptID: receiptID,
	}, nil)
	m.itemRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.ReceiptItem")).Return(nil)
	m.itemRepo.On("ListByReceipt", mock.Anything, receiptID).Return([]domain.ReceiptItem{
		{ID: itemID, Validated: true},
		{ID: uuid.New(), Validated: true},
	}, nil)
	m.receiptRepo.On("UpdateStatus", mock.Anything, receiptID, domain.ReceiptStatusValidated).Return(nil)

	item, err := svc.UpdateItem(context.Background(), service.UpdateReceiptItemInput{
		UserID:    userID,
		ReceiptID: receiptID,
		ItemID:    itemID,
		Validated: &validated,
	})

	require.NoError(t, err)
	assert.True(t, item.Validated)
	m.receiptRepo.AssertCalled(t, "UpdateStatus", mock.Anything, receiptID, domain.ReceiptStatusValidated)
}

func TestReceiptService_UpdateItem_ManualAssociationScoresExact(t *testing.T) {
	svc, m := setupReceiptService()

	userID := uuid.New()
	receiptID := uuid.New()
	itemID := uuid.New()
	productID := uuid.New()

	m.receiptRepo.On("GetByID", mock.Anything, userID, receiptID).Return(&domain.Receipt{
		ID:     receiptID,
		UserID: userID,
		Status: domain.ReceiptStatusValidated,
	}, nil)
	m.itemRepo.On("GetByID", mock.Anything, receiptID, itemID).Return(&domain.ReceiptItem{
		ID:        itemID,
		ReceiptID: receiptID,
	}, nil)
	m.productRepo.On("GetByID", mock.Anything, productID).Return(&domain.Product{ID: productID}, nil)
	m.itemRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.ReceiptItem")).Return(nil)

	item, err := svc.UpdateItem(context.Background(), service.UpdateReceiptItemInput{
		UserID:    userID,
		ReceiptID: receiptID,
		ItemID:    itemID,
		ProductID: &productID,
	})

	require.NoError(t, err)
	assert.Equal(t, &productID, item.ProductID)
	require.NotNil(t, item.MatchScore)
	assert.Equal(t, 1.0, *item.MatchScore)
	assert.Equal(t, domain.MatchStatusExact, item.MatchStatus)
}

// --- Delete ---

func TestReceiptService_Delete_RefusesActiveJob(t *testing.T) {
	svc, m := setupReceiptService()

	userID := uuid.New()
	receiptID := uuid.New()
	m.receiptRepo.On("GetByID", mock.Anything, userID, receiptID).Return(&domain.Receipt{
		ID:        receiptID,
		UserID:    userID,
		JobStatus: domain.JobStatusActive,
	}, nil)

	err := svc.Delete(context.Background(), userID, receiptID)
	assert.ErrorIs(t, err, domain.ErrJobNotCancelable)
	m.itemRepo.AssertNotCalled(t, "DeleteByReceipt", mock.Anything, mock.Anything)
}
