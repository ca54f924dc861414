package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is inactive")
	ErrDuplicateEmail     = errors.New("email already registered")

	ErrUnsupportedFileType     = errors.New("unsupported file type")
	ErrUnsupportedDocumentType = errors.New("unsupported document type")
	ErrFileTooLarge            = errors.New("file exceeds maximum allowed size")
	ErrFileNotFound            = errors.New("file not found")
	ErrUploadFailed            = errors.New("file upload to storage failed")

	ErrReceiptNotFound     = errors.New("receipt not found")
	ErrReceiptNotCompleted = errors.New("receipt processing is not completed")
	ErrReceiptItemNotFound = errors.New("receipt item not found")
	ErrJobNotCancelable    = errors.New("job is not in a cancelable state")

	ErrProductNotFound  = errors.New("product not found")
	ErrUnknownCategory  = errors.New("unknown product category")
	ErrBudgetNotFound   = errors.New("budget not found")
	ErrNoBudgetActive   = errors.New("no active budget for this period")
	ErrNoOcrProvider    = errors.New("no available OCR provider supports this document type")
	ErrItemNotValidated = errors.New("receipt item is not validated")
)
