package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pantrio/internal/domain"
	"pantrio/internal/ocr"
)

// MockOcrProvider is a mock implementation of ocr.Provider.
type MockOcrProvider struct {
	mock.Mock
}

func (m *MockOcrProvider) ProcessDocument(ctx context.Context, input ocr.ProcessInput) (*ocr.Result, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ocr.Result), args.Error(1)
}

func (m *MockOcrProvider) SupportsDocumentType(docType domain.DocumentType) bool {
	args := m.Called(docType)
	return args.Bool(0)
}

func (m *MockOcrProvider) IsAvailable() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockOcrProvider) Name() string {
	args := m.Called()
	return args.String(0)
}
