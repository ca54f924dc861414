package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"pantrio/internal/domain"
	"pantrio/internal/service"
)

// MockReceiptService is a mock implementation of service.ReceiptService.
type MockReceiptService struct {
	mock.Mock
}

func (m *MockReceiptService) Submit(ctx context.Context, input service.SubmitReceiptInput) (*domain.Receipt, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockReceiptService) GetStatus(ctx context.Context, userID, receiptID uuid.UUID) (*service.ReceiptStatusResult, error) {
	args := m.Called(ctx, userID, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReceiptStatusResult), args.Error(1)
}

func (m *MockReceiptService) GetResults(ctx context.Context, userID, receiptID uuid.UUID) (*service.ReceiptResults, error) {
	args := m.Called(ctx, userID, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReceiptResults), args.Error(1)
}

func (m *MockReceiptService) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Receipt, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Receipt), args.Int(1), args.Error(2)
}

func (m *MockReceiptService) UpdateItem(ctx context.Context, input service.UpdateReceiptItemInput) (*domain.ReceiptItem, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceiptItem), args.Error(1)
}

func (m *MockReceiptService) Cancel(ctx context.Context, userID, receiptID uuid.UUID) error {
	args := m.Called(ctx, userID, receiptID)
	return args.Error(0)
}

func (m *MockReceiptService) Delete(ctx context.Context, userID, receiptID uuid.UUID) error {
	args := m.Called(ctx, userID, receiptID)
	return args.Error(0)
}

func (m *MockReceiptService) ProcessReceipt(ctx context.Context, receipt *domain.Receipt) {
	m.Called(ctx, receipt)
}
