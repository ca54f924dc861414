package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"pantrio/internal/domain"
)

// MockReceiptItemRepo is a mock implementation of port.ReceiptItemRepository.
type MockReceiptItemRepo struct {
	mock.Mock
}

func (m *MockReceiptItemRepo) CreateBatch(ctx context.Context, items []domain.ReceiptItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockReceiptItemRepo) ListByReceipt(ctx context.Context, receiptID uuid.UUID) ([]domain.ReceiptItem, error) {
	args := m.Called(ctx, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReceiptItem), args.Error(1)
}

func (m *MockReceiptItemRepo) GetByID(ctx context.Context, receiptID, itemID uuid.UUID) (*domain.ReceiptItem, error) {
	args := m.Called(ctx, receiptID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceiptItem), args.Error(1)
}

func (m *MockReceiptItemRepo) Update(ctx context.Context, item *domain.ReceiptItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockReceiptItemRepo) DeleteByReceipt(ctx context.Context, receiptID uuid.UUID) error {
	args := m.Called(ctx, receiptID)
	return args.Error(0)
}
