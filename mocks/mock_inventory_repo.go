package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"pantrio/internal/domain"
)

// MockInventoryRepo is a mock implementation of port.InventoryRepository.
type MockInventoryRepo struct {
	mock.Mock
}

func (m *MockInventoryRepo) CreateWithProduct(ctx context.Context, item *domain.InventoryItem, newProduct *domain.Product) error {
	args := m.Called(ctx, item, newProduct)
	return args.Error(0)
}

func (m *MockInventoryRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.InventoryItem, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.InventoryItem), args.Int(1), args.Error(2)
}

func (m *MockInventoryRepo) GetByID(ctx context.Context, userID, itemID uuid.UUID) (*domain.InventoryItem, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepo) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}
