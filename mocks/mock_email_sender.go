package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pantrio/internal/domain"
)

// MockEmailSender is a mock implementation of port.NotificationSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendReceiptProcessed(ctx context.Context, toEmail, toName string, receipt *domain.Receipt) error {
	args := m.Called(ctx, toEmail, toName, receipt)
	return args.Error(0)
}

func (m *MockEmailSender) SendReceiptFailed(ctx context.Context, toEmail, toName string, receipt *domain.Receipt) error {
	args := m.Called(ctx, toEmail, toName, receipt)
	return args.Error(0)
}
