package noop

import (
	"context"
	"log"

	"pantrio/internal/domain"
	"pantrio/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op NotificationSender that logs to stdout.
func NewNoopSender() port.NotificationSender {
	return &noopSender{}
}

func (s *noopSender) SendReceiptProcessed(_ context.Context, toEmail, toName string, receipt *domain.Receipt) error {
	log.Printf("[NOOP EMAIL] Receipt %s processed, notifying %s (%s)", receipt.ID, toName, toEmail)
	return nil
}

func (s *noopSender) SendReceiptFailed(_ context.Context, toEmail, toName string, receipt *domain.Receipt) error {
	log.Printf("[NOOP EMAIL] Receipt %s failed (%s), notifying %s (%s)", receipt.ID, receipt.ErrorMessage, toName, toEmail)
	return nil
}
