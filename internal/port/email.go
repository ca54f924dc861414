package port

import (
	"context"

	"pantrio/internal/domain"
)

// NotificationSender abstracts outbound user notifications. Delivery
// failures are logged by callers and never block the pipeline.
type NotificationSender interface {
	SendReceiptProcessed(ctx context.Context, toEmail, toName string, receipt *domain.Receipt) error
	SendReceiptFailed(ctx context.Context, toEmail, toName string, receipt *domain.Receipt) error
}
