package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"pantrio/internal/domain"
	"pantrio/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	frontendURL string
}

// NewSESSender creates a new SES-backed NotificationSender.
func NewSESSender(region, fromAddress, fromName, frontendURL string) (port.NotificationSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		frontendURL: frontendURL,
	}, nil
}

func (s *sesSender) SendReceiptProcessed(ctx context.Context, toEmail, toName string, receipt *domain.Receipt) error {
	receiptURL := fmt.Sprintf("%s/receipts/%s", s.frontendURL, receipt.ID)

	total := "unknown"
	if receipt.TotalAmount != nil {
		total = fmt.Sprintf("%.2f %s", *receipt.TotalAmount, receipt.Currency)
	}

	subject := "Your receipt is ready for review"
	htmlBody := buildProcessedHTML(toName, receipt.MerchantName, total, receiptURL)
	textBody := fmt.Sprintf("Hi %s,\n\nYour receipt from %s (total %s) has been processed. Review the detected items here:\n%s\n\nPantrio Team", toName, receipt.MerchantName, total, receiptURL)

	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *sesSender) SendReceiptFailed(ctx context.Context, toEmail, toName string, receipt *domain.Receipt) error {
	receiptURL := fmt.Sprintf("%s/receipts/%s", s.frontendURL, receipt.ID)

	subject := "We could not process your receipt"
	htmlBody := buildFailedHTML(toName, receipt.ErrorMessage, receiptURL)
	textBody := fmt.Sprintf("Hi %s,\n\nWe were unable to process your receipt: %s\n\nYou can try uploading it again:\n%s\n\nPantrio Team", toName, receipt.ErrorMessage, receiptURL)

	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *sesSender) send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildProcessedHTML(name, merchant, total, receiptURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Your receipt is ready</h2>
  <p>Hi %s,</p>
  <p>Your receipt from <strong>%s</strong> (total %s) has been processed. Review the detected items and confirm the product matches:</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #16A34A; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Review Receipt</a>
  </p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Pantrio - Grocery Inventory</p>
</body>
</html>`, name, merchant, total, receiptURL)
}

func buildFailedHTML(name, reason, receiptURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Receipt processing failed</h2>
  <p>Hi %s,</p>
  <p>We were unable to process your receipt: %s</p>
  <p>You can try uploading a clearer photo:</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #DC2626; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">View Details</a>
  </p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Pantrio - Grocery Inventory</p>
</body>
</html>`, name, reason, receiptURL)
}
