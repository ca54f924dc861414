package service

import (
	"time"

	"pantrio/internal/domain"
)

// RetryPolicy governs how processing failures for one document type are
// retried: how many attempts in total, how long each attempt may run, and the
// delay before the next attempt.
type RetryPolicy struct {
	MaxAttempts int
	Timeout     time.Duration
	baseDelay   time.Duration
	exponential bool
}

// BackoffDelay returns the delay before the attempt following failedAttempt
// (1-based). Exponential policies double the base delay per failed attempt.
func (p RetryPolicy) BackoffDelay(failedAttempt int) time.Duration {
	if failedAttempt < 1 {
		failedAttempt = 1
	}
	if !p.exponential {
		return p.baseDelay
	}
	return p.baseDelay << (failedAttempt - 1)
}

// RetryPolicyFor returns the retry policy for a document type. Receipt photos
// are noisier and get more attempts with exponential backoff; structured
// invoices fail deterministically, so they get fewer attempts with a fixed
// delay and a tighter timeout.
func RetryPolicyFor(docType domain.DocumentType) RetryPolicy {
	switch docType {
	case domain.DocumentTypeInvoice:
		return RetryPolicy{
			MaxAttempts: 2,
			Timeout:     30 * time.Second,
			baseDelay:   3 * time.Second,
			exponential: false,
		}
	default:
		return RetryPolicy{
			MaxAttempts: 3,
			Timeout:     60 * time.Second,
			baseDelay:   2 * time.Second,
			exponential: true,
		}
	}
}
