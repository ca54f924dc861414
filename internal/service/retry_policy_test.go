package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pantrio/internal/domain"
	"pantrio/internal/service"
)

func TestRetryPolicyFor_ReceiptImage(t *testing.T) {
	policy := service.RetryPolicyFor(domain.DocumentTypeReceiptImage)

	assert.Equal(t, 3, policy.MaxAttempts)
	assert.Equal(t, 60*time.Second, policy.Timeout)
	// exponential backoff: 2s, 4s, 8s
	assert.Equal(t, 2*time.Second, policy.BackoffDelay(1))
	assert.Equal(t, 4*time.Second, policy.BackoffDelay(2))
	assert.Equal(t, 8*time.Second, policy.BackoffDelay(3))
}

func TestRetryPolicyFor_Invoice(t *testing.T) {
	policy := service.RetryPolicyFor(domain.DocumentTypeInvoice)

	assert.Equal(t, 2, policy.MaxAttempts)
	assert.Equal(t, 30*time.Second, policy.Timeout)
	// fixed delay regardless of attempt number
	assert.Equal(t, 3*time.Second, policy.BackoffDelay(1))
	assert.Equal(t, 3*time.Second, policy.BackoffDelay(2))
}

func TestBackoffDelay_ClampsAttemptFloor(t *testing.T) {
	policy := service.RetryPolicyFor(domain.DocumentTypeReceiptImage)
	assert.Equal(t, 2*time.Second, policy.BackoffDelay(0))
}
