package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pantrio/internal/domain"
	"pantrio/internal/service"
	"pantrio/mocks"
)

func TestProcessQueueWorker_DispatchesClaimedReceipts(t *testing.T) {
	receiptRepo := new(mocks.MockReceiptRepo)
	receiptSvc := new(mocks.MockReceiptService)

	claimed := domain.Receipt{
		ID:           uuid.New(),
		DocumentType: domain.DocumentTypeReceiptImage,
		JobStatus:    domain.JobStatusActive,
		Attempts:     0,
	}
	receiptRepo.On("ClaimQueued", mock.Anything, 2).Return([]domain.Receipt{claimed}, nil).Once()
	receiptRepo.On("ClaimQueued", mock.Anything, mock.Anything).Return(nil, nil)

	processed := make(chan *domain.Receipt, 1)
	receiptSvc.On("ProcessReceipt", mock.Anything, mock.AnythingOfType("*domain.Receipt")).
		Run(func(args mock.Arguments) {
			processed <- args.Get(1).(*domain.Receipt)
		}).Return()

	worker := service.NewProcessQueueWorker(receiptRepo, receiptSvc, service.ProcessQueueConfig{
		PollInterval: 10 * time.Millisecond,
		Concurrency:  2,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	select {
	case receipt := <-processed:
		// the worker increments the attempt counter before dispatch
		assert.Equal(t, claimed.ID, receipt.ID)
		assert.Equal(t, 1, receipt.Attempts)
	case <-time.After(2 * time.Second):
		t.Fatal("receipt was not dispatched")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not shut down")
	}
}

func TestProcessQueueWorker_StopsOnContextCancel(t *testing.T) {
	receiptRepo := new(mocks.MockReceiptRepo)
	receiptSvc := new(mocks.MockReceiptService)
	receiptRepo.On("ClaimQueued", mock.Anything, mock.Anything).Return(nil, nil)

	worker := service.NewProcessQueueWorker(receiptRepo, receiptSvc, service.ProcessQueueConfig{
		PollInterval: 5 * time.Millisecond,
		Concurrency:  1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
	receiptSvc.AssertNotCalled(t, "ProcessReceipt", mock.Anything, mock.Anything)
}

func TestProcessQueueWorker_RespectsConcurrencyLimit(t *testing.T) {
	receiptRepo := new(mocks.MockReceiptRepo)
	receiptSvc := new(mocks.MockReceiptService)

	first := domain.Receipt{ID: uuid.New(), DocumentType: domain.DocumentTypeReceiptImage}
	receiptRepo.On("ClaimQueued", mock.Anything, 1).Return([]domain.Receipt{first}, nil).Once()
	receiptRepo.On("ClaimQueued", mock.Anything, mock.Anything).Return(nil, nil)

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	receiptSvc.On("ProcessReceipt", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			started <- struct{}{}
			<-release
		}).Return()

	worker := service.NewProcessQueueWorker(receiptRepo, receiptSvc, service.ProcessQueueConfig{
		PollInterval: 5 * time.Millisecond,
		Concurrency:  1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first receipt never started")
	}

	// With the single slot occupied the worker must not claim again
	time.Sleep(30 * time.Millisecond)
	receiptRepo.AssertNumberOfCalls(t, "ClaimQueued", 1)

	close(release)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not shut down")
	}
	require.Equal(t, 1, len(receiptSvc.Calls))
}
