package service

import (
	"context"
	"log"
	"sync"
	"time"

	"pantrio/internal/port"
)

// ProcessQueueConfig holds settings for the processing queue worker.
type ProcessQueueConfig struct {
	PollInterval time.Duration
	Concurrency  int
}

// ProcessQueueWorker polls for runnable receipts and dispatches them for
// processing. It is the only component that moves jobs from waiting/delayed
// to active.
type ProcessQueueWorker struct {
	receiptRepo    port.ReceiptRepository
	receiptService ReceiptService
	cfg            ProcessQueueConfig
	wg             sync.WaitGroup
}

// NewProcessQueueWorker creates a new ProcessQueueWorker.
func NewProcessQueueWorker(receiptRepo port.ReceiptRepository, receiptService ReceiptService, cfg ProcessQueueConfig) *ProcessQueueWorker {
	return &ProcessQueueWorker{
		receiptRepo:    receiptRepo,
		receiptService: receiptService,
		cfg:            cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight processing goroutines have finished.
func (w *ProcessQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("processQueueWorker: started (poll=%s, concurrency=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency)

	for {
		select {
		case <-ctx.Done():
			log.Printf("processQueueWorker: shutting down, waiting for in-flight receipts...")
			w.wg.Wait()
			log.Printf("processQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			receipts, err := w.receiptRepo.ClaimQueued(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					// Context canceled during poll, exit gracefully
					continue
				}
				log.Printf("processQueueWorker: ClaimQueued error: %v", err)
				continue
			}

			for i := range receipts {
				receipt := receipts[i] // copy for goroutine
				receipt.Attempts++

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Use a fresh context independent of the poll context
					// so in-flight receipts complete even during shutdown.
					// The attempt timeout comes from the document type's
					// retry policy.
					policy := RetryPolicyFor(receipt.DocumentType)
					processCtx, cancel := context.WithTimeout(context.Background(), policy.Timeout)
					defer cancel()

					log.Printf("processQueueWorker: dispatching receipt %s (type %s, attempt %d)",
						receipt.ID, receipt.DocumentType, receipt.Attempts)
					w.receiptService.ProcessReceipt(processCtx, &receipt)
				}()
			}
		}
	}
}
