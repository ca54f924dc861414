package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"pantrio/internal/config"
	"pantrio/internal/email/noop"
	"pantrio/internal/email/ses"
	"pantrio/internal/handler"
	"pantrio/internal/matching"
	"pantrio/internal/ocr"
	"pantrio/internal/ocr/mindee"
	"pantrio/internal/ocr/tesseract"
	"pantrio/internal/port"
	"pantrio/internal/repository/postgres"
	"pantrio/internal/router"
	"pantrio/internal/service"
	s3storage "pantrio/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	fileRepo := postgres.NewFileMetaRepo(db)
	receiptRepo := postgres.NewReceiptRepo(db)
	itemRepo := postgres.NewReceiptItemRepo(db)
	productRepo := postgres.NewProductRepo(db)
	categoryRepo := postgres.NewCategoryRepo(db)
	inventoryRepo := postgres.NewInventoryRepo(db)
	budgetRepo := postgres.NewBudgetRepo(db)
	expenseRepo := postgres.NewExpenseRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize OCR providers
	ocr.RegisterProvider("mindee", mindee.New)
	ocr.RegisterProvider("tesseract", tesseract.New)

	selector, err := buildOcrSelector(&cfg.OCR)
	if err != nil {
		return fmt.Errorf("failed to initialize OCR providers: %w", err)
	}

	// Initialize email sender
	notifier, err := buildNotifier(&cfg.Email)
	if err != nil {
		return fmt.Errorf("failed to initialize email sender: %w", err)
	}

	// Initialize services
	matcher := matching.NewEngine(productRepo)
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	fileSvc := service.NewFileService(fileRepo, s3Client, &cfg.S3)
	receiptSvc := service.NewReceiptService(
		receiptRepo, itemRepo, fileRepo, userRepo, productRepo,
		s3Client, selector, matcher, notifier)
	inventorySvc := service.NewInventoryService(
		inventoryRepo, receiptRepo, itemRepo, categoryRepo, budgetRepo, expenseRepo)
	budgetSvc := service.NewBudgetService(budgetRepo, expenseRepo)
	exportSvc := service.NewExportService(inventoryRepo, productRepo, receiptRepo, itemRepo)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	fileH := handler.NewFileHandler(fileSvc)
	receiptH := handler.NewReceiptHandler(receiptSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	budgetH := handler.NewBudgetHandler(budgetSvc)
	exportH := handler.NewExportHandler(exportSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins,
		authH, fileH, receiptH, inventoryH, budgetH, exportH, healthH)

	// Start the processing queue worker alongside the HTTP server
	worker := service.NewProcessQueueWorker(receiptRepo, receiptSvc, service.ProcessQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		Concurrency:  cfg.Queue.Concurrency,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		stop()
		<-workerDone
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}
	<-workerDone

	return nil
}

// buildOcrSelector creates the primary and optional secondary OCR providers
// in priority order.
func buildOcrSelector(cfg *config.OCRConfig) (*ocr.Selector, error) {
	primary, err := ocr.NewProvider(&cfg.Primary)
	if err != nil {
		return nil, err
	}

	if secondaryCfg := cfg.SecondaryConfig(); secondaryCfg != nil {
		secondary, err := ocr.NewProvider(secondaryCfg)
		if err != nil {
			return nil, err
		}
		return ocr.NewSelector(primary, secondary), nil
	}
	return ocr.NewSelector(primary), nil
}

func buildNotifier(cfg *config.EmailConfig) (port.NotificationSender, error) {
	if cfg.Provider == "ses" {
		return ses.NewSESSender(cfg.Region, cfg.FromAddress, cfg.FromName, cfg.FrontendURL)
	}
	return noop.NewNoopSender(), nil
}
