package router

import (
	"github.com/gin-gonic/gin"

	"pantrio/internal/handler"
	"pantrio/internal/middleware"
	"pantrio/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	corsOrigins []string,
	authH *handler.AuthHandler,
	fileH *handler.FileHandler,
	receiptH *handler.ReceiptHandler,
	inventoryH *handler.InventoryHandler,
	budgetH *handler.BudgetHandler,
	exportH *handler.ExportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// File routes
	files := protected.Group("/files")
	files.POST("/upload", fileH.Upload)
	files.GET("/:id", fileH.GetByID)
	files.DELETE("/:id", fileH.Delete)

	// Receipt routes
	receipts := protected.Group("/receipts")
	receipts.POST("", receiptH.Submit)
	receipts.GET("", receiptH.List)
	receipts.GET("/:id", receiptH.GetResults)
	receipts.GET("/:id/status", receiptH.GetStatus)
	receipts.GET("/:id/export", exportH.ReceiptXLSX)
	receipts.PATCH("/:id/items/:itemId", receiptH.UpdateItem)
	receipts.POST("/:id/cancel", receiptH.Cancel)
	receipts.POST("/:id/commit", inventoryH.CommitReceipt)
	receipts.DELETE("/:id", receiptH.Delete)

	// Inventory routes
	inventory := protected.Group("/inventory")
	inventory.GET("", inventoryH.List)
	inventory.GET("/export", exportH.InventoryCSV)
	inventory.GET("/:id", inventoryH.GetByID)
	inventory.DELETE("/:id", inventoryH.Delete)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetH.Create)
	budgets.GET("/active", budgetH.GetActive)
	budgets.GET("/:id", budgetH.GetStatus)
	budgets.GET("/:id/expenses", budgetH.ListExpenses)

	return r
}
