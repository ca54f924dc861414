package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pantrio/internal/service"
)

// ExportHandler handles data export endpoints.
type ExportHandler struct {
	exportService service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// InventoryCSV handles GET /api/v1/inventory/export
func (h *ExportHandler) InventoryCSV(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	data, err := h.exportService.InventoryCSV(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="inventory.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// ReceiptXLSX handles GET /api/v1/receipts/:id/export
func (h *ExportHandler) ReceiptXLSX(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid receipt ID")
		return
	}

	data, err := h.exportService.ReceiptXLSX(c.Request.Context(), userID, receiptID)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%s.xlsx"`, receiptID))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
