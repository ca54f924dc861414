package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pantrio/internal/service"
)

// InventoryHandler handles inventory endpoints.
type InventoryHandler struct {
	inventoryService service.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

type commitReceiptRequest struct {
	StorageLocation string `json:"storage_location"`
}

// CommitReceipt handles POST /api/v1/receipts/:id/commit
func (h *InventoryHandler) CommitReceipt(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid receipt ID")
		return
	}

	var req commitReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	result, err := h.inventoryService.CommitReceipt(c.Request.Context(), service.CommitReceiptInput{
		UserID:          userID,
		ReceiptID:       receiptID,
		StorageLocation: req.StorageLocation,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// List handles GET /api/v1/inventory
func (h *InventoryHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	offset, limit := pagination(c)
	items, total, err := h.inventoryService.List(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, items, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/inventory/:id
func (h *InventoryHandler) GetByID(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid inventory item ID")
		return
	}

	item, err := h.inventoryService.GetByID(c.Request.Context(), userID, itemID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, item)
}

// Delete handles DELETE /api/v1/inventory/:id
func (h *InventoryHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid inventory item ID")
		return
	}

	if err := h.inventoryService.Delete(c.Request.Context(), userID, itemID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "inventory item deleted"})
}
