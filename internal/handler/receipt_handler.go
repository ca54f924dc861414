package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pantrio/internal/domain"
	"pantrio/internal/service"
)

// ReceiptHandler handles receipt submission, polling, and review endpoints.
type ReceiptHandler struct {
	receiptService service.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(receiptService service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

type submitReceiptRequest struct {
	FileID       uuid.UUID `json:"file_id" binding:"required"`
	DocumentType string    `json:"document_type" binding:"required"`
}

// Submit handles POST /api/v1/receipts
func (h *ReceiptHandler) Submit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req submitReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	receipt, err := h.receiptService.Submit(c.Request.Context(), service.SubmitReceiptInput{
		UserID:       userID,
		FileID:       req.FileID,
		DocumentType: domain.DocumentType(req.DocumentType),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, receipt)
}

// List handles GET /api/v1/receipts
func (h *ReceiptHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	offset, limit := pagination(c)
	receipts, total, err := h.receiptService.ListByUser(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, receipts, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetStatus handles GET /api/v1/receipts/:id/status
func (h *ReceiptHandler) GetStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid receipt ID")
		return
	}

	status, err := h.receiptService.GetStatus(c.Request.Context(), userID, receiptID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, status)
}

// GetResults handles GET /api/v1/receipts/:id
func (h *ReceiptHandler) GetResults(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid receipt ID")
		return
	}

	results, err := h.receiptService.GetResults(c.Request.Context(), userID, receiptID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, results)
}

// UpdateItem handles PATCH /api/v1/receipts/:id/items/:itemId
func (h *ReceiptHandler) UpdateItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid receipt ID")
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid item ID")
		return
	}

	var input service.UpdateReceiptItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	input.UserID = userID
	input.ReceiptID = receiptID
	input.ItemID = itemID

	item, err := h.receiptService.UpdateItem(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, item)
}

// Cancel handles POST /api/v1/receipts/:id/cancel
func (h *ReceiptHandler) Cancel(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid receipt ID")
		return
	}

	if err := h.receiptService.Cancel(c.Request.Context(), userID, receiptID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "receipt processing canceled"})
}

// Delete handles DELETE /api/v1/receipts/:id
func (h *ReceiptHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid receipt ID")
		return
	}

	if err := h.receiptService.Delete(c.Request.Context(), userID, receiptID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "receipt deleted"})
}

func pagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
