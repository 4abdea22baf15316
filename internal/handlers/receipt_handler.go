package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "grantledger/internal/errors"
	"grantledger/internal/services"
)

// ReceiptHandler handles receipt and verification requests.
type ReceiptHandler struct {
	receiptService services.ReceiptServicer
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(receiptService services.ReceiptServicer) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// CreateReceiptRequest represents the request payload for booking a receipt.
type CreateReceiptRequest struct {
	BudgetItemID string `json:"budget_item_id"`
	Amount       int64  `json:"amount" binding:"gte=0"`
	Description  string `json:"description" binding:"max=500"`
	SPJLink      string `json:"spj_link" binding:"omitempty,spj_link"`
	Date         string `json:"date"`
}

// UpdateReceiptRequest represents the request payload for editing a receipt.
type UpdateReceiptRequest struct {
	BudgetItemID *string `json:"budget_item_id"`
	Amount       *int64  `json:"amount" binding:"omitempty,gte=0"`
	Description  *string `json:"description" binding:"omitempty,max=500"`
	SPJLink      *string `json:"spj_link" binding:"omitempty,spj_link"`
	Date         *string `json:"date"`
}

// VerificationRequest represents the request payload for the verification flag.
type VerificationRequest struct {
	IsVerified *bool `json:"is_verified" binding:"required"`
}

// CreateReceipt handles booking a receipt against a budget item.
// @Summary     Add a receipt
// @Description Book an unverified receipt; the amount must fit the category's remaining balance
// @Tags        receipts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Project ID"
// @Param       request body CreateReceiptRequest true "Receipt"
// @Success     201 {object} models.Receipt "Receipt created"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient category balance"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Project or budget item not found"
// @Router      /projects/{id}/receipts [post]
func (h *ReceiptHandler) CreateReceipt(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseDate(req.Date, "date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	receipt, err := h.receiptService.AddReceipt(c.Request.Context(), actor, projectID, services.ReceiptInput{
		BudgetItemID: req.BudgetItemID,
		Amount:       req.Amount,
		Description:  req.Description,
		SPJLink:      req.SPJLink,
		Date:         date,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"receipt": receipt})
}

// GetReceipts handles listing a project's receipts.
// @Summary     List receipts
// @Description Receipts of a project, newest first
// @Tags        receipts
// @Produce     json
// @Security    BearerAuth
// @Param       id             path  string true  "Project ID"
// @Param       is_verified    query bool   false "Filter by verification status"
// @Param       budget_item_id query string false "Filter by budget item"
// @Param       page           query int    false "Page number (default 1)"
// @Param       page_size      query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Receipt] "Paginated receipts"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/receipts [get]
func (h *ReceiptHandler) GetReceipts(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	page, err := parsePage(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	isVerified, err := parseBoolQuery(c, "is_verified")
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter := services.ReceiptFilter{IsVerified: isVerified, BudgetItemID: c.Query("budget_item_id")}
	result, err := h.receiptService.ListReceipts(actor, projectID, filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetReceipt handles retrieving a single receipt.
// @Summary     Get a receipt
// @Tags        receipts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Receipt ID"
// @Success     200 {object} models.Receipt "Receipt"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Receipt not found"
// @Router      /receipts/{id} [get]
func (h *ReceiptHandler) GetReceipt(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	receiptID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	receipt, err := h.receiptService.GetReceipt(actor, receiptID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"receipt": receipt})
}

// UpdateReceipt handles editing an unverified receipt.
// @Summary     Update a receipt
// @Description Edit an unverified receipt, optionally moving it to another category
// @Tags        receipts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Receipt ID"
// @Param       request body UpdateReceiptRequest true "Changes"
// @Success     200 {object} models.Receipt "Receipt updated"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient category balance"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Receipt not found"
// @Failure     409 {object} ErrorResponse "Receipt is verified"
// @Router      /receipts/{id} [put]
func (h *ReceiptHandler) UpdateReceipt(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	receiptID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.ReceiptUpdate{
		BudgetItemID: req.BudgetItemID,
		Amount:       req.Amount,
		Description:  req.Description,
		SPJLink:      req.SPJLink,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date, "date")
		if err != nil {
			respondWithError(c, err)
			return
		}
		update.Date = &date
	}

	receipt, err := h.receiptService.UpdateReceipt(c.Request.Context(), actor, receiptID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"receipt": receipt})
}

// DeleteReceipt handles removing an unverified receipt.
// @Summary     Delete a receipt
// @Tags        receipts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Receipt ID"
// @Success     200 {object} MessageResponse "Receipt deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Receipt not found"
// @Failure     409 {object} ErrorResponse "Receipt is verified"
// @Router      /receipts/{id} [delete]
func (h *ReceiptHandler) DeleteReceipt(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	receiptID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.receiptService.DeleteReceipt(c.Request.Context(), actor, receiptID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Receipt deleted successfully"})
}

// SetVerification handles the verifier's approval toggle.
// @Summary     Set receipt verification
// @Description Mark a receipt verified or unverified; repeating the current value succeeds
// @Tags        receipts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Receipt ID"
// @Param       request body VerificationRequest true "Verification flag"
// @Success     200 {object} models.Receipt "Receipt"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Receipt not found"
// @Router      /receipts/{id}/verification [put]
func (h *ReceiptHandler) SetVerification(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	receiptID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	receipt, err := h.receiptService.SetVerified(c.Request.Context(), actor, receiptID, *req.IsVerified)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"receipt": receipt})
}
