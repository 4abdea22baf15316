package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "grantledger/internal/errors"
	"grantledger/internal/services"
)

// BudgetItemHandler handles RAB line requests.
type BudgetItemHandler struct {
	budgetItemService services.BudgetItemServicer
}

// NewBudgetItemHandler creates a new BudgetItemHandler.
func NewBudgetItemHandler(budgetItemService services.BudgetItemServicer) *BudgetItemHandler {
	return &BudgetItemHandler{budgetItemService: budgetItemService}
}

// CreateBudgetItemRequest represents the request payload for adding a RAB line.
type CreateBudgetItemRequest struct {
	Category        string `json:"category" binding:"required,min=1,max=100"`
	AllocatedAmount int64  `json:"allocated_amount" binding:"gte=0"`
}

// UpdateBudgetItemRequest represents the request payload for editing a RAB line.
type UpdateBudgetItemRequest struct {
	Category        string `json:"category" binding:"omitempty,min=1,max=100"`
	AllocatedAmount *int64 `json:"allocated_amount" binding:"omitempty,gte=0"`
}

// GetBudgetItems handles listing a project's RAB.
// @Summary     List budget items
// @Tags        budget-items
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Project ID"
// @Success     200 {array}  models.BudgetItem "Budget items"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/budget-items [get]
func (h *BudgetItemHandler) GetBudgetItems(c *gin.Context) {
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

	items, err := h.budgetItemService.ListBudgetItems(actor, projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget_items": items})
}

// CreateBudgetItem handles adding a RAB line.
// @Summary     Add a budget item
// @Description Add a category whose allocation fits in the unallocated funding
// @Tags        budget-items
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                  true "Project ID"
// @Param       request body CreateBudgetItemRequest true "Budget item"
// @Success     201 {object} models.BudgetItem "Budget item created"
// @Failure     400 {object} ErrorResponse "Invalid input or RAB limit exceeded"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/budget-items [post]
func (h *BudgetItemHandler) CreateBudgetItem(c *gin.Context) {
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

	var req CreateBudgetItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.budgetItemService.AddBudgetItem(c.Request.Context(), actor, projectID, req.Category, req.AllocatedAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"budget_item": item})
}

// UpdateBudgetItem handles editing a RAB line.
// @Summary     Update a budget item
// @Description Relabel a category or change its allocation
// @Tags        budget-items
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                  true "Budget item ID"
// @Param       request body UpdateBudgetItemRequest true "Changes"
// @Success     200 {object} models.BudgetItem "Budget item updated"
// @Failure     400 {object} ErrorResponse "Invalid input, RAB limit exceeded or below spent"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Budget item not found"
// @Router      /budget-items/{id} [put]
func (h *BudgetItemHandler) UpdateBudgetItem(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.budgetItemService.UpdateBudgetItem(c.Request.Context(), actor, itemID, req.Category, req.AllocatedAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget_item": item})
}

// DeleteBudgetItem handles removing a RAB line.
// @Summary     Delete a budget item
// @Tags        budget-items
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget item ID"
// @Success     200 {object} MessageResponse "Budget item deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Budget item not found"
// @Failure     409 {object} ErrorResponse "Budget item in use"
// @Router      /budget-items/{id} [delete]
func (h *BudgetItemHandler) DeleteBudgetItem(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetItemService.DeleteBudgetItem(c.Request.Context(), actor, itemID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget item deleted successfully"})
}

// GetBudgetItemStats handles the balance of a single category.
// @Summary     Budget item stats
// @Description Allocation, spend (verified or not), remaining and percent used
// @Tags        budget-items
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget item ID"
// @Success     200 {object} balance.CategoryStats "Category stats"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Budget item not found"
// @Router      /budget-items/{id}/stats [get]
func (h *BudgetItemHandler) GetBudgetItemStats(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.budgetItemService.GetCategoryStats(actor, itemID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
