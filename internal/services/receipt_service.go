package services

import (
	"context"
	"sort"
	"strings"

	apperrors "grantledger/internal/errors"
	"grantledger/internal/guard"
	"grantledger/internal/logger"
	"grantledger/internal/models"
	"grantledger/internal/pagination"
	"grantledger/internal/uuid"
)

// receiptService handles receipt bookings and their verification.
type receiptService struct {
	ledger *Ledger
}

// NewReceiptService creates a new ReceiptServicer.
func NewReceiptService(l *Ledger) ReceiptServicer {
	return &receiptService{ledger: l}
}

// AddReceipt books an unverified receipt against a budget item of projectID.
func (s *receiptService) AddReceipt(ctx context.Context, actor models.User, projectID string, input ReceiptInput) (*models.Receipt, error) {
	if err := s.ledger.guard.Authorize(actor, guard.OpAddReceipt, projectID); err != nil {
		return nil, err
	}

	receipt := models.Receipt{
		ID:           uuid.New(),
		ProjectID:    projectID,
		BudgetItemID: strings.TrimSpace(input.BudgetItemID),
		Amount:       input.Amount,
		Description:  strings.TrimSpace(input.Description),
		SPJLink:      strings.TrimSpace(input.SPJLink),
		Date:         input.Date,
		CreatedBy:    actor.Username,
	}
	if receipt.Date.IsZero() {
		receipt.Date = s.ledger.now()
	}

	err := s.ledger.write(ctx, "add_receipt", func() error {
		if err := s.ledger.guard.CheckAddReceipt(projectID, receipt.BudgetItemID, receipt.Amount); err != nil {
			return err
		}
		if err := s.ledger.store.InsertReceipt(receipt); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("Receipt added",
		"receipt_id", receipt.ID,
		"project_id", projectID,
		"budget_item_id", receipt.BudgetItemID,
		"amount", receipt.Amount,
		"user_id", actor.ID,
	)
	return &receipt, nil
}

// GetReceipt returns a receipt visible to actor.
func (s *receiptService) GetReceipt(actor models.User, receiptID string) (*models.Receipt, error) {
	var receipt models.Receipt
	err := s.ledger.read(func() error {
		var err error
		receipt, err = s.ledger.receiptOf(receiptID)
		if err != nil {
			return err
		}
		return s.ledger.guard.Authorize(actor, guard.OpViewProject, receipt.ProjectID)
	})
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// ListReceipts returns a project's receipts, newest first.
func (s *receiptService) ListReceipts(actor models.User, projectID string, filter ReceiptFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Receipt], error) {
	if err := s.ledger.guard.Authorize(actor, guard.OpViewProject, projectID); err != nil {
		return nil, err
	}

	var matched []models.Receipt
	err := s.ledger.read(func() error {
		if _, err := s.ledger.projectOf(projectID); err != nil {
			return err
		}
		for _, r := range s.ledger.store.ReceiptsByProject(projectID) {
			if filter.IsVerified != nil && r.IsVerified != *filter.IsVerified {
				continue
			}
			if filter.BudgetItemID != "" && r.BudgetItemID != filter.BudgetItemID {
				continue
			}
			matched = append(matched, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Later bookings win ties on equal dates.
	for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
		matched[i], matched[j] = matched[j], matched[i]
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date.After(matched[j].Date)
	})

	result := pagination.Slice(matched, page)
	return &result, nil
}

// UpdateReceipt edits an unverified receipt. Moving it to another budget item
// is checked against the target item's balance without the receipt's old amount.
func (s *receiptService) UpdateReceipt(ctx context.Context, actor models.User, receiptID string, update ReceiptUpdate) (*models.Receipt, error) {
	var updated models.Receipt
	err := s.ledger.write(ctx, "update_receipt", func() error {
		current, err := s.ledger.receiptOf(receiptID)
		if err != nil {
			return err
		}
		if err := s.ledger.guard.Authorize(actor, guard.OpEditReceipt, current.ProjectID); err != nil {
			return err
		}

		updated = current
		if update.BudgetItemID != nil {
			updated.BudgetItemID = strings.TrimSpace(*update.BudgetItemID)
		}
		if update.Amount != nil {
			updated.Amount = *update.Amount
		}
		if err := s.ledger.guard.CheckEditReceipt(current, updated.BudgetItemID, updated.Amount); err != nil {
			return err
		}

		if update.Description != nil {
			updated.Description = strings.TrimSpace(*update.Description)
		}
		if update.SPJLink != nil {
			updated.SPJLink = strings.TrimSpace(*update.SPJLink)
		}
		if update.Date != nil && !update.Date.IsZero() {
			updated.Date = *update.Date
		}
		s.ledger.store.ReplaceReceipt(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("Receipt updated",
		"receipt_id", updated.ID,
		"budget_item_id", updated.BudgetItemID,
		"amount", updated.Amount,
		"user_id", actor.ID,
	)
	return &updated, nil
}

// DeleteReceipt removes an unverified receipt.
func (s *receiptService) DeleteReceipt(ctx context.Context, actor models.User, receiptID string) error {
	err := s.ledger.write(ctx, "delete_receipt", func() error {
		current, err := s.ledger.receiptOf(receiptID)
		if err != nil {
			return err
		}
		if err := s.ledger.guard.Authorize(actor, guard.OpDeleteReceipt, current.ProjectID); err != nil {
			return err
		}
		if err := s.ledger.guard.CheckDeleteReceipt(current); err != nil {
			return err
		}
		s.ledger.store.DeleteReceipt(receiptID)
		return nil
	})
	if err != nil {
		return err
	}

	logger.Get().Infow("Receipt deleted", "receipt_id", receiptID, "user_id", actor.ID)
	return nil
}

// SetVerified sets the verification flag. Setting it to its current value is
// a no-op that still succeeds.
func (s *receiptService) SetVerified(ctx context.Context, actor models.User, receiptID string, verified bool) (*models.Receipt, error) {
	var receipt models.Receipt
	err := s.ledger.write(ctx, "set_verified", func() error {
		var err error
		receipt, err = s.ledger.receiptOf(receiptID)
		if err != nil {
			return err
		}
		if err := s.ledger.guard.Authorize(actor, guard.OpSetVerification, receipt.ProjectID); err != nil {
			return err
		}
		receipt.IsVerified = verified
		s.ledger.store.ReplaceReceipt(receipt)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("Receipt verification changed",
		"receipt_id", receiptID,
		"is_verified", verified,
		"user_id", actor.ID,
	)
	return &receipt, nil
}
