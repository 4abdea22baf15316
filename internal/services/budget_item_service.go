package services

import (
	"context"

	"grantledger/internal/balance"
	apperrors "grantledger/internal/errors"
	"grantledger/internal/guard"
	"grantledger/internal/logger"
	"grantledger/internal/models"
	"grantledger/internal/uuid"
)

// budgetItemService handles RAB line business logic.
type budgetItemService struct {
	ledger *Ledger
}

// NewBudgetItemService creates a new BudgetItemServicer.
func NewBudgetItemService(l *Ledger) BudgetItemServicer {
	return &budgetItemService{ledger: l}
}

// AddBudgetItem adds a RAB line within the project's unallocated funding.
func (s *budgetItemService) AddBudgetItem(ctx context.Context, actor models.User, projectID, category string, amount int64) (*models.BudgetItem, error) {
	if err := s.ledger.guard.Authorize(actor, guard.OpAddBudgetItem, projectID); err != nil {
		return nil, err
	}

	var item models.BudgetItem
	err := s.ledger.write(ctx, "add_budget_item", func() error {
		normalized, err := s.ledger.guard.CheckAddBudgetItem(projectID, category, amount)
		if err != nil {
			return err
		}
		item = normalized
		item.ID = uuid.New()
		if err := s.ledger.store.InsertBudgetItem(item); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("Budget item added",
		"budget_item_id", item.ID,
		"project_id", projectID,
		"allocated_amount", item.AllocatedAmount,
		"user_id", actor.ID,
	)
	return &item, nil
}

// ListBudgetItems returns the RAB of a project.
func (s *budgetItemService) ListBudgetItems(actor models.User, projectID string) ([]models.BudgetItem, error) {
	if err := s.ledger.guard.Authorize(actor, guard.OpViewProject, projectID); err != nil {
		return nil, err
	}
	var items []models.BudgetItem
	err := s.ledger.read(func() error {
		if _, err := s.ledger.projectOf(projectID); err != nil {
			return err
		}
		items = s.ledger.store.BudgetItemsByProject(projectID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.BudgetItem{}
	}
	return items, nil
}

// UpdateBudgetItem changes a RAB line's label and/or allocation.
func (s *budgetItemService) UpdateBudgetItem(ctx context.Context, actor models.User, budgetItemID, category string, amount *int64) (*models.BudgetItem, error) {
	var updated models.BudgetItem
	err := s.ledger.write(ctx, "update_budget_item", func() error {
		current, err := s.ledger.budgetItemOf(budgetItemID)
		if err != nil {
			return err
		}
		if err := s.ledger.guard.Authorize(actor, guard.OpEditBudgetItem, current.ProjectID); err != nil {
			return err
		}
		updated, err = s.ledger.guard.CheckEditBudgetItem(current, category, amount)
		if err != nil {
			return err
		}
		s.ledger.store.ReplaceBudgetItem(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("Budget item updated",
		"budget_item_id", updated.ID,
		"allocated_amount", updated.AllocatedAmount,
		"user_id", actor.ID,
	)
	return &updated, nil
}

// DeleteBudgetItem removes a RAB line that no receipt references.
func (s *budgetItemService) DeleteBudgetItem(ctx context.Context, actor models.User, budgetItemID string) error {
	err := s.ledger.write(ctx, "delete_budget_item", func() error {
		current, err := s.ledger.budgetItemOf(budgetItemID)
		if err != nil {
			return err
		}
		if err := s.ledger.guard.Authorize(actor, guard.OpDeleteBudgetItem, current.ProjectID); err != nil {
			return err
		}
		if err := s.ledger.guard.CheckDeleteBudgetItem(budgetItemID); err != nil {
			return err
		}
		s.ledger.store.DeleteBudgetItem(budgetItemID)
		return nil
	})
	if err != nil {
		return err
	}

	logger.Get().Infow("Budget item deleted", "budget_item_id", budgetItemID, "user_id", actor.ID)
	return nil
}

// GetCategoryStats reports allocation and spend of a RAB line.
func (s *budgetItemService) GetCategoryStats(actor models.User, budgetItemID string) (*balance.CategoryStats, error) {
	var stats balance.CategoryStats
	err := s.ledger.read(func() error {
		item, err := s.ledger.budgetItemOf(budgetItemID)
		if err != nil {
			return err
		}
		if err := s.ledger.guard.Authorize(actor, guard.OpViewProject, item.ProjectID); err != nil {
			return err
		}
		stats, err = s.ledger.calc.CategoryStats(budgetItemID, "")
		return err
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
