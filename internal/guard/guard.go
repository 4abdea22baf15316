// Package guard decides whether a ledger mutation may proceed. Authorize
// consults the role capability table; the Check functions enforce the budget
// rules against the current ledger state and never mutate it.
package guard

import (
	"fmt"
	"strings"

	"grantledger/internal/balance"
	apperrors "grantledger/internal/errors"
	"grantledger/internal/models"
)

// Guard validates mutations against a ledger view.
type Guard struct {
	ledger balance.Ledger
	calc   *balance.Calculator
}

// New returns a guard reading from l.
func New(l balance.Ledger) *Guard {
	return &Guard{ledger: l, calc: balance.NewCalculator(l)}
}

// Authorize returns ErrForbidden unless actor's role holds op and, for
// project-scoped roles, projectID is the actor's assigned project. An empty
// projectID skips the scope check.
func (g *Guard) Authorize(actor models.User, op Operation, projectID string) error {
	if !actor.Role.Valid() || !Can(actor.Role, op) {
		return apperrors.WithMessage(apperrors.ErrForbidden, fmt.Sprintf("role %q may not perform %s", actor.Role, op))
	}
	if actor.Role.Scoped() {
		if actor.AssignedProjectID == "" {
			return apperrors.WithMessage(apperrors.ErrForbidden, "user has no assigned project")
		}
		if projectID != "" && !actor.CanAccessProject(projectID) {
			return apperrors.ErrForbidden
		}
	}
	return nil
}

// CheckFunding rejects a negative Pagu or one above models.MaxTotalFunding.
func CheckFunding(totalFunding int64) error {
	if totalFunding < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "total funding must not be negative")
	}
	if totalFunding > models.MaxTotalFunding {
		return apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("total funding must not exceed %d", models.MaxTotalFunding))
	}
	return nil
}

// CheckProjectFunding validates a new Pagu for an existing project. It may
// not fall below what the RAB already allocates.
func (g *Guard) CheckProjectFunding(projectID string, totalFunding int64) error {
	if err := CheckFunding(totalFunding); err != nil {
		return err
	}
	if _, ok := g.ledger.Project(projectID); !ok {
		return apperrors.ErrProjectNotFound
	}
	allocated := g.calc.TotalRabAllocated(projectID)
	if totalFunding < allocated {
		return apperrors.WithHeadroom(apperrors.ErrFundingBelowAllocated,
			fmt.Sprintf("total funding %d is below the %d already allocated", totalFunding, allocated), allocated)
	}
	return nil
}

// CheckDeleteProject refuses to delete a project that has any receipt.
func (g *Guard) CheckDeleteProject(projectID string) error {
	if _, ok := g.ledger.Project(projectID); !ok {
		return apperrors.ErrProjectNotFound
	}
	if n := len(g.ledger.ReceiptsByProject(projectID)); n > 0 {
		return apperrors.WithMessage(apperrors.ErrProjectInUse, fmt.Sprintf("project has %d receipt(s)", n))
	}
	return nil
}

// CheckAddBudgetItem validates a new RAB line and returns it normalized.
func (g *Guard) CheckAddBudgetItem(projectID, category string, amount int64) (models.BudgetItem, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return models.BudgetItem{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if amount < 0 {
		return models.BudgetItem{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "allocated amount must not be negative")
	}
	limit, err := g.calc.RabLimitRemaining(projectID)
	if err != nil {
		return models.BudgetItem{}, err
	}
	if amount > limit {
		return models.BudgetItem{}, apperrors.WithHeadroom(apperrors.ErrRabLimitExceeded,
			fmt.Sprintf("allocation %d exceeds the remaining RAB limit %d", amount, limit), limit)
	}
	return models.BudgetItem{ProjectID: projectID, Category: category, AllocatedAmount: amount}, nil
}

// CheckEditBudgetItem applies an edit to item and validates the result. An
// empty category keeps the current label; a nil amount keeps the allocation.
// Only the increase over the old amount is checked against the RAB limit.
func (g *Guard) CheckEditBudgetItem(item models.BudgetItem, category string, amount *int64) (models.BudgetItem, error) {
	updated := item
	if c := strings.TrimSpace(category); c != "" {
		updated.Category = c
	}
	if amount == nil {
		return updated, nil
	}

	newAmount := *amount
	if newAmount < 0 {
		return models.BudgetItem{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "allocated amount must not be negative")
	}
	limit, err := g.calc.RabLimitRemaining(item.ProjectID)
	if err != nil {
		return models.BudgetItem{}, err
	}
	if diff := newAmount - item.AllocatedAmount; diff > limit {
		return models.BudgetItem{}, apperrors.WithHeadroom(apperrors.ErrRabLimitExceeded,
			fmt.Sprintf("increase of %d exceeds the remaining RAB limit %d", diff, limit), limit)
	}
	stats, err := g.calc.CategoryStats(item.ID, "")
	if err != nil {
		return models.BudgetItem{}, err
	}
	if newAmount < stats.Spent {
		return models.BudgetItem{}, apperrors.WithHeadroom(apperrors.ErrAllocationBelowSpent,
			fmt.Sprintf("allocation %d is below the %d already spent", newAmount, stats.Spent), stats.Spent)
	}
	updated.AllocatedAmount = newAmount
	return updated, nil
}

// CheckDeleteBudgetItem refuses to delete an item that any receipt references,
// verified or not, including zero-amount receipts.
func (g *Guard) CheckDeleteBudgetItem(budgetItemID string) error {
	stats, err := g.calc.CategoryStats(budgetItemID, "")
	if err != nil {
		return err
	}
	if stats.Spent > 0 || stats.ReceiptCount > 0 {
		return apperrors.WithMessage(apperrors.ErrBudgetItemInUse,
			fmt.Sprintf("budget item is referenced by %d receipt(s) totalling %d", stats.ReceiptCount, stats.Spent))
	}
	return nil
}

// CheckAddReceipt validates a new receipt against its category balance.
func (g *Guard) CheckAddReceipt(projectID, budgetItemID string, amount int64) error {
	if _, ok := g.ledger.Project(projectID); !ok {
		return apperrors.ErrProjectNotFound
	}
	return g.checkReceiptAmount(projectID, budgetItemID, amount, "")
}

// CheckEditReceipt validates moving r to targetItemID with newAmount. The
// receipt's old contribution is excluded, so re-saving unchanged values is
// always accepted. Verified receipts are locked.
func (g *Guard) CheckEditReceipt(r models.Receipt, targetItemID string, newAmount int64) error {
	if r.IsVerified {
		return apperrors.ErrReceiptLocked
	}
	return g.checkReceiptAmount(r.ProjectID, targetItemID, newAmount, r.ID)
}

// CheckDeleteReceipt refuses to delete a verified receipt.
func (g *Guard) CheckDeleteReceipt(r models.Receipt) error {
	if r.IsVerified {
		return apperrors.ErrReceiptLocked
	}
	return nil
}

func (g *Guard) checkReceiptAmount(projectID, budgetItemID string, amount int64, excludeReceiptID string) error {
	if strings.TrimSpace(budgetItemID) == "" {
		return apperrors.ErrBudgetItemRequired
	}
	if amount < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	item, ok := g.ledger.BudgetItem(budgetItemID)
	if !ok {
		return apperrors.ErrBudgetItemNotFound
	}
	if item.ProjectID != projectID {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "budget item belongs to another project")
	}
	stats, err := g.calc.CategoryStats(budgetItemID, excludeReceiptID)
	if err != nil {
		return err
	}
	if amount > stats.Remaining {
		return apperrors.WithHeadroom(apperrors.ErrInsufficientRabBudget,
			fmt.Sprintf("amount %d exceeds the remaining %d in %s", amount, stats.Remaining, item.Category), stats.Remaining)
	}
	return nil
}
