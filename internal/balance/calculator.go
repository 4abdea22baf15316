// Package balance computes allocation and spend figures over the ledger.
// Every figure is derived on demand from the current collections; nothing
// is cached, so results always reflect the latest committed write.
package balance

import (
	"github.com/shopspring/decimal"

	apperrors "grantledger/internal/errors"
	"grantledger/internal/models"
)

// Ledger is the read view the calculator needs. *ledger.Store satisfies it.
type Ledger interface {
	Projects() []models.Project
	Project(id string) (models.Project, bool)
	BudgetItem(id string) (models.BudgetItem, bool)
	BudgetItemsByProject(projectID string) []models.BudgetItem
	ReceiptsByProject(projectID string) []models.Receipt
	ReceiptsByBudgetItem(budgetItemID string) []models.Receipt
}

// CategoryStats is the consumption of a single budget item.
type CategoryStats struct {
	BudgetItemID string  `json:"budget_item_id"`
	Category     string  `json:"category"`
	Allocated    int64   `json:"allocated"`
	Spent        int64   `json:"spent"`
	Remaining    int64   `json:"remaining"`
	Percent      float64 `json:"percent"`
	ReceiptCount int     `json:"receipt_count"`
}

// ProjectSummary aggregates a project's funding, RAB allocation and spend.
type ProjectSummary struct {
	Project            models.Project  `json:"project"`
	TotalFunding       int64           `json:"total_funding"`
	Realization        int64           `json:"realization"`
	Remaining          int64           `json:"remaining"`
	RealizationPercent float64         `json:"realization_percent"`
	TotalRabAllocated  int64           `json:"total_rab_allocated"`
	RabLimitRemaining  int64           `json:"rab_limit_remaining"`
	Booked             int64           `json:"booked"`
	PendingReceipts    int             `json:"pending_receipts"`
	Categories         []CategoryStats `json:"categories"`
}

// ProjectRealization is one row of the all-projects overview.
type ProjectRealization struct {
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
	LeaderName  string `json:"leader_name"`
	Pagu        int64  `json:"pagu"`
	Realisasi   int64  `json:"realisasi"`
	Sisa        int64  `json:"sisa"`
}

// Overview is the administrator dashboard across every project.
type Overview struct {
	TotalAllocated     int64                `json:"total_allocated"`
	TotalSpent         int64                `json:"total_spent"`
	Remaining          int64                `json:"remaining"`
	RealizationPercent float64              `json:"realization_percent"`
	Projects           []ProjectRealization `json:"projects"`
}

// Calculator derives balances from a Ledger.
type Calculator struct {
	ledger Ledger
}

// NewCalculator returns a calculator reading from l.
func NewCalculator(l Ledger) *Calculator {
	return &Calculator{ledger: l}
}

// Percent returns part/whole*100 rounded to two decimals, or 0 when whole is 0.
func Percent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromInt(part).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(whole)).
		Round(2).
		InexactFloat64()
}

// CategoryStats reports allocation and spend for a budget item. Receipts count
// toward spend whether or not they are verified. When excludeReceiptID is
// non-empty that receipt is left out, which lets an edit be checked against
// the balance that would exist without its old amount.
func (c *Calculator) CategoryStats(budgetItemID, excludeReceiptID string) (CategoryStats, error) {
	item, ok := c.ledger.BudgetItem(budgetItemID)
	if !ok {
		return CategoryStats{}, apperrors.ErrBudgetItemNotFound
	}
	return c.categoryStats(item, excludeReceiptID), nil
}

func (c *Calculator) categoryStats(item models.BudgetItem, excludeReceiptID string) CategoryStats {
	var spent int64
	var count int
	for _, r := range c.ledger.ReceiptsByBudgetItem(item.ID) {
		if excludeReceiptID != "" && r.ID == excludeReceiptID {
			continue
		}
		spent += r.Amount
		count++
	}
	return CategoryStats{
		BudgetItemID: item.ID,
		Category:     item.Category,
		Allocated:    item.AllocatedAmount,
		Spent:        spent,
		Remaining:    item.AllocatedAmount - spent,
		Percent:      Percent(spent, item.AllocatedAmount),
		ReceiptCount: count,
	}
}

// ProjectRealization is the sum of verified receipt amounts in the project.
func (c *Calculator) ProjectRealization(projectID string) int64 {
	var total int64
	for _, r := range c.ledger.ReceiptsByProject(projectID) {
		if r.IsVerified {
			total += r.Amount
		}
	}
	return total
}

// ProjectBooked is the sum of all receipt amounts in the project, verified or not.
func (c *Calculator) ProjectBooked(projectID string) int64 {
	var total int64
	for _, r := range c.ledger.ReceiptsByProject(projectID) {
		total += r.Amount
	}
	return total
}

// ProjectRemaining is total funding minus realized spend.
func (c *Calculator) ProjectRemaining(projectID string) (int64, error) {
	p, ok := c.ledger.Project(projectID)
	if !ok {
		return 0, apperrors.ErrProjectNotFound
	}
	return p.TotalFunding - c.ProjectRealization(projectID), nil
}

// TotalRabAllocated is the sum of allocations over the project's budget items.
func (c *Calculator) TotalRabAllocated(projectID string) int64 {
	var total int64
	for _, b := range c.ledger.BudgetItemsByProject(projectID) {
		total += b.AllocatedAmount
	}
	return total
}

// RabLimitRemaining is the funding not yet allocated to any budget item.
func (c *Calculator) RabLimitRemaining(projectID string) (int64, error) {
	p, ok := c.ledger.Project(projectID)
	if !ok {
		return 0, apperrors.ErrProjectNotFound
	}
	return p.TotalFunding - c.TotalRabAllocated(projectID), nil
}

// ProjectSummary collects every project-level figure plus per-category stats.
func (c *Calculator) ProjectSummary(projectID string) (ProjectSummary, error) {
	p, ok := c.ledger.Project(projectID)
	if !ok {
		return ProjectSummary{}, apperrors.ErrProjectNotFound
	}

	items := c.ledger.BudgetItemsByProject(projectID)
	categories := make([]CategoryStats, 0, len(items))
	for _, b := range items {
		categories = append(categories, c.categoryStats(b, ""))
	}
	allocated := c.TotalRabAllocated(projectID)

	realization := c.ProjectRealization(projectID)
	booked := c.ProjectBooked(projectID)
	var pending int
	for _, r := range c.ledger.ReceiptsByProject(projectID) {
		if !r.IsVerified {
			pending++
		}
	}

	return ProjectSummary{
		Project:            p,
		TotalFunding:       p.TotalFunding,
		Realization:        realization,
		Remaining:          p.TotalFunding - realization,
		RealizationPercent: Percent(realization, p.TotalFunding),
		TotalRabAllocated:  allocated,
		RabLimitRemaining:  p.TotalFunding - allocated,
		Booked:             booked,
		PendingReceipts:    pending,
		Categories:         categories,
	}, nil
}

// Overview totals funding and verified spend across all projects.
func (c *Calculator) Overview() Overview {
	projects := c.ledger.Projects()
	rows := make([]ProjectRealization, 0, len(projects))
	var allocated, spent int64
	for _, p := range projects {
		realized := c.ProjectRealization(p.ID)
		rows = append(rows, ProjectRealization{
			ProjectID:   p.ID,
			ProjectName: p.ProjectName,
			LeaderName:  p.LeaderName,
			Pagu:        p.TotalFunding,
			Realisasi:   realized,
			Sisa:        p.TotalFunding - realized,
		})
		allocated += p.TotalFunding
		spent += realized
	}
	return Overview{
		TotalAllocated:     allocated,
		TotalSpent:         spent,
		Remaining:          allocated - spent,
		RealizationPercent: Percent(spent, allocated),
		Projects:           rows,
	}
}
