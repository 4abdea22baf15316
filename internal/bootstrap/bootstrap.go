// Package bootstrap seeds the default RAB of a newly created project.
package bootstrap

import (
	"github.com/shopspring/decimal"

	"grantledger/internal/models"
	"grantledger/internal/uuid"
)

// Share is one default RAB line expressed as a percentage of total funding.
type Share struct {
	Category string
	Percent  int64
}

// DefaultShares is the standard split applied on project creation.
var DefaultShares = []Share{
	{Category: "Team Honorarium", Percent: 40},
	{Category: "Consumable Supplies", Percent: 20},
	{Category: "Travel", Percent: 20},
	{Category: "Equipment Rental", Percent: 10},
	{Category: "Publication Costs", Percent: 10},
}

// Split divides total across shares. Each amount is floor(total*pct/100) and
// the last share absorbs the remainder, so the result always sums to total.
func Split(total int64, shares []Share) []int64 {
	amounts := make([]int64, len(shares))
	if len(shares) == 0 {
		return amounts
	}
	base := decimal.NewFromInt(total)
	hundred := decimal.NewFromInt(100)
	var assigned int64
	for i, s := range shares[:len(shares)-1] {
		amounts[i] = base.Mul(decimal.NewFromInt(s.Percent)).Div(hundred).Floor().IntPart()
		assigned += amounts[i]
	}
	amounts[len(shares)-1] = total - assigned
	return amounts
}

// DefaultBudgetItems builds the five default budget items for p.
func DefaultBudgetItems(p models.Project) []models.BudgetItem {
	amounts := Split(p.TotalFunding, DefaultShares)
	items := make([]models.BudgetItem, len(DefaultShares))
	for i, s := range DefaultShares {
		items[i] = models.BudgetItem{
			ID:              uuid.New(),
			ProjectID:       p.ID,
			Category:        s.Category,
			AllocatedAmount: amounts[i],
		}
	}
	return items
}
