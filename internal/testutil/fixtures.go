package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"grantledger/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewTestProject returns a project with a unique ID and the given funding.
func NewTestProject(totalFunding int64) models.Project {
	n := nextID()
	return models.Project{
		ID:               fmt.Sprintf("proj-%d", n),
		ProjectName:      fmt.Sprintf("Test Project %d", n),
		OrganizationName: "Faculty of Engineering",
		ProjectType:      "Research",
		LeaderName:       fmt.Sprintf("Leader %d", n),
		TotalFunding:     totalFunding,
		ProposalNumber:   fmt.Sprintf("PROP/%d", n),
		ContractNumber:   fmt.Sprintf("CONTRACT/%d", n),
		SKNumber:         fmt.Sprintf("SK/%d", n),
		SP2DNumber:       fmt.Sprintf("SP2D/%d", n),
		CreatedAt:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// NewTestBudgetItem returns a budget item of projectID with a unique ID.
func NewTestBudgetItem(projectID, category string, allocated int64) models.BudgetItem {
	return models.BudgetItem{
		ID:              fmt.Sprintf("item-%d", nextID()),
		ProjectID:       projectID,
		Category:        category,
		AllocatedAmount: allocated,
	}
}

// NewTestReceipt returns an unverified receipt against budgetItemID.
func NewTestReceipt(projectID, budgetItemID string, amount int64) models.Receipt {
	n := nextID()
	return models.Receipt{
		ID:           fmt.Sprintf("rcpt-%d", n),
		ProjectID:    projectID,
		BudgetItemID: budgetItemID,
		Amount:       amount,
		Description:  fmt.Sprintf("Receipt %d", n),
		Date:         time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Minute),
		CreatedBy:    "finance",
	}
}

// TestAdmin returns an administrator.
func TestAdmin() models.User {
	return models.User{ID: "u-admin", Username: "admin", Role: models.RoleAdmin, Secret: "password"}
}

// TestFinance returns a finance operator assigned to projectID.
func TestFinance(projectID string) models.User {
	return models.User{
		ID:                "u-finance-" + projectID,
		Username:          "finance_" + projectID,
		Role:              models.RoleFinance,
		Secret:            "pass",
		AssignedProjectID: projectID,
	}
}

// TestVerifier returns a verifier assigned to projectID.
func TestVerifier(projectID string) models.User {
	return models.User{
		ID:                "u-verifier-" + projectID,
		Username:          "verif_" + projectID,
		Role:              models.RoleVerifier,
		Secret:            "vpass",
		AssignedProjectID: projectID,
	}
}

// SnapshotBuilder accumulates ledger rows for a test snapshot.
type SnapshotBuilder struct {
	snap models.Snapshot
}

// NewSnapshot starts an empty snapshot.
func NewSnapshot() *SnapshotBuilder {
	return &SnapshotBuilder{}
}

// Project adds a project with the given funding and returns it.
func (b *SnapshotBuilder) Project(totalFunding int64) models.Project {
	p := NewTestProject(totalFunding)
	b.snap.Projects = append(b.snap.Projects, p)
	return p
}

// BudgetItem adds a budget item under projectID and returns it.
func (b *SnapshotBuilder) BudgetItem(projectID, category string, allocated int64) models.BudgetItem {
	item := NewTestBudgetItem(projectID, category, allocated)
	b.snap.BudgetItems = append(b.snap.BudgetItems, item)
	return item
}

// Receipt adds a receipt against item and returns it.
func (b *SnapshotBuilder) Receipt(item models.BudgetItem, amount int64, verified bool) models.Receipt {
	r := NewTestReceipt(item.ProjectID, item.ID, amount)
	r.IsVerified = verified
	b.snap.Receipts = append(b.snap.Receipts, r)
	return r
}

// Build returns a copy of the accumulated snapshot.
func (b *SnapshotBuilder) Build() models.Snapshot {
	return b.snap.Clone()
}
