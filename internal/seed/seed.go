// Package seed builds the demo dataset: numbered projects with their default
// RAB plus an administrator and one finance and one verifier user per project.
package seed

import (
	"fmt"
	"time"

	"grantledger/internal/bootstrap"
	"grantledger/internal/models"
)

// Demo returns n demo projects (with default budget items) and their users.
// Project i is funded with 100,000,000 + (i-1)*10,000,000.
func Demo(n int, now time.Time) (models.Snapshot, []models.User) {
	var snap models.Snapshot
	users := []models.User{
		{ID: "u-0", Username: "admin", Role: models.RoleAdmin, Secret: "password"},
	}
	var verifiers []models.User

	for i := 1; i <= n; i++ {
		p := Project(i, now)
		snap.Projects = append(snap.Projects, p)

		amounts := bootstrap.Split(p.TotalFunding, bootstrap.DefaultShares)
		for k, share := range bootstrap.DefaultShares {
			snap.BudgetItems = append(snap.BudgetItems, models.BudgetItem{
				ID:              fmt.Sprintf("b-%s-%d", p.ID, k+1),
				ProjectID:       p.ID,
				Category:        share.Category,
				AllocatedAmount: amounts[k],
			})
		}

		users = append(users, models.User{
			ID:                fmt.Sprintf("u-keu-%d", i),
			Username:          fmt.Sprintf("user_%d", i),
			Role:              models.RoleFinance,
			Secret:            fmt.Sprintf("pass_%d", i),
			AssignedProjectID: p.ID,
		})
		verifiers = append(verifiers, models.User{
			ID:                fmt.Sprintf("u-verif-%d", i),
			Username:          fmt.Sprintf("verif_%d", i),
			Role:              models.RoleVerifier,
			Secret:            fmt.Sprintf("vpass_%d", i),
			AssignedProjectID: p.ID,
		})
	}
	return snap, append(users, verifiers...)
}

// Project returns demo project number i (1-based).
func Project(i int, now time.Time) models.Project {
	seq := fmt.Sprintf("%03d", i)
	org := "Research Center for Information Technology"
	if i%2 == 0 {
		org = "Research Center for Electronics"
	}
	return models.Project{
		ID:               fmt.Sprintf("proj-%d", i),
		ProjectName:      fmt.Sprintf("Flagship Research %d: Future Technology Development", i),
		OrganizationName: org,
		ProjectType:      "Basic Research",
		LeaderName:       fmt.Sprintf("Dr. Researcher %d", i),
		TotalFunding:     100_000_000 + int64(i-1)*10_000_000,
		ProposalNumber:   "PROP/2024/" + seq,
		ContractNumber:   "CONTRACT/2024/" + seq,
		SKNumber:         "SK/2024/" + seq,
		SP2DNumber:       "SP2D/2024/" + seq,
		CreatedAt:        now,
	}
}
