package models

// BudgetItem is one RAB line: a spending category with its allocation.
type BudgetItem struct {
	ID              string `json:"id"`
	ProjectID       string `json:"project_id"`
	Category        string `json:"category"`
	AllocatedAmount int64  `json:"allocated_amount"`
}
