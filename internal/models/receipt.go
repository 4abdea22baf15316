package models

import "time"

// Receipt is a single expenditure (kwitansi) booked against a budget item.
// Only verified receipts count toward the project's realized spend.
type Receipt struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	BudgetItemID string    `json:"budget_item_id"`
	Amount       int64     `json:"amount"`
	Description  string    `json:"description"`
	SPJLink      string    `json:"spj_link,omitempty"`
	Date         time.Time `json:"date"`
	IsVerified   bool      `json:"is_verified"`
	CreatedBy    string    `json:"created_by"`
}
