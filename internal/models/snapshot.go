package models

// Snapshot holds the three ledger collections. It is the unit that is loaded
// at startup and saved after every committed mutation.
type Snapshot struct {
	Projects    []Project    `json:"projects"`
	BudgetItems []BudgetItem `json:"budget_items"`
	Receipts    []Receipt    `json:"receipts"`
}

// Clone returns a copy whose slices do not alias s.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Projects:    append([]Project(nil), s.Projects...),
		BudgetItems: append([]BudgetItem(nil), s.BudgetItems...),
		Receipts:    append([]Receipt(nil), s.Receipts...),
	}
}
