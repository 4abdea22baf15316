// Package ledger holds the in-memory project, budget item and receipt
// collections. It is a plain data layer: it enforces identity and nothing
// else. Budget rules live in the balance and guard packages.
//
// A Store is not safe for concurrent use; callers serialize access.
package ledger

import (
	"fmt"

	"grantledger/internal/models"
)

// Store owns the three ledger collections.
type Store struct {
	projects    []models.Project
	budgetItems []models.BudgetItem
	receipts    []models.Receipt
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// FromSnapshot returns a store seeded with a copy of snap.
func FromSnapshot(snap models.Snapshot) *Store {
	s := &Store{}
	s.Restore(snap)
	return s
}

// Snapshot returns a copy of all collections.
func (s *Store) Snapshot() models.Snapshot {
	return models.Snapshot{
		Projects:    s.Projects(),
		BudgetItems: s.BudgetItems(),
		Receipts:    s.Receipts(),
	}
}

// Restore replaces every collection with a copy of snap.
func (s *Store) Restore(snap models.Snapshot) {
	c := snap.Clone()
	s.projects = c.Projects
	s.budgetItems = c.BudgetItems
	s.receipts = c.Receipts
}

// --- projects ---

// Projects returns a copy of all projects in insertion order.
func (s *Store) Projects() []models.Project {
	return append([]models.Project(nil), s.projects...)
}

// Project looks up a project by ID.
func (s *Store) Project(id string) (models.Project, bool) {
	for _, p := range s.projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}

// InsertProject appends p. The ID must be unused.
func (s *Store) InsertProject(p models.Project) error {
	if _, ok := s.Project(p.ID); ok {
		return fmt.Errorf("project %q already exists", p.ID)
	}
	s.projects = append(s.projects, p)
	return nil
}

// ReplaceProject overwrites the project with the same ID.
func (s *Store) ReplaceProject(p models.Project) bool {
	for i := range s.projects {
		if s.projects[i].ID == p.ID {
			s.projects[i] = p
			return true
		}
	}
	return false
}

// DeleteProject removes the project with the given ID.
func (s *Store) DeleteProject(id string) bool {
	for i := range s.projects {
		if s.projects[i].ID == id {
			s.projects = append(s.projects[:i:i], s.projects[i+1:]...)
			return true
		}
	}
	return false
}

// --- budget items ---

// BudgetItems returns a copy of all budget items.
func (s *Store) BudgetItems() []models.BudgetItem {
	return append([]models.BudgetItem(nil), s.budgetItems...)
}

// BudgetItem looks up a budget item by ID.
func (s *Store) BudgetItem(id string) (models.BudgetItem, bool) {
	for _, b := range s.budgetItems {
		if b.ID == id {
			return b, true
		}
	}
	return models.BudgetItem{}, false
}

// BudgetItemsByProject returns the budget items owned by projectID.
func (s *Store) BudgetItemsByProject(projectID string) []models.BudgetItem {
	var out []models.BudgetItem
	for _, b := range s.budgetItems {
		if b.ProjectID == projectID {
			out = append(out, b)
		}
	}
	return out
}

// InsertBudgetItem appends b. The ID must be unused.
func (s *Store) InsertBudgetItem(b models.BudgetItem) error {
	if _, ok := s.BudgetItem(b.ID); ok {
		return fmt.Errorf("budget item %q already exists", b.ID)
	}
	s.budgetItems = append(s.budgetItems, b)
	return nil
}

// ReplaceBudgetItem overwrites the budget item with the same ID.
func (s *Store) ReplaceBudgetItem(b models.BudgetItem) bool {
	for i := range s.budgetItems {
		if s.budgetItems[i].ID == b.ID {
			s.budgetItems[i] = b
			return true
		}
	}
	return false
}

// DeleteBudgetItem removes the budget item with the given ID.
func (s *Store) DeleteBudgetItem(id string) bool {
	for i := range s.budgetItems {
		if s.budgetItems[i].ID == id {
			s.budgetItems = append(s.budgetItems[:i:i], s.budgetItems[i+1:]...)
			return true
		}
	}
	return false
}

// DeleteBudgetItemsByProject removes every budget item of projectID and
// returns how many were removed.
func (s *Store) DeleteBudgetItemsByProject(projectID string) int {
	kept := s.budgetItems[:0:0]
	for _, b := range s.budgetItems {
		if b.ProjectID != projectID {
			kept = append(kept, b)
		}
	}
	removed := len(s.budgetItems) - len(kept)
	s.budgetItems = kept
	return removed
}

// --- receipts ---

// Receipts returns a copy of all receipts in insertion order.
func (s *Store) Receipts() []models.Receipt {
	return append([]models.Receipt(nil), s.receipts...)
}

// Receipt looks up a receipt by ID.
func (s *Store) Receipt(id string) (models.Receipt, bool) {
	for _, r := range s.receipts {
		if r.ID == id {
			return r, true
		}
	}
	return models.Receipt{}, false
}

// ReceiptsByProject returns the receipts booked under projectID.
func (s *Store) ReceiptsByProject(projectID string) []models.Receipt {
	var out []models.Receipt
	for _, r := range s.receipts {
		if r.ProjectID == projectID {
			out = append(out, r)
		}
	}
	return out
}

// ReceiptsByBudgetItem returns the receipts referencing budgetItemID.
func (s *Store) ReceiptsByBudgetItem(budgetItemID string) []models.Receipt {
	var out []models.Receipt
	for _, r := range s.receipts {
		if r.BudgetItemID == budgetItemID {
			out = append(out, r)
		}
	}
	return out
}

// InsertReceipt appends r. The ID must be unused.
func (s *Store) InsertReceipt(r models.Receipt) error {
	if _, ok := s.Receipt(r.ID); ok {
		return fmt.Errorf("receipt %q already exists", r.ID)
	}
	s.receipts = append(s.receipts, r)
	return nil
}

// ReplaceReceipt overwrites the receipt with the same ID.
func (s *Store) ReplaceReceipt(r models.Receipt) bool {
	for i := range s.receipts {
		if s.receipts[i].ID == r.ID {
			s.receipts[i] = r
			return true
		}
	}
	return false
}

// DeleteReceipt removes the receipt with the given ID.
func (s *Store) DeleteReceipt(id string) bool {
	for i := range s.receipts {
		if s.receipts[i].ID == id {
			s.receipts = append(s.receipts[:i:i], s.receipts[i+1:]...)
			return true
		}
	}
	return false
}
