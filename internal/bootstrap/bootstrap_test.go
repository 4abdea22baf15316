package bootstrap

import (
	"testing"

	"grantledger/internal/models"
)

func TestDefaultBudgetItems(t *testing.T) {
	t.Run("round_funding", func(t *testing.T) {
		p := models.Project{ID: "p1", TotalFunding: 100_000_000}
		items := DefaultBudgetItems(p)

		want := []int64{40_000_000, 20_000_000, 20_000_000, 10_000_000, 10_000_000}
		if len(items) != len(want) {
			t.Fatalf("expected %d items, got %d", len(want), len(items))
		}
		var sum int64
		for i, item := range items {
			if item.AllocatedAmount != want[i] {
				t.Errorf("item %d (%s): got %d, want %d", i, item.Category, item.AllocatedAmount, want[i])
			}
			if item.ProjectID != "p1" {
				t.Errorf("item %d not owned by project: %q", i, item.ProjectID)
			}
			if item.ID == "" {
				t.Errorf("item %d has no id", i)
			}
			sum += item.AllocatedAmount
		}
		if sum != p.TotalFunding {
			t.Errorf("sum %d != funding %d", sum, p.TotalFunding)
		}
		if items[0].Category != "Team Honorarium" || items[4].Category != "Publication Costs" {
			t.Errorf("unexpected labels: %q .. %q", items[0].Category, items[4].Category)
		}
	})

	t.Run("odd_funding_last_absorbs_remainder", func(t *testing.T) {
		p := models.Project{ID: "p1", TotalFunding: 999}
		items := DefaultBudgetItems(p)

		want := []int64{399, 199, 199, 99, 103}
		var sum int64
		for i, item := range items {
			if item.AllocatedAmount != want[i] {
				t.Errorf("item %d: got %d, want %d", i, item.AllocatedAmount, want[i])
			}
			sum += item.AllocatedAmount
		}
		if sum != 999 {
			t.Errorf("sum %d != 999", sum)
		}
	})

	t.Run("zero_funding", func(t *testing.T) {
		items := DefaultBudgetItems(models.Project{ID: "p1"})
		for _, item := range items {
			if item.AllocatedAmount != 0 {
				t.Errorf("expected zero allocation, got %d", item.AllocatedAmount)
			}
		}
	})
}

func TestSplit(t *testing.T) {
	for _, total := range []int64{0, 1, 7, 13, 101, 123_456_789} {
		var sum int64
		for _, a := range Split(total, DefaultShares) {
			if a < 0 {
				t.Errorf("Split(%d) produced negative share %d", total, a)
			}
			sum += a
		}
		if sum != total {
			t.Errorf("Split(%d) sums to %d", total, sum)
		}
	}

	if got := Split(10, nil); len(got) != 0 {
		t.Errorf("expected empty split, got %v", got)
	}
}
