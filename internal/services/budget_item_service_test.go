package services

import (
	"context"
	"testing"

	"grantledger/internal/testutil"
)

func TestAddBudgetItem(t *testing.T) {
	ctx := context.Background()

	t.Run("within_limit", func(t *testing.T) {
		f := newLedgerFixture(t)
		item, err := NewBudgetItemService(f.ledger).AddBudgetItem(ctx, f.finance, f.project.ID, "Equipment", 9_000_000)
		testutil.AssertNoError(t, err)
		if item.ID == "" || item.ProjectID != f.project.ID {
			t.Errorf("unexpected item: %+v", item)
		}
	})

	t.Run("over_limit", func(t *testing.T) {
		f := newLedgerFixture(t)
		_, err := NewBudgetItemService(f.ledger).AddBudgetItem(ctx, f.finance, f.project.ID, "Equipment", 9_000_001)
		testutil.AssertAppError(t, err, "RAB_LIMIT_EXCEEDED")
		testutil.AssertHeadroom(t, err, 9_000_000)
		if len(f.ledger.Snapshot().BudgetItems) != 1 {
			t.Error("rejected item should not be stored")
		}
	})

	t.Run("admin_and_verifier_forbidden", func(t *testing.T) {
		f := newLedgerFixture(t)
		svc := NewBudgetItemService(f.ledger)
		_, err := svc.AddBudgetItem(ctx, f.admin, f.project.ID, "Equipment", 1)
		testutil.AssertAppError(t, err, "FORBIDDEN")
		_, err = svc.AddBudgetItem(ctx, f.verifier, f.project.ID, "Equipment", 1)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})

	t.Run("other_project_forbidden", func(t *testing.T) {
		f := newLedgerFixture(t)
		_, err := NewBudgetItemService(f.ledger).AddBudgetItem(ctx, testutil.TestFinance("other"), f.project.ID, "Equipment", 1)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})
}

func TestUpdateBudgetItem(t *testing.T) {
	ctx := context.Background()

	t.Run("reduce_then_relabel", func(t *testing.T) {
		f := newLedgerFixture(t)
		svc := NewBudgetItemService(f.ledger)

		item, err := svc.UpdateBudgetItem(ctx, f.finance, f.item.ID, "", int64Ptr(400_000))
		testutil.AssertNoError(t, err)
		if item.AllocatedAmount != 400_000 || item.Category != "Travel" {
			t.Errorf("unexpected item: %+v", item)
		}

		item, err = svc.UpdateBudgetItem(ctx, f.finance, f.item.ID, "Field Trips", nil)
		testutil.AssertNoError(t, err)
		if item.Category != "Field Trips" || item.AllocatedAmount != 400_000 {
			t.Errorf("unexpected item: %+v", item)
		}
	})

	t.Run("increase_checks_diff_only", func(t *testing.T) {
		f := newLedgerFixture(t)
		svc := NewBudgetItemService(f.ledger)

		_, err := svc.UpdateBudgetItem(ctx, f.finance, f.item.ID, "", int64Ptr(10_000_000))
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateBudgetItem(ctx, f.finance, f.item.ID, "", int64Ptr(10_000_001))
		testutil.AssertAppError(t, err, "RAB_LIMIT_EXCEEDED")
		testutil.AssertHeadroom(t, err, 0)
	})

	t.Run("below_spent", func(t *testing.T) {
		f := newLedgerFixture(t)
		_, err := NewReceiptService(f.ledger).AddReceipt(ctx, f.finance, f.project.ID, ReceiptInput{BudgetItemID: f.item.ID, Amount: 600_000})
		testutil.AssertNoError(t, err)

		_, err = NewBudgetItemService(f.ledger).UpdateBudgetItem(ctx, f.finance, f.item.ID, "", int64Ptr(599_999))
		testutil.AssertAppError(t, err, "ALLOCATION_BELOW_SPENT")
	})

	t.Run("missing", func(t *testing.T) {
		f := newLedgerFixture(t)
		_, err := NewBudgetItemService(f.ledger).UpdateBudgetItem(ctx, f.finance, "missing", "", int64Ptr(1))
		testutil.AssertAppError(t, err, "BUDGET_ITEM_NOT_FOUND")
	})

	t.Run("forbidden_before_rejection", func(t *testing.T) {
		f := newLedgerFixture(t)
		_, err := NewBudgetItemService(f.ledger).UpdateBudgetItem(ctx, f.verifier, f.item.ID, "", int64Ptr(-1))
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})
}

func TestDeleteBudgetItem(t *testing.T) {
	ctx := context.Background()

	t.Run("unreferenced", func(t *testing.T) {
		f := newLedgerFixture(t)
		testutil.AssertNoError(t, NewBudgetItemService(f.ledger).DeleteBudgetItem(ctx, f.finance, f.item.ID))
		if len(f.ledger.Snapshot().BudgetItems) != 0 {
			t.Error("item should be deleted")
		}
	})

	t.Run("referenced", func(t *testing.T) {
		f := newLedgerFixture(t)
		r, err := NewReceiptService(f.ledger).AddReceipt(ctx, f.finance, f.project.ID, ReceiptInput{BudgetItemID: f.item.ID, Amount: 1})
		testutil.AssertNoError(t, err)
		_, err = NewReceiptService(f.ledger).SetVerified(ctx, f.verifier, r.ID, true)
		testutil.AssertNoError(t, err)

		err = NewBudgetItemService(f.ledger).DeleteBudgetItem(ctx, f.finance, f.item.ID)
		testutil.AssertAppError(t, err, "BUDGET_ITEM_IN_USE")
	})
}

func TestGetCategoryStats(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	_, err := NewReceiptService(f.ledger).AddReceipt(ctx, f.finance, f.project.ID, ReceiptInput{BudgetItemID: f.item.ID, Amount: 250_000})
	testutil.AssertNoError(t, err)

	stats, err := NewBudgetItemService(f.ledger).GetCategoryStats(f.verifier, f.item.ID)
	testutil.AssertNoError(t, err)
	if stats.Spent != 250_000 || stats.Remaining != 750_000 || stats.Percent != 25 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	_, err = NewBudgetItemService(f.ledger).GetCategoryStats(testutil.TestVerifier("other"), f.item.ID)
	testutil.AssertAppError(t, err, "FORBIDDEN")
}
