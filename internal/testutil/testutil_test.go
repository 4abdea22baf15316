package testutil_test

import (
	"testing"

	"grantledger/internal/errors"
	"grantledger/internal/models"
	"grantledger/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)

	var count int64
	if err := db.Table("ledger_blobs").Count(&count).Error; err != nil {
		t.Errorf("table ledger_blobs should exist after migration: %v", err)
	}
}

func TestSnapshotBuilder(t *testing.T) {
	b := testutil.NewSnapshot()
	p := b.Project(1000)
	item := b.BudgetItem(p.ID, "Travel", 400)
	r := b.Receipt(item, 100, true)

	snap := b.Build()
	if len(snap.Projects) != 1 || len(snap.BudgetItems) != 1 || len(snap.Receipts) != 1 {
		t.Fatalf("unexpected snapshot sizes: %+v", snap)
	}
	if r.ProjectID != p.ID || r.BudgetItemID != item.ID || !r.IsVerified {
		t.Errorf("receipt not linked to its item: %+v", r)
	}

	other := testutil.NewTestProject(1)
	if other.ID == p.ID {
		t.Error("fixture IDs should be unique")
	}
}

func TestUserFixtures(t *testing.T) {
	if testutil.TestAdmin().Role != models.RoleAdmin {
		t.Error("expected admin role")
	}
	fin := testutil.TestFinance("p1")
	if fin.Role != models.RoleFinance || fin.AssignedProjectID != "p1" {
		t.Errorf("unexpected finance user: %+v", fin)
	}
	if !testutil.TestVerifier("p1").CanAccessProject("p1") {
		t.Error("verifier should access its assigned project")
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrProjectNotFound, "custom message")
	testutil.AssertAppError(t, err, "PROJECT_NOT_FOUND")
}

func TestAssertHeadroom(t *testing.T) {
	err := errors.WithHeadroom(errors.ErrRabLimitExceeded, "too much", 42)
	testutil.AssertHeadroom(t, err, 42)
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
