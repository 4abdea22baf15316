package services

import (
	"context"
	"errors"
	"testing"

	"grantledger/internal/ledger"
	"grantledger/internal/logger"
	"grantledger/internal/models"
	"grantledger/internal/persistence"
	"grantledger/internal/testutil"
)

func init() {
	logger.Init("test")
}

// flakyRepository wraps a repository and fails saves while failSaves is set.
type flakyRepository struct {
	inner     SnapshotRepository
	failSaves bool
	saves     int
}

func (r *flakyRepository) Load(ctx context.Context) (models.Snapshot, bool, error) {
	return r.inner.Load(ctx)
}

func (r *flakyRepository) Save(ctx context.Context, snap models.Snapshot) error {
	if r.failSaves {
		return errors.New("disk full")
	}
	r.saves++
	return r.inner.Save(ctx, snap)
}

func newTestRepo() *flakyRepository {
	return &flakyRepository{inner: persistence.NewRepository(persistence.NewMemoryBlobStore())}
}

// ledgerFixture is a 10M project with a single 1M Travel category, plus
// users bound to it.
type ledgerFixture struct {
	ledger   *Ledger
	repo     *flakyRepository
	project  models.Project
	item     models.BudgetItem
	admin    models.User
	finance  models.User
	verifier models.User
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	b := testutil.NewSnapshot()
	p := b.Project(10_000_000)
	item := b.BudgetItem(p.ID, "Travel", 1_000_000)

	repo := newTestRepo()
	return &ledgerFixture{
		ledger:   NewLedger(ledger.FromSnapshot(b.Build()), repo),
		repo:     repo,
		project:  p,
		item:     item,
		admin:    testutil.TestAdmin(),
		finance:  testutil.TestFinance(p.ID),
		verifier: testutil.TestVerifier(p.ID),
	}
}

func (f *ledgerFixture) categoryRemaining(t *testing.T, itemID string) int64 {
	t.Helper()
	stats, err := NewBudgetItemService(f.ledger).GetCategoryStats(f.finance, itemID)
	testutil.AssertNoError(t, err)
	return stats.Remaining
}

func int64Ptr(v int64) *int64 { return &v }

func stringPtr(v string) *string { return &v }
