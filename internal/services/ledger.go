package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"grantledger/internal/balance"
	apperrors "grantledger/internal/errors"
	"grantledger/internal/guard"
	"grantledger/internal/ledger"
	"grantledger/internal/logger"
	"grantledger/internal/models"
)

// SnapshotRepository persists the ledger collections.
type SnapshotRepository interface {
	Load(ctx context.Context) (models.Snapshot, bool, error)
	Save(ctx context.Context, snap models.Snapshot) error
}

// Ledger is the shared state behind every ledger service. All writes are
// serialized: validation, commit and save run under one lock, and a failed
// save restores the collections to their state before the write.
type Ledger struct {
	mu    sync.RWMutex
	store *ledger.Store
	repo  SnapshotRepository
	calc  *balance.Calculator
	guard *guard.Guard
	now   func() time.Time
}

// NewLedger wraps store, saving every committed write through repo.
func NewLedger(store *ledger.Store, repo SnapshotRepository) *Ledger {
	return &Ledger{
		store: store,
		repo:  repo,
		calc:  balance.NewCalculator(store),
		guard: guard.New(store),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// OpenLedger loads the persisted snapshot. found is false when nothing has
// been saved yet.
func OpenLedger(ctx context.Context, repo SnapshotRepository) (*Ledger, bool, error) {
	snap, found, err := repo.Load(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load ledger: %w", err)
	}
	return NewLedger(ledger.FromSnapshot(snap), repo), found, nil
}

// Snapshot returns a copy of the current collections.
func (l *Ledger) Snapshot() models.Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.Snapshot()
}

// Replace swaps in snap wholesale and saves it.
func (l *Ledger) Replace(ctx context.Context, snap models.Snapshot) error {
	return l.write(ctx, "replace", func() error {
		l.store.Restore(snap)
		return nil
	})
}

func (l *Ledger) read(fn func() error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return fn()
}

// write runs fn under the write lock and saves the result. Any error from
// fn or from the save leaves the store exactly as it was.
func (l *Ledger) write(ctx context.Context, op string, fn func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	before := l.store.Snapshot()
	if err := fn(); err != nil {
		l.store.Restore(before)
		if apperrors.IsRejection(err) {
			logger.Get().Debugw("Ledger write rejected", "op", op, "reason", err.Error())
		}
		return err
	}

	if err := l.repo.Save(ctx, l.store.Snapshot()); err != nil {
		l.store.Restore(before)
		logger.Get().Errorw("Failed to save ledger, write rolled back", "op", op, "error", err)
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (l *Ledger) projectOf(id string) (models.Project, error) {
	p, ok := l.store.Project(id)
	if !ok {
		return models.Project{}, apperrors.ErrProjectNotFound
	}
	return p, nil
}

func (l *Ledger) budgetItemOf(id string) (models.BudgetItem, error) {
	b, ok := l.store.BudgetItem(id)
	if !ok {
		return models.BudgetItem{}, apperrors.ErrBudgetItemNotFound
	}
	return b, nil
}

func (l *Ledger) receiptOf(id string) (models.Receipt, error) {
	r, ok := l.store.Receipt(id)
	if !ok {
		return models.Receipt{}, apperrors.ErrReceiptNotFound
	}
	return r, nil
}
