package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"grantledger/internal/logger"
	"grantledger/internal/models"
)

// Keys under which each collection is stored.
const (
	KeyProjects    = "projects"
	KeyBudgetItems = "budget_items"
	KeyReceipts    = "receipts"
)

// Repository loads and saves ledger snapshots.
type Repository struct {
	store BlobStore
}

// NewRepository returns a repository backed by store.
func NewRepository(store BlobStore) *Repository {
	return &Repository{store: store}
}

// Load reads all three collections. found is false when none of them has
// ever been saved; a missing individual key yields an empty collection.
func (r *Repository) Load(ctx context.Context) (models.Snapshot, bool, error) {
	var snap models.Snapshot
	found := false

	targets := []struct {
		key string
		dst interface{}
	}{
		{KeyProjects, &snap.Projects},
		{KeyBudgetItems, &snap.BudgetItems},
		{KeyReceipts, &snap.Receipts},
	}
	for _, t := range targets {
		raw, err := r.store.Get(ctx, t.key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return models.Snapshot{}, false, err
		}
		if err := json.Unmarshal(raw, t.dst); err != nil {
			return models.Snapshot{}, false, fmt.Errorf("decode %s: %w", t.key, err)
		}
		found = true
	}

	logger.Named("persistence").Debugw("Ledger loaded",
		"found", found,
		"projects", len(snap.Projects),
		"budget_items", len(snap.BudgetItems),
		"receipts", len(snap.Receipts),
	)
	return snap, found, nil
}

// Save writes all three collections in one PutMany call.
func (r *Repository) Save(ctx context.Context, snap models.Snapshot) error {
	entries := make(map[string][]byte, 3)
	for key, v := range map[string]interface{}{
		KeyProjects:    nonNil(snap.Projects),
		KeyBudgetItems: nonNil(snap.BudgetItems),
		KeyReceipts:    nonNil(snap.Receipts),
	} {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		entries[key] = raw
	}
	return r.store.PutMany(ctx, entries)
}

// nonNil keeps empty collections encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
