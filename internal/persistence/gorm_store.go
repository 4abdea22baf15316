package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"grantledger/internal/models"
)

type gormBlobStore struct {
	db *gorm.DB
}

// NewGormBlobStore stores documents in the ledger_blobs table.
func NewGormBlobStore(db *gorm.DB) BlobStore {
	return &gormBlobStore{db: db}
}

func (s *gormBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	var blob models.LedgerBlob
	if err := s.db.WithContext(ctx).Where("key = ?", key).First(&blob).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load blob %q: %w", key, err)
	}
	return []byte(blob.Value), nil
}

func (s *gormBlobStore) Put(ctx context.Context, key string, value []byte) error {
	return s.PutMany(ctx, map[string][]byte{key: value})
}

func (s *gormBlobStore) PutMany(ctx context.Context, entries map[string][]byte) error {
	now := time.Now().UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, key := range sortedKeys(entries) {
			blob := models.LedgerBlob{Key: key, Value: string(entries[key]), UpdatedAt: now}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&blob).Error
			if err != nil {
				return fmt.Errorf("save blob %q: %w", key, err)
			}
		}
		return nil
	})
}
