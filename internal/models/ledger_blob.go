package models

import "time"

// LedgerBlob is one persisted collection: a JSON document stored under Key.
type LedgerBlob struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the table created by the ledger_blobs migration.
func (LedgerBlob) TableName() string {
	return "ledger_blobs"
}
