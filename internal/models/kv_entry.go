package models

import "time"

// KVEntry is one key-value record addressed by the composite key (Namespace, Key).
type KVEntry struct {
	Namespace string    `gorm:"primaryKey;size:64" json:"namespace"`
	Key       string    `gorm:"column:entry_key;primaryKey;size:128" json:"key"`
	Value     []byte    `gorm:"not null" json:"value"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
