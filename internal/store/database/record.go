package database

import "time"

// Record is one key of the store.
type Record struct {
	Key       string `gorm:"column:record_key;primaryKey"`
	Value     []byte
	UpdatedAt time.Time
}
