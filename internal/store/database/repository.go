package database

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository implements store.Store on top of the records table.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Get(key string) ([]byte, bool, error) {
	rec := &Record{}
	err := r.db.First(rec, "record_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return rec.Value, true, nil
}

func (r *Repository) Set(key string, value []byte) error {
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "record_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&Record{Key: key, Value: value}).Error
}

func (r *Repository) Remove(key string) error {
	return r.db.Delete(&Record{}, "record_key = ?", key).Error
}

// Keys lists every stored key ordered by name.
func (r *Repository) Keys() ([]string, error) {
	var keys []string
	return keys, r.db.Model(&Record{}).Order("record_key").Pluck("record_key", &keys).Error
}

// Close releases the underlying connection.
func (r *Repository) Close() error {
	conn, err := r.db.DB()
	if err != nil {
		return err
	}
	return conn.Close()
}
