// Package registry keeps the list of uploaded files.
package registry

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/konorlevich/secureshare/internal/apperr"
	"github.com/konorlevich/secureshare/internal/cid"
	"github.com/konorlevich/secureshare/internal/files"
	"github.com/konorlevich/secureshare/internal/store"
)

// DuplicateWindow is how long an identical (name, size, type) upload is refused.
const DuplicateWindow = time.Minute

const (
	msgDuplicate    = "Duplicate file upload detected. Please wait before uploading the same file again."
	msgNegativeSize = "File size cannot be negative"
)

type FileRecord struct {
	ID         int64     `json:"id"`
	Hash       string    `json:"hash"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Type       string    `json:"type"`
	AILabel    string    `json:"aiLabel"`
	UploadedAt time.Time `json:"uploadedAt"`
	IsPrivate  bool      `json:"isPrivate"`
}

// Metadata is what the upload flow hands to Add.
type Metadata struct {
	Name    string
	Size    int64
	Type    string
	AILabel string
}

// Usage is the dashboard summary.
type Usage struct {
	Files   int
	Used    int64
	Quota   int64
	Percent float64
}

type Registry struct {
	s    store.Store
	l    *log.Entry
	now  func() time.Time
	hash func(time.Time) string
}

type Option func(*Registry)

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

func WithHashGenerator(hash func(time.Time) string) Option {
	return func(r *Registry) {
		r.hash = hash
	}
}

func New(s store.Store, l *log.Entry, opts ...Option) *Registry {
	r := &Registry{
		s:    s,
		l:    l.WithField("component", "registry"),
		now:  time.Now,
		hash: cid.Generate,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// List returns the records in insertion order. Unreadable data reads as no files.
func (r *Registry) List() []FileRecord {
	var records []FileRecord
	if !store.Load(r.s, store.KeyFiles, &records, r.l) || records == nil {
		return []FileRecord{}
	}
	return records
}

func (r *Registry) Add(m Metadata) (*FileRecord, error) {
	records := r.List()
	now := r.now().UTC()
	l := r.l.WithFields(log.Fields{"name": m.Name, "size": m.Size, "type": m.Type})

	if m.Size < 0 {
		return nil, apperr.New(apperr.ErrValidation, msgNegativeSize)
	}
	if isDuplicate(records, m, now) {
		l.Info("duplicate upload refused")
		return nil, apperr.New(apperr.ErrDuplicate, msgDuplicate)
	}

	rec := FileRecord{
		ID:         nextID(records, now),
		Hash:       r.hash(now),
		Name:       m.Name,
		Size:       m.Size,
		Type:       m.Type,
		AILabel:    m.AILabel,
		UploadedAt: now,
		IsPrivate:  true,
	}
	records = append(records, rec)
	if err := store.Save(r.s, store.KeyFiles, records, l); err != nil {
		return nil, err
	}
	l.WithField("file_id", rec.ID).Info("file added")
	return &rec, nil
}

// Upload runs the whole upload flow for a candidate: validate, label, add.
func (r *Registry) Upload(c files.Candidate) (*FileRecord, error) {
	if err := files.Validate(c); err != nil {
		return nil, err
	}
	return r.Add(Metadata{
		Name:    c.Name,
		Size:    c.Size,
		Type:    c.Type,
		AILabel: files.GenerateLabel(c),
	})
}

// Delete removes the first record with the id. An unknown id is not an error.
func (r *Registry) Delete(id int64) error {
	records := r.List()
	l := r.l.WithField("file_id", id)
	for i := range records {
		if records[i].ID == id {
			records = append(records[:i], records[i+1:]...)
			if err := store.Save(r.s, store.KeyFiles, records, l); err != nil {
				return err
			}
			l.Info("file deleted")
			return nil
		}
	}
	l.Debug("nothing to delete")
	return nil
}

func (r *Registry) TotalBytesUsed() int64 {
	var total int64
	for _, rec := range r.List() {
		total += rec.Size
	}
	return total
}

func (r *Registry) Usage(quota int64) Usage {
	records := r.List()
	u := Usage{Files: len(records), Quota: quota}
	for _, rec := range records {
		u.Used += rec.Size
	}
	if quota > 0 {
		u.Percent = float64(u.Used) / float64(quota) * 100
	}
	return u
}

// Clear drops the whole collection.
func (r *Registry) Clear() error {
	return store.Remove(r.s, store.KeyFiles, r.l)
}

func isDuplicate(records []FileRecord, m Metadata, now time.Time) bool {
	since := now.Add(-DuplicateWindow)
	for _, f := range records {
		if f.Name == m.Name && f.Size == m.Size && f.Type == m.Type && f.UploadedAt.After(since) {
			return true
		}
	}
	return false
}

// nextID is the creation time in milliseconds, bumped past the largest id
// already taken.
func nextID(records []FileRecord, now time.Time) int64 {
	id := now.UnixMilli()
	for _, f := range records {
		if f.ID >= id {
			id = f.ID + 1
		}
	}
	return id
}
