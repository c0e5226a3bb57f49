// Package repository implements data access over the JSON file store:
// generic collection records, settings and the audit log.
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chen12345jin/planhub/internal/models"
	"github.com/chen12345jin/planhub/internal/storage"
	"github.com/chen12345jin/planhub/internal/utils"
)

// substringFilterFields are matched by case-insensitive substring; every
// other filter field requires an exact match.
var substringFilterFields = map[string]bool{
	"name":        true,
	"title":       true,
	"username":    true,
	"description": true,
}

// RecordRepository provides CRUD access to the generic record collections.
type RecordRepository struct {
	store *storage.FileStore
	now   func() time.Time
}

// NewRecordRepository creates a record repository backed by the given store.
func NewRecordRepository(store *storage.FileStore) *RecordRepository {
	return &RecordRepository{store: store, now: time.Now}
}

// load reads a collection into memory. Missing files yield an empty slice.
func (r *RecordRepository) load(collection string) ([]models.Record, error) {
	var records []models.Record
	if err := r.store.ReadJSON(collection, &records); err != nil {
		return nil, utils.NewStorageError(collection, err)
	}
	return records, nil
}

// save persists a collection. nil is normalized to an empty array so the
// file never contains `null`.
func (r *RecordRepository) save(collection string, records []models.Record) error {
	if records == nil {
		records = []models.Record{}
	}
	if err := r.store.WriteJSON(collection, records); err != nil {
		return utils.NewStorageError(collection, err)
	}
	return nil
}

// List returns the records of a collection, optionally filtered. Name-like
// fields match by case-insensitive substring, everything else exactly.
func (r *RecordRepository) List(ctx context.Context, collection string, filters map[string]string) ([]models.Record, error) {
	records, err := r.load(collection)
	if err != nil {
		return nil, err
	}
	if len(filters) == 0 {
		if records == nil {
			records = []models.Record{}
		}
		return records, nil
	}

	filtered := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if matchesFilters(rec, filters) {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

// matchesFilters reports whether a record satisfies every filter (AND).
func matchesFilters(rec models.Record, filters map[string]string) bool {
	for field, want := range filters {
		got, ok := rec[field]
		if !ok || got == nil {
			return false
		}
		gotStr := fmt.Sprintf("%v", got)
		if f, isFloat := got.(float64); isFloat && f == float64(int64(f)) {
			gotStr = fmt.Sprintf("%d", int64(f))
		}
		if substringFilterFields[field] {
			if !strings.Contains(strings.ToLower(gotStr), strings.ToLower(want)) {
				return false
			}
		} else if gotStr != want {
			return false
		}
	}
	return true
}

// Get returns a single record by ID.
func (r *RecordRepository) Get(ctx context.Context, collection string, id int64) (models.Record, error) {
	records, err := r.load(collection)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID() == id {
			return rec, nil
		}
	}
	return nil, utils.NewNotFoundError(collection, id)
}

// Create appends a new record, allocating its ID and stamping created_at.
// Any client-supplied id is overwritten.
func (r *RecordRepository) Create(ctx context.Context, collection string, rec models.Record) (models.Record, error) {
	created := rec.Clone()
	err := r.store.WithLock(collection, func() error {
		records, err := r.load(collection)
		if err != nil {
			return err
		}
		created.SetID(models.NextID(records))
		created.Stamp(r.now())
		return r.save(collection, append(records, created))
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update shallow-merges a patch into an existing record. The id and
// created_at fields are immutable and survive any patch.
func (r *RecordRepository) Update(ctx context.Context, collection string, id int64, patch models.Record) (models.Record, error) {
	var updated models.Record
	err := r.store.WithLock(collection, func() error {
		records, err := r.load(collection)
		if err != nil {
			return err
		}
		for i, rec := range records {
			if rec.ID() != id {
				continue
			}
			merged := rec.Clone()
			merged.Merge(patch)
			records[i] = merged
			updated = merged
			return r.save(collection, records)
		}
		return utils.NewNotFoundError(collection, id)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a record by ID.
func (r *RecordRepository) Delete(ctx context.Context, collection string, id int64) error {
	return r.store.WithLock(collection, func() error {
		records, err := r.load(collection)
		if err != nil {
			return err
		}
		for i, rec := range records {
			if rec.ID() == id {
				return r.save(collection, append(records[:i], records[i+1:]...))
			}
		}
		return utils.NewNotFoundError(collection, id)
	})
}

// FindBy returns the first record whose field equals the given string value,
// or nil when none matches. Used by the auth layer to look up accounts by
// username.
func (r *RecordRepository) FindBy(ctx context.Context, collection, field, value string) (models.Record, error) {
	records, err := r.load(collection)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.StringField(field) == value {
			return rec, nil
		}
	}
	return nil, nil
}

// ReplaceAll overwrites a collection wholesale. Restore uses this.
func (r *RecordRepository) ReplaceAll(ctx context.Context, collection string, records []models.Record) error {
	return r.store.WithLock(collection, func() error {
		return r.save(collection, records)
	})
}
