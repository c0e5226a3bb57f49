package repository

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/chen12345jin/planhub/internal/audit"
	"github.com/chen12345jin/planhub/internal/constants"
	"github.com/chen12345jin/planhub/internal/models"
	"github.com/chen12345jin/planhub/internal/storage"
	"github.com/chen12345jin/planhub/internal/utils"
)

// AuditFilter describes the optional query filters for listing audit
// entries. All set fields are AND-combined.
type AuditFilter struct {
	// Username matches by case-insensitive substring.
	Username string

	// ActionType matches exactly, case-insensitive.
	ActionType string

	// StartDate and EndDate bound created_at inclusively. EndDate is
	// treated as end-of-day.
	StartDate time.Time
	EndDate   time.Time
}

// AuditRepository provides append and query access to the audit log.
type AuditRepository struct {
	store *storage.FileStore
}

// NewAuditRepository creates an audit repository backed by the given store.
func NewAuditRepository(store *storage.FileStore) *AuditRepository {
	return &AuditRepository{store: store}
}

func (r *AuditRepository) load() ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	if err := r.store.ReadJSON(constants.CollectionAuditLog, &entries); err != nil {
		return nil, utils.NewStorageError(constants.CollectionAuditLog, err)
	}
	return entries, nil
}

func (r *AuditRepository) save(entries []models.AuditEntry) error {
	if entries == nil {
		entries = []models.AuditEntry{}
	}
	if err := r.store.WriteJSON(constants.CollectionAuditLog, entries); err != nil {
		return utils.NewStorageError(constants.CollectionAuditLog, err)
	}
	return nil
}

// Append allocates an id for the entry and prepends it so the file stays
// roughly most-recent-first. Entries complete in handling order, not arrival
// order, so readers sort by created_at rather than trusting file position.
func (r *AuditRepository) Append(ctx context.Context, entry models.AuditEntry) error {
	return r.store.WithLock(constants.CollectionAuditLog, func() error {
		entries, err := r.load()
		if err != nil {
			return err
		}
		entry.ID = models.NextAuditID(entries)
		return r.save(append([]models.AuditEntry{entry}, entries...))
	})
}

// List returns one page of audit entries matching the filter, sorted
// descending by created_at, together with the total match count.
func (r *AuditRepository) List(ctx context.Context, filter AuditFilter, page, pageSize int) ([]models.AuditEntry, int, error) {
	entries, err := r.load()
	if err != nil {
		return nil, 0, err
	}

	matched := make([]models.AuditEntry, 0, len(entries))
	for _, e := range entries {
		if filter.matches(e) {
			matched = append(matched, e)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := (page - 1) * pageSize
	if start >= total {
		return []models.AuditEntry{}, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (f AuditFilter) matches(e models.AuditEntry) bool {
	if f.Username != "" && !strings.Contains(strings.ToLower(e.Username), strings.ToLower(f.Username)) {
		return false
	}
	if f.ActionType != "" && !strings.EqualFold(e.ActionType, f.ActionType) {
		return false
	}
	if !f.StartDate.IsZero() && e.CreatedAt.Before(f.StartDate) {
		return false
	}
	if !f.EndDate.IsZero() {
		endOfDay := time.Date(f.EndDate.Year(), f.EndDate.Month(), f.EndDate.Day(),
			23, 59, 59, 999_000_000, f.EndDate.Location())
		if e.CreatedAt.After(endOfDay) {
			return false
		}
	}
	return true
}

// Delete removes one audit entry by id.
func (r *AuditRepository) Delete(ctx context.Context, id int64) error {
	return r.store.WithLock(constants.CollectionAuditLog, func() error {
		entries, err := r.load()
		if err != nil {
			return err
		}
		for i, e := range entries {
			if e.ID == id {
				return r.save(append(entries[:i], entries[i+1:]...))
			}
		}
		return utils.NewNotFoundError(constants.CollectionAuditLog, id)
	})
}

// Clear truncates the audit log to empty.
func (r *AuditRepository) Clear(ctx context.Context) error {
	return r.store.WithLock(constants.CollectionAuditLog, func() error {
		return r.save([]models.AuditEntry{})
	})
}

// All returns the raw audit log, newest-first as stored. Backup uses this.
func (r *AuditRepository) All(ctx context.Context) ([]models.AuditEntry, error) {
	entries, err := r.load()
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.AuditEntry{}
	}
	return entries, nil
}

// ReplaceAll overwrites the audit log wholesale. Restore uses this.
func (r *AuditRepository) ReplaceAll(ctx context.Context, entries []models.AuditEntry) error {
	return r.store.WithLock(constants.CollectionAuditLog, func() error {
		return r.save(entries)
	})
}

// MaskHistoricalBodies re-masks the serialized bodies of existing audit
// entries, covering data written before masking existed or before a keyword
// was added to the denylist. Bodies that do not parse as JSON are left
// alone, except on settings-write paths where the unparseable body is
// blanked outright rather than risk keeping a credential. Returns how many
// entries changed.
func (r *AuditRepository) MaskHistoricalBodies(ctx context.Context) (int, error) {
	var changed int
	err := r.store.WithLock(constants.CollectionAuditLog, func() error {
		entries, err := r.load()
		if err != nil {
			return err
		}

		for i := range entries {
			body := entries[i].Body
			if body == "" {
				continue
			}
			var decoded any
			if err := json.Unmarshal([]byte(body), &decoded); err != nil {
				if isSettingsWritePath(entries[i].Method, entries[i].Path) {
					entries[i].Body = ""
					changed++
				}
				continue
			}
			masked, err := json.Marshal(audit.MaskValue(decoded))
			if err != nil {
				continue
			}
			if string(masked) != body {
				entries[i].Body = string(masked)
				changed++
			}
		}

		if changed == 0 {
			return nil
		}
		return r.save(entries)
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}

// isSettingsWritePath reports whether an audit entry recorded a mutation of
// the settings store.
func isSettingsWritePath(method, path string) bool {
	if method == "GET" {
		return false
	}
	return strings.HasPrefix(path, constants.APIBasePath+"/"+constants.CollectionSettings)
}
