package repository

import (
	"context"
	"sort"
	"time"

	"github.com/chen12345jin/planhub/internal/audit"
	"github.com/chen12345jin/planhub/internal/constants"
	"github.com/chen12345jin/planhub/internal/models"
	"github.com/chen12345jin/planhub/internal/storage"
	"github.com/chen12345jin/planhub/internal/utils"
)

// sanitizedSettingKeys are the setting keys whose values are known to carry
// credentials. Cleanup blanks their sensitive sub-fields in the persisted
// representation.
var sanitizedSettingKeys = map[string]bool{
	constants.SettingKeyIntegration:     true,
	constants.SettingKeyDingtalkWebhook: true,
}

// SettingsRepository provides key-based access to the settings collection.
// The write path upserts by key; Cleanup restores the one-record-per-key
// invariant after out-of-band writes such as restores or imports.
type SettingsRepository struct {
	store *storage.FileStore
	now   func() time.Time
}

// NewSettingsRepository creates a settings repository backed by the given store.
func NewSettingsRepository(store *storage.FileStore) *SettingsRepository {
	return &SettingsRepository{store: store, now: time.Now}
}

func (r *SettingsRepository) load() ([]models.Setting, error) {
	var settings []models.Setting
	if err := r.store.ReadJSON(constants.CollectionSettings, &settings); err != nil {
		return nil, utils.NewStorageError(constants.CollectionSettings, err)
	}
	return settings, nil
}

func (r *SettingsRepository) save(settings []models.Setting) error {
	if settings == nil {
		settings = []models.Setting{}
	}
	if err := r.store.WriteJSON(constants.CollectionSettings, settings); err != nil {
		return utils.NewStorageError(constants.CollectionSettings, err)
	}
	return nil
}

// All returns every setting record.
func (r *SettingsRepository) All(ctx context.Context) ([]models.Setting, error) {
	settings, err := r.load()
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = []models.Setting{}
	}
	return settings, nil
}

// Get returns the setting with the given key, or nil when absent. When
// duplicate rows exist for the key the most recently created one wins,
// matching what Cleanup would keep.
func (r *SettingsRepository) Get(ctx context.Context, key string) (*models.Setting, error) {
	settings, err := r.load()
	if err != nil {
		return nil, err
	}
	var found *models.Setting
	for i := range settings {
		s := &settings[i]
		if s.Key != key {
			continue
		}
		if found == nil || !s.CreatedAt.Before(found.CreatedAt) {
			found = s
		}
	}
	return found, nil
}

// Upsert writes a value under a key. An existing record keeps its id and
// creation time and gets updated_at stamped; a missing key appends a new
// record with a fresh id.
func (r *SettingsRepository) Upsert(ctx context.Context, key string, value any) (models.Setting, error) {
	var result models.Setting
	err := r.store.WithLock(constants.CollectionSettings, func() error {
		settings, err := r.load()
		if err != nil {
			return err
		}
		for i := range settings {
			if settings[i].Key != key {
				continue
			}
			settings[i].Value = value
			settings[i].UpdatedAt = r.now()
			result = settings[i]
			return r.save(settings)
		}
		result = models.Setting{
			ID:        models.NextSettingID(settings),
			Key:       key,
			Value:     value,
			CreatedAt: r.now(),
		}
		return r.save(append(settings, result))
	})
	if err != nil {
		return models.Setting{}, err
	}
	return result, nil
}

// UpdateByID rewrites the key and value of an existing setting record.
func (r *SettingsRepository) UpdateByID(ctx context.Context, id int64, key string, value any) (models.Setting, error) {
	var result models.Setting
	err := r.store.WithLock(constants.CollectionSettings, func() error {
		settings, err := r.load()
		if err != nil {
			return err
		}
		for i := range settings {
			if settings[i].ID != id {
				continue
			}
			if key != "" {
				settings[i].Key = key
			}
			settings[i].Value = value
			settings[i].UpdatedAt = r.now()
			result = settings[i]
			return r.save(settings)
		}
		return utils.NewNotFoundError(constants.CollectionSettings, id)
	})
	if err != nil {
		return models.Setting{}, err
	}
	return result, nil
}

// DeleteByID removes a setting record by id.
func (r *SettingsRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.store.WithLock(constants.CollectionSettings, func() error {
		settings, err := r.load()
		if err != nil {
			return err
		}
		for i := range settings {
			if settings[i].ID == id {
				return r.save(append(settings[:i], settings[i+1:]...))
			}
		}
		return utils.NewNotFoundError(constants.CollectionSettings, id)
	})
}

// BoolValue reads a setting as a boolean, falling back to def when the key
// is absent, unreadable or not a boolean.
func (r *SettingsRepository) BoolValue(ctx context.Context, key string, def bool) bool {
	s, err := r.Get(ctx, key)
	if err != nil || s == nil {
		return def
	}
	return s.BoolValue(def)
}

// IntValue reads a setting as an integer, falling back to def when the key
// is absent, unreadable or not numeric.
func (r *SettingsRepository) IntValue(ctx context.Context, key string, def int) int {
	s, err := r.Get(ctx, key)
	if err != nil || s == nil {
		return def
	}
	return s.IntValue(def)
}

// ReplaceAll overwrites the settings collection wholesale. Restore uses this.
func (r *SettingsRepository) ReplaceAll(ctx context.Context, settings []models.Setting) error {
	return r.store.WithLock(constants.CollectionSettings, func() error {
		return r.save(settings)
	})
}

// Cleanup deduplicates settings by key and re-sanitizes known credential
// values, then writes the surviving records back sorted by id. For each
// duplicated key the record with the latest created_at survives; on equal
// timestamps the later-seen record wins. Returns how many records were
// removed and how many values were sanitized. Running it twice in a row is
// a no-op the second time.
func (r *SettingsRepository) Cleanup(ctx context.Context) (removed, sanitized int, err error) {
	err = r.store.WithLock(constants.CollectionSettings, func() error {
		settings, err := r.load()
		if err != nil {
			return err
		}

		survivors := make(map[string]models.Setting, len(settings))
		for _, s := range settings {
			prev, seen := survivors[s.Key]
			if !seen || !s.CreatedAt.Before(prev.CreatedAt) {
				survivors[s.Key] = s
			}
		}
		removed = len(settings) - len(survivors)

		cleaned := make([]models.Setting, 0, len(survivors))
		for _, s := range survivors {
			if sanitizedSettingKeys[s.Key] {
				value, changed := sanitizeValue(s.Value)
				if changed {
					s.Value = value
					sanitized++
				}
			}
			cleaned = append(cleaned, s)
		}
		sort.Slice(cleaned, func(i, j int) bool { return cleaned[i].ID < cleaned[j].ID })

		if removed == 0 && sanitized == 0 {
			return nil
		}
		return r.save(cleaned)
	})
	if err != nil {
		return 0, 0, err
	}
	return removed, sanitized, nil
}

// sanitizeValue blanks sensitive sub-fields of a credential-bearing setting
// value. Unlike audit masking, which substitutes a marker, sanitization
// writes empty strings so the persisted value no longer contains the secret
// at all. Reports whether anything changed.
func sanitizeValue(v any) (any, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return v, false
	}

	changed := false
	out := make(map[string]any, len(obj))
	for k, field := range obj {
		if audit.IsSensitiveField(k) {
			if s, isStr := field.(string); !isStr || s != "" {
				out[k] = ""
				changed = true
				continue
			}
		}
		if nested, isObj := field.(map[string]any); isObj {
			cleaned, nestedChanged := sanitizeValue(nested)
			out[k] = cleaned
			changed = changed || nestedChanged
			continue
		}
		out[k] = field
	}
	return out, changed
}
