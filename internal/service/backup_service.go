// Package service implements application-level operations above the
// repositories: backup snapshots, restore and the auto-backup timer.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/chen12345jin/planhub/internal/constants"
	"github.com/chen12345jin/planhub/internal/models"
	"github.com/chen12345jin/planhub/internal/repository"
	"github.com/chen12345jin/planhub/internal/storage"
	"github.com/chen12345jin/planhub/internal/utils"
)

// snapshotCollections are the array-shaped stores included in every
// snapshot, keyed exactly as they appear in the snapshot object.
var snapshotCollections = []string{
	constants.CollectionDepartments,
	constants.CollectionEmployees,
	constants.CollectionPlans,
	constants.CollectionEvents,
	constants.CollectionUsers,
	constants.CollectionSettings,
	constants.CollectionAuditLog,
}

// BackupService creates, lists, restores and deletes snapshot files, and
// runs the optional auto-backup timer.
type BackupService struct {
	store     *storage.FileStore
	records   *repository.RecordRepository
	settings  *repository.SettingsRepository
	auditRepo *repository.AuditRepository

	backupDir string
	prefix    string
	now       func() time.Time

	mu      sync.Mutex
	cron    *cron.Cron
	entryID cron.EntryID
	armed   bool
}

// NewBackupService creates a backup service writing snapshots into backupDir.
func NewBackupService(
	store *storage.FileStore,
	records *repository.RecordRepository,
	settings *repository.SettingsRepository,
	auditRepo *repository.AuditRepository,
	backupDir, prefix string,
) *BackupService {
	c := cron.New()
	c.Start()
	return &BackupService{
		store:     store,
		records:   records,
		settings:  settings,
		auditRepo: auditRepo,
		backupDir: backupDir,
		prefix:    prefix,
		now:       time.Now,
		cron:      c,
	}
}

// Create builds a snapshot of every collection plus the company info
// singleton, tags it with a creation timestamp and writes it to a new file.
// Returns the snapshot filename. Filenames are second-granular; a same-second
// collision overwrites, which the design accepts as practically unreachable.
func (s *BackupService) Create(ctx context.Context) (string, error) {
	snapshot := make(map[string]any, len(snapshotCollections)+2)

	for _, collection := range snapshotCollections {
		var records []json.RawMessage
		if err := s.store.ReadJSON(collection, &records); err != nil {
			return "", utils.NewStorageError(collection, err)
		}
		if records == nil {
			records = []json.RawMessage{}
		}
		snapshot[collection] = records
	}

	companyInfo := map[string]any{}
	if err := s.store.ReadJSON(constants.CollectionCompanyInfo, &companyInfo); err != nil {
		return "", utils.NewStorageError(constants.CollectionCompanyInfo, err)
	}
	snapshot[constants.CollectionCompanyInfo] = companyInfo

	now := s.now()
	snapshot["created_at"] = now.Format(time.RFC3339)

	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", utils.NewStorageError("backups", err)
	}

	name := fmt.Sprintf("%s-%s%s", s.prefix, now.Format(constants.BackupTimestampLayout), constants.CollectionFileExt)
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", utils.NewStorageError("backups", err)
	}
	if err := os.WriteFile(filepath.Join(s.backupDir, name), data, 0o644); err != nil {
		return "", utils.NewStorageError("backups", err)
	}

	log.Info().Str("backup", name).Msg("Backup created")
	return name, nil
}

// List enumerates snapshot files newest-first and applies offset and limit.
// A non-positive limit means no limit.
func (s *BackupService) List(ctx context.Context, limit, offset int) ([]models.BackupInfo, int, error) {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.BackupInfo{}, 0, nil
		}
		return nil, 0, utils.NewStorageError("backups", err)
	}

	infos := make([]models.BackupInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), constants.CollectionFileExt) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		infos = append(infos, models.BackupInfo{
			Name:       e.Name(),
			Size:       fi.Size(),
			ModifiedAt: fi.ModTime(),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ModifiedAt.After(infos[j].ModifiedAt)
	})

	total := len(infos)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []models.BackupInfo{}, total, nil
	}
	infos = infos[offset:]
	if limit > 0 && limit < len(infos) {
		infos = infos[:limit]
	}
	return infos, total, nil
}

// Restore applies a snapshot back onto the live stores. Only top-level keys
// present in the snapshot with the expected shape are applied: arrays for
// collections, an object for company info. Everything else is reported as
// skipped and left untouched, so a restore never destroys data the snapshot
// does not know about.
func (s *BackupService) Restore(ctx context.Context, name string) (*models.RestoreReport, error) {
	path, err := s.snapshotPath(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, utils.NewNotFoundError("backup", name)
		}
		return nil, utils.NewStorageError("backups", err)
	}

	var snapshot map[string]json.RawMessage
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, utils.NewSnapshotParseError(name, err)
	}

	report := &models.RestoreReport{Restored: []string{}, Skipped: []string{}}

	for _, collection := range snapshotCollections {
		raw, ok := snapshot[collection]
		if !ok {
			continue
		}
		if err := s.restoreCollection(ctx, collection, raw); err != nil {
			if utils.IsStorageError(err) {
				return nil, err
			}
			report.Skipped = append(report.Skipped, collection)
			continue
		}
		report.Restored = append(report.Restored, collection)
	}

	if raw, ok := snapshot[constants.CollectionCompanyInfo]; ok {
		var obj map[string]any
		if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
			report.Skipped = append(report.Skipped, constants.CollectionCompanyInfo)
		} else {
			if err := s.store.WriteJSON(constants.CollectionCompanyInfo, obj); err != nil {
				return nil, utils.NewStorageError(constants.CollectionCompanyInfo, err)
			}
			report.Restored = append(report.Restored, constants.CollectionCompanyInfo)
		}
	}

	log.Info().
		Str("backup", name).
		Strs("restored", report.Restored).
		Strs("skipped", report.Skipped).
		Msg("Backup restored")
	return report, nil
}

// restoreCollection applies one array-shaped snapshot key through the
// repository that owns the collection, so typed stores keep their schema.
func (s *BackupService) restoreCollection(ctx context.Context, collection string, raw json.RawMessage) error {
	switch collection {
	case constants.CollectionSettings:
		var settings []models.Setting
		if err := json.Unmarshal(raw, &settings); err != nil {
			return err
		}
		return s.settings.ReplaceAll(ctx, settings)
	case constants.CollectionAuditLog:
		var entries []models.AuditEntry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return err
		}
		return s.auditRepo.ReplaceAll(ctx, entries)
	default:
		var records []models.Record
		if err := json.Unmarshal(raw, &records); err != nil {
			return err
		}
		return s.records.ReplaceAll(ctx, collection, records)
	}
}

// Delete removes one snapshot file. A missing file reports not-found,
// distinct from any other failure.
func (s *BackupService) Delete(ctx context.Context, name string) error {
	path, err := s.snapshotPath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return utils.NewNotFoundError("backup", name)
		}
		return utils.NewStorageError("backups", err)
	}
	return nil
}

// snapshotPath validates a snapshot filename and resolves it inside the
// backup directory. Names carrying path separators are rejected.
func (s *BackupService) snapshotPath(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || !strings.HasSuffix(name, constants.CollectionFileExt) {
		return "", utils.NewBadRequestError("Invalid backup name")
	}
	return filepath.Join(s.backupDir, name), nil
}

// Rearm re-reads the auto-backup interval setting and replaces the timer.
// Any previously armed timer is removed first, so calling Rearm repeatedly
// always leaves at most one schedule. A zero or missing interval disables
// the timer.
func (s *BackupService) Rearm(ctx context.Context) error {
	minutes := s.settings.IntValue(ctx, constants.SettingKeyAutoBackup, 0)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.armed {
		s.cron.Remove(s.entryID)
		s.armed = false
	}

	if minutes <= 0 {
		log.Info().Msg("Auto-backup disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %dm", minutes), func() {
		if _, err := s.Create(context.Background()); err != nil {
			log.Error().Err(err).Msg("Auto-backup failed")
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling auto-backup: %w", err)
	}

	s.entryID = entryID
	s.armed = true
	log.Info().Int("interval_minutes", minutes).Msg("Auto-backup armed")
	return nil
}

// Stop halts the auto-backup scheduler and waits for a running job to finish.
func (s *BackupService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
