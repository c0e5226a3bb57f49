package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chen12345jin/planhub/internal/constants"
	"github.com/chen12345jin/planhub/internal/models"
	"github.com/chen12345jin/planhub/internal/repository"
	"github.com/chen12345jin/planhub/internal/storage"
	"github.com/chen12345jin/planhub/internal/utils"
)

type backupFixture struct {
	svc      *BackupService
	store    *storage.FileStore
	records  *repository.RecordRepository
	settings *repository.SettingsRepository
	audit    *repository.AuditRepository
}

func newBackupFixture(t *testing.T) *backupFixture {
	t.Helper()
	dataDir := t.TempDir()
	store, err := storage.NewFileStore(dataDir)
	require.NoError(t, err)

	records := repository.NewRecordRepository(store)
	settings := repository.NewSettingsRepository(store)
	auditRepo := repository.NewAuditRepository(store)

	svc := NewBackupService(store, records, settings, auditRepo,
		filepath.Join(dataDir, "backups"), "backup")
	t.Cleanup(svc.Stop)

	return &backupFixture{svc: svc, store: store, records: records, settings: settings, audit: auditRepo}
}

func TestCreateBackupSnapshotShape(t *testing.T) {
	f := newBackupFixture(t)
	ctx := context.Background()

	_, err := f.records.Create(ctx, constants.CollectionDepartments, models.Record{"name": "Engineering"})
	require.NoError(t, err)
	_, err = f.settings.Upsert(ctx, "theme", "dark")
	require.NoError(t, err)
	require.NoError(t, f.store.WriteJSON(constants.CollectionCompanyInfo, map[string]any{"name": "Acme"}))

	name, err := f.svc.Create(ctx)
	require.NoError(t, err)
	assert.Regexp(t, `^backup-\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}\.json$`, name)

	data, err := os.ReadFile(filepath.Join(f.store.DataDir(), "backups", name))
	require.NoError(t, err)

	var snapshot map[string]any
	require.NoError(t, json.Unmarshal(data, &snapshot))

	departments, ok := snapshot[constants.CollectionDepartments].([]any)
	require.True(t, ok)
	assert.Len(t, departments, 1)

	// Empty collections still appear as empty arrays.
	plans, ok := snapshot[constants.CollectionPlans].([]any)
	require.True(t, ok)
	assert.Empty(t, plans)

	companyInfo, ok := snapshot[constants.CollectionCompanyInfo].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Acme", companyInfo["name"])

	createdAt, ok := snapshot["created_at"].(string)
	require.True(t, ok)
	_, parseErr := time.Parse(time.RFC3339, createdAt)
	assert.NoError(t, parseErr)
}

func TestBackupRoundTrip(t *testing.T) {
	f := newBackupFixture(t)
	ctx := context.Background()

	created, err := f.records.Create(ctx, constants.CollectionDepartments, models.Record{"name": "Engineering"})
	require.NoError(t, err)

	name, err := f.svc.Create(ctx)
	require.NoError(t, err)

	// Mutate after the snapshot, then restore.
	require.NoError(t, f.records.Delete(ctx, constants.CollectionDepartments, created.ID()))

	report, err := f.svc.Restore(ctx, name)
	require.NoError(t, err)
	assert.Contains(t, report.Restored, constants.CollectionDepartments)

	records, err := f.records.List(ctx, constants.CollectionDepartments, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Engineering", records[0]["name"])
}

func TestRestoreIsPartialAndShapeChecked(t *testing.T) {
	f := newBackupFixture(t)
	ctx := context.Background()

	_, err := f.records.Create(ctx, constants.CollectionEvents, models.Record{"title": "Kickoff"})
	require.NoError(t, err)

	backupDir := filepath.Join(f.store.DataDir(), "backups")
	require.NoError(t, os.MkdirAll(backupDir, 0o755))
	snapshot := `{
		"departments": [{"id": 1, "name": "Engineering"}],
		"plans": {"not": "an array"},
		"company-info": "not an object"
	}`
	require.NoError(t, os.WriteFile(filepath.Join(backupDir, "partial.json"), []byte(snapshot), 0o644))

	report, err := f.svc.Restore(ctx, "partial.json")
	require.NoError(t, err)

	assert.Equal(t, []string{constants.CollectionDepartments}, report.Restored)
	assert.ElementsMatch(t, []string{constants.CollectionPlans, constants.CollectionCompanyInfo}, report.Skipped)

	// Collections absent from the snapshot stay untouched.
	events, err := f.records.List(ctx, constants.CollectionEvents, nil)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestRestoreRejectsUnparseableSnapshot(t *testing.T) {
	f := newBackupFixture(t)

	backupDir := filepath.Join(f.store.DataDir(), "backups")
	require.NoError(t, os.MkdirAll(backupDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(backupDir, "broken.json"), []byte("{{{"), 0o644))

	_, err := f.svc.Restore(context.Background(), "broken.json")

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestRestoreMissingSnapshotIsNotFound(t *testing.T) {
	f := newBackupFixture(t)

	_, err := f.svc.Restore(context.Background(), "ghost.json")

	assert.True(t, utils.IsNotFoundError(err))
}

func TestRestoreRejectsPathTraversal(t *testing.T) {
	f := newBackupFixture(t)

	_, err := f.svc.Restore(context.Background(), "../secrets.json")
	assert.Error(t, err)
	assert.False(t, utils.IsNotFoundError(err))
}

func TestListBackupsNewestFirstWithPaging(t *testing.T) {
	f := newBackupFixture(t)

	backupDir := filepath.Join(f.store.DataDir(), "backups")
	require.NoError(t, os.MkdirAll(backupDir, 0o755))
	names := []string{"backup-a.json", "backup-b.json", "backup-c.json"}
	base := time.Now().Add(-time.Hour)
	for i, n := range names {
		path := filepath.Join(backupDir, n)
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
		ts := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(path, ts, ts))
	}

	infos, total, err := f.svc.List(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, infos, 2)
	assert.Equal(t, "backup-c.json", infos[0].Name)
	assert.Equal(t, "backup-b.json", infos[1].Name)

	infos, _, err = f.svc.List(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "backup-a.json", infos[0].Name)
}

func TestListBackupsEmptyDirectory(t *testing.T) {
	f := newBackupFixture(t)

	infos, total, err := f.svc.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, infos)
}

func TestDeleteBackup(t *testing.T) {
	f := newBackupFixture(t)
	ctx := context.Background()

	name, err := f.svc.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, name))
	assert.True(t, utils.IsNotFoundError(f.svc.Delete(ctx, name)))
}

func TestRearmIsIdempotent(t *testing.T) {
	f := newBackupFixture(t)
	ctx := context.Background()

	_, err := f.settings.Upsert(ctx, constants.SettingKeyAutoBackup, float64(5))
	require.NoError(t, err)

	require.NoError(t, f.svc.Rearm(ctx))
	require.NoError(t, f.svc.Rearm(ctx))
	assert.Len(t, f.svc.cron.Entries(), 1)

	// Zero interval disarms.
	_, err = f.settings.Upsert(ctx, constants.SettingKeyAutoBackup, float64(0))
	require.NoError(t, err)
	require.NoError(t, f.svc.Rearm(ctx))
	assert.Empty(t, f.svc.cron.Entries())
}
