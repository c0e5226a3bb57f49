package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chen12345jin/planhub/internal/constants"
	"github.com/chen12345jin/planhub/internal/repository"
	"github.com/chen12345jin/planhub/internal/storage"
)

func newAuditTestRepos(t *testing.T) (*repository.AuditRepository, *repository.SettingsRepository) {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return repository.NewAuditRepository(store), repository.NewSettingsRepository(store)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuditCaptureRecordsAPIRequests(t *testing.T) {
	auditRepo, settingsRepo := newAuditTestRepos(t)
	handler := AuditCapture(auditRepo, settingsRepo, 0)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/departments",
		strings.NewReader(`{"name":"Engineering","secretKey":"abc"}`))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entries, err := auditRepo.All(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "anonymous", e.Username)
	assert.Equal(t, http.MethodPost, e.Method)
	assert.Equal(t, "/api/departments", e.Path)
	assert.Equal(t, http.StatusOK, e.Status)
	assert.Equal(t, "CREATE", e.ActionType)
	assert.Contains(t, e.Details, "created department")
	assert.Contains(t, e.Body, `"secretKey":"***"`)
	assert.Contains(t, e.Body, "Engineering")
}

func TestAuditCaptureSkipsNonAPIpaths(t *testing.T) {
	auditRepo, settingsRepo := newAuditTestRepos(t)
	handler := AuditCapture(auditRepo, settingsRepo, 0)(okHandler())

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	entries, err := auditRepo.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAuditCaptureHonorsDisableToggle(t *testing.T) {
	auditRepo, settingsRepo := newAuditTestRepos(t)
	_, err := settingsRepo.Upsert(context.Background(), constants.SettingKeyAuditLog, false)
	require.NoError(t, err)

	handler := AuditCapture(auditRepo, settingsRepo, 0)(okHandler())
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/departments", nil))

	entries, err := auditRepo.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Flipping the toggle back re-enables capture.
	_, err = settingsRepo.Upsert(context.Background(), constants.SettingKeyAuditLog, true)
	require.NoError(t, err)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/departments", nil))

	entries, err = auditRepo.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestMarkAuditedSuppressesCapture(t *testing.T) {
	auditRepo, settingsRepo := newAuditTestRepos(t)

	handler := AuditCapture(auditRepo, settingsRepo, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		MarkAudited(r)
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))

	entries, err := auditRepo.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAuditCaptureLeavesBodyReadable(t *testing.T) {
	auditRepo, settingsRepo := newAuditTestRepos(t)

	var seenBody string
	handler := AuditCapture(auditRepo, settingsRepo, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		seenBody = string(data)
	}))

	payload := `{"name":"Engineering"}`
	req := httptest.NewRequest(http.MethodPost, "/api/departments", strings.NewReader(payload))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, payload, seenBody)
}

func TestAuditCaptureRecordsErrorStatus(t *testing.T) {
	auditRepo, settingsRepo := newAuditTestRepos(t)

	handler := AuditCapture(auditRepo, settingsRepo, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/plans/99", nil))

	entries, err := auditRepo.All(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, http.StatusNotFound, entries[0].Status)
	assert.Equal(t, "DELETE", entries[0].ActionType)
}
