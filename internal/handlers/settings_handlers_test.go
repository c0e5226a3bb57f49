package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chen12345jin/planhub/internal/constants"
	"github.com/chen12345jin/planhub/internal/models"
	"github.com/chen12345jin/planhub/internal/repository"
	"github.com/chen12345jin/planhub/internal/storage"
)

type fakeRearmer struct {
	calls int
}

func (f *fakeRearmer) Rearm(ctx context.Context) error {
	f.calls++
	return nil
}

func newSettingsRouter(t *testing.T) (*chi.Mux, *repository.SettingsRepository, *fakeRearmer) {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	settings := repository.NewSettingsRepository(store)
	rearmer := &fakeRearmer{}
	h := NewSettingsHandler(settings, rearmer)

	router := chi.NewRouter()
	router.Get("/api/system-settings", h.List)
	router.Post("/api/system-settings", h.Create)
	router.Put("/api/system-settings/{id}", h.Update)
	router.Delete("/api/system-settings/{id}", h.Delete)
	return router, settings, rearmer
}

func TestSettingsUpsertByKey(t *testing.T) {
	router, settings, _ := newSettingsRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/system-settings", map[string]any{
		"key": "ui.theme", "value": "dark",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Setting
	decodeData(t, rec, &created)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "ui.theme", created.Key)

	// A second write to the same key updates the record instead of
	// appending a duplicate.
	rec = doJSON(t, router, http.MethodPost, "/api/system-settings", map[string]any{
		"key": "ui.theme", "value": "light",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	all, err := settings.All(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "light", all[0].Value)
}

func TestSettingsCreateRequiresKey(t *testing.T) {
	router, _, _ := newSettingsRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/system-settings", map[string]any{
		"value": "dark",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettingsUpdateAndDeleteByID(t *testing.T) {
	router, settings, _ := newSettingsRouter(t)

	created, err := settings.Upsert(context.Background(), "ui.theme", "dark")
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPut, "/api/system-settings/1", map[string]any{
		"key": "ui.theme", "value": "light",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Setting
	decodeData(t, rec, &updated)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "light", updated.Value)

	rec = doJSON(t, router, http.MethodDelete, "/api/system-settings/1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/system-settings/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSettingsWriteRearmsAutoBackup(t *testing.T) {
	router, _, rearmer := newSettingsRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/system-settings", map[string]any{
		"key": constants.SettingKeyAutoBackup, "value": 30,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, rearmer.calls)

	// Writes to unrelated keys leave the timer alone.
	rec = doJSON(t, router, http.MethodPost, "/api/system-settings", map[string]any{
		"key": "ui.theme", "value": "dark",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, rearmer.calls)

	// Rewriting the interval record by id re-arms as well.
	rec = doJSON(t, router, http.MethodPut, "/api/system-settings/1", map[string]any{
		"key": constants.SettingKeyAutoBackup, "value": 0,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, rearmer.calls)
}
