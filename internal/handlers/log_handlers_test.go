package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chen12345jin/planhub/internal/models"
	"github.com/chen12345jin/planhub/internal/repository"
	"github.com/chen12345jin/planhub/internal/storage"
)

func newLogRouter(t *testing.T) (*chi.Mux, *repository.AuditRepository) {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	auditRepo := repository.NewAuditRepository(store)
	h := NewLogHandler(auditRepo)

	router := chi.NewRouter()
	router.Get("/api/logs", h.List)
	router.Delete("/api/logs", h.Clear)
	router.Delete("/api/logs/{id}", h.Delete)
	return router, auditRepo
}

func seedLogEntries(t *testing.T, auditRepo *repository.AuditRepository, n int) {
	t.Helper()
	base := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		require.NoError(t, auditRepo.Append(context.Background(), models.AuditEntry{
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
			Username:   "admin",
			ActionType: "VIEW",
			Method:     http.MethodGet,
			Path:       "/api/plans",
		}))
	}
}

func TestLogListPaginationEnvelope(t *testing.T) {
	router, auditRepo := newLogRouter(t)
	seedLogEntries(t, auditRepo, 5)

	rec := doJSON(t, router, http.MethodGet, "/api/logs?page=2&pageSize=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Meta    struct {
			Page       int `json:"page"`
			PageSize   int `json:"pageSize"`
			Total      int `json:"total"`
			TotalPages int `json:"totalPages"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	var entries []models.AuditEntry
	require.NoError(t, json.Unmarshal(env.Data, &entries))

	assert.Len(t, entries, 2)
	assert.Equal(t, 2, env.Meta.Page)
	assert.Equal(t, 5, env.Meta.Total)
	assert.Equal(t, 3, env.Meta.TotalPages)
}

func TestLogListRejectsBadDates(t *testing.T) {
	router, _ := newLogRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/logs?startDate=01-04-2026", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/logs?endDate=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogDeleteAndClear(t *testing.T) {
	router, auditRepo := newLogRouter(t)
	seedLogEntries(t, auditRepo, 3)

	rec := doJSON(t, router, http.MethodDelete, "/api/logs/1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/logs/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/logs", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	entries, err := auditRepo.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
