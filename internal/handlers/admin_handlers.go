package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chen12345jin/planhub/internal/constants"
	"github.com/chen12345jin/planhub/internal/models"
	"github.com/chen12345jin/planhub/internal/repository"
	"github.com/chen12345jin/planhub/internal/service"
	"github.com/chen12345jin/planhub/internal/utils"
)

// RestoreRequest names the snapshot to restore.
type RestoreRequest struct {
	Name string `json:"name" validate:"required"`
}

// AdminHandler serves the administrative routes: backups, data cleanup and
// store statistics.
type AdminHandler struct {
	backups   *service.BackupService
	records   *repository.RecordRepository
	settings  *repository.SettingsRepository
	auditRepo *repository.AuditRepository
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	backups *service.BackupService,
	records *repository.RecordRepository,
	settings *repository.SettingsRepository,
	auditRepo *repository.AuditRepository,
) *AdminHandler {
	return &AdminHandler{
		backups:   backups,
		records:   records,
		settings:  settings,
		auditRepo: auditRepo,
	}
}

// CleanupData runs the settings dedup/sanitize pass and retroactively
// re-masks historical audit bodies, reporting what changed.
func (h *AdminHandler) CleanupData(w http.ResponseWriter, r *http.Request) {
	removed, sanitized, err := h.settings.Cleanup(r.Context())
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	masked, err := h.auditRepo.MaskHistoricalBodies(r.Context())
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, models.CleanupReport{
		SettingsRemoved:   removed,
		SettingsSanitized: sanitized,
		AuditBodiesMasked: masked,
	})
}

// CreateBackup writes a new snapshot and returns its filename.
func (h *AdminHandler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	name, err := h.backups.Create(r.Context())
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]any{"name": name})
}

// ListBackups enumerates snapshots newest-first with limit/offset paging.
func (h *AdminHandler) ListBackups(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, constants.QueryParamLimit, 0)
	offset := queryInt(r, constants.QueryParamOffset, 0)

	items, total, err := h.backups.List(r.Context(), limit, offset)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": total,
	})
}

// RestoreBackup applies a named snapshot onto the live stores.
func (h *AdminHandler) RestoreBackup(w http.ResponseWriter, r *http.Request) {
	var req RestoreRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	if validationErrors := utils.ValidateStruct(&req); validationErrors != nil {
		utils.ValidationError(w, validationErrors)
		return
	}

	report, err := h.backups.Restore(r.Context(), req.Name)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, report)
}

// DeleteBackup removes one snapshot file.
func (h *AdminHandler) DeleteBackup(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, constants.ParamName)

	if err := h.backups.Delete(r.Context(), name); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.NoContent(w)
}

// Stats reports record counts per collection plus audit and settings sizes.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	counts := make(map[string]int, len(constants.Resources))
	for _, resource := range constants.Resources {
		records, err := h.records.List(r.Context(), resource, nil)
		if err != nil {
			utils.ErrorFromAppError(w, utils.ParseError(err))
			return
		}
		counts[resource] = len(records)
	}

	settings, err := h.settings.All(r.Context())
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	entries, err := h.auditRepo.All(r.Context())
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	_, backupTotal, err := h.backups.List(r.Context(), 0, 0)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{
		"collections": counts,
		"settings":    len(settings),
		"audit_log":   len(entries),
		"backups":     backupTotal,
	})
}

// queryInt parses an integer query parameter, falling back to def.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
