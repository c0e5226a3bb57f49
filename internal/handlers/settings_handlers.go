package handlers

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/chen12345jin/planhub/internal/constants"
	"github.com/chen12345jin/planhub/internal/repository"
	"github.com/chen12345jin/planhub/internal/utils"
)

// SettingRequest is the settings write request body.
type SettingRequest struct {
	Key   string `json:"key" validate:"required"`
	Value any    `json:"value"`
}

// Rearmer re-reads the auto-backup configuration and replaces the timer.
type Rearmer interface {
	Rearm(ctx context.Context) error
}

// SettingsHandler serves the settings store routes.
type SettingsHandler struct {
	settings *repository.SettingsRepository
	rearmer  Rearmer
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settings *repository.SettingsRepository, rearmer Rearmer) *SettingsHandler {
	return &SettingsHandler{settings: settings, rearmer: rearmer}
}

// List returns every setting record.
func (h *SettingsHandler) List(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.All(r.Context())
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, settings)
}

// Create upserts a setting by key.
func (h *SettingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SettingRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	if validationErrors := utils.ValidateStruct(&req); validationErrors != nil {
		utils.ValidationError(w, validationErrors)
		return
	}

	setting, err := h.settings.Upsert(r.Context(), req.Key, req.Value)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	h.maybeRearm(r.Context(), req.Key)
	utils.JSON(w, http.StatusCreated, setting)
}

// Update rewrites a setting record by id.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	var req SettingRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	setting, err := h.settings.UpdateByID(r.Context(), id, req.Key, req.Value)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	h.maybeRearm(r.Context(), setting.Key)
	utils.JSON(w, http.StatusOK, setting)
}

// Delete removes a setting record by id.
func (h *SettingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.settings.DeleteByID(r.Context(), id); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.NoContent(w)
}

// maybeRearm replaces the auto-backup timer after a write to its interval
// setting. Rearm failures are logged, never surfaced to the settings caller.
func (h *SettingsHandler) maybeRearm(ctx context.Context, key string) {
	if h.rearmer == nil || key != constants.SettingKeyAutoBackup {
		return
	}
	if err := h.rearmer.Rearm(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to re-arm auto-backup timer")
	}
}
