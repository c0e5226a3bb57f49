// Package handlers implements the HTTP layer: request decoding, invoking
// repositories and services, and writing response envelopes.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chen12345jin/planhub/internal/audit"
	"github.com/chen12345jin/planhub/internal/constants"
	"github.com/chen12345jin/planhub/internal/models"
	"github.com/chen12345jin/planhub/internal/repository"
	"github.com/chen12345jin/planhub/internal/utils"
)

// GenericHandler serves the CRUD routes shared by every record collection.
type GenericHandler struct {
	records *repository.RecordRepository
}

// NewGenericHandler creates a new GenericHandler.
func NewGenericHandler(records *repository.RecordRepository) *GenericHandler {
	return &GenericHandler{records: records}
}

// resolveResource maps the resource URL parameter to a known collection.
func resolveResource(r *http.Request) (string, bool) {
	resource := chi.URLParam(r, constants.ParamResource)
	for _, known := range constants.Resources {
		if resource == known {
			return resource, true
		}
	}
	return resource, false
}

// parseID parses the id URL parameter.
func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, constants.ParamID)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, utils.NewBadRequestError("Invalid record id")
	}
	return id, nil
}

// List returns the records of a collection, filtered by any query
// parameters except the pagination controls.
func (h *GenericHandler) List(w http.ResponseWriter, r *http.Request) {
	resource, ok := resolveResource(r)
	if !ok {
		utils.NotFound(w, constants.MsgResourceNotFound)
		return
	}

	filters := make(map[string]string)
	for key, values := range r.URL.Query() {
		if key == constants.QueryParamPage || key == constants.QueryParamPageSize {
			continue
		}
		if len(values) > 0 && values[0] != "" {
			filters[key] = values[0]
		}
	}

	records, err := h.records.List(r.Context(), resource, filters)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, presentRecords(resource, records))
}

// Get returns one record by id.
func (h *GenericHandler) Get(w http.ResponseWriter, r *http.Request) {
	resource, ok := resolveResource(r)
	if !ok {
		utils.NotFound(w, constants.MsgResourceNotFound)
		return
	}
	id, err := parseID(r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	record, err := h.records.Get(r.Context(), resource, id)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, presentRecord(resource, record))
}

// Create appends a new record to a collection.
func (h *GenericHandler) Create(w http.ResponseWriter, r *http.Request) {
	resource, ok := resolveResource(r)
	if !ok {
		utils.NotFound(w, constants.MsgResourceNotFound)
		return
	}

	var body models.Record
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	if len(body) == 0 {
		utils.BadRequest(w, constants.MsgEmptyRequestBody, nil)
		return
	}

	created, err := h.records.Create(r.Context(), resource, body)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusCreated, presentRecord(resource, created))
}

// Update shallow-merges the request body into an existing record.
func (h *GenericHandler) Update(w http.ResponseWriter, r *http.Request) {
	resource, ok := resolveResource(r)
	if !ok {
		utils.NotFound(w, constants.MsgResourceNotFound)
		return
	}
	id, err := parseID(r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	var patch models.Record
	if err := utils.DecodeJSON(r, &patch); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	if len(patch) == 0 {
		utils.BadRequest(w, constants.MsgEmptyRequestBody, nil)
		return
	}

	updated, err := h.records.Update(r.Context(), resource, id, patch)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, presentRecord(resource, updated))
}

// Delete removes a record by id.
func (h *GenericHandler) Delete(w http.ResponseWriter, r *http.Request) {
	resource, ok := resolveResource(r)
	if !ok {
		utils.NotFound(w, constants.MsgResourceNotFound)
		return
	}
	id, err := parseID(r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.records.Delete(r.Context(), resource, id); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.NoContent(w)
}

// presentRecord strips credential fields from outgoing account records. The
// stored password hash and salt are never serialized to clients.
func presentRecord(resource string, record models.Record) models.Record {
	if resource != constants.CollectionUsers {
		return record
	}
	out := record.Clone()
	for key := range out {
		if audit.IsSensitiveField(key) {
			delete(out, key)
		}
	}
	return out
}

func presentRecords(resource string, records []models.Record) []models.Record {
	if resource != constants.CollectionUsers {
		return records
	}
	out := make([]models.Record, len(records))
	for i, rec := range records {
		out[i] = presentRecord(resource, rec)
	}
	return out
}
