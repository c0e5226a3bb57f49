package handlers

import (
	"net/http"

	"github.com/chen12345jin/planhub/internal/constants"
	"github.com/chen12345jin/planhub/internal/storage"
	"github.com/chen12345jin/planhub/internal/utils"
)

// CompanyHandler serves the company info singleton. Unlike the record
// collections this store holds one object, not an array.
type CompanyHandler struct {
	store *storage.FileStore
}

// NewCompanyHandler creates a new CompanyHandler.
func NewCompanyHandler(store *storage.FileStore) *CompanyHandler {
	return &CompanyHandler{store: store}
}

// Get returns the company info object, empty when never written.
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	info := map[string]any{}
	if err := h.store.ReadJSON(constants.CollectionCompanyInfo, &info); err != nil {
		utils.ErrorFromAppError(w, utils.NewStorageError(constants.CollectionCompanyInfo, err))
		return
	}

	utils.JSON(w, http.StatusOK, info)
}

// Update replaces the company info object.
func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var info map[string]any
	if err := utils.DecodeJSON(r, &info); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	if len(info) == 0 {
		utils.BadRequest(w, constants.MsgEmptyRequestBody, nil)
		return
	}

	err := h.store.WithLock(constants.CollectionCompanyInfo, func() error {
		return h.store.WriteJSON(constants.CollectionCompanyInfo, info)
	})
	if err != nil {
		utils.ErrorFromAppError(w, utils.NewStorageError(constants.CollectionCompanyInfo, err))
		return
	}

	utils.JSON(w, http.StatusOK, info)
}
