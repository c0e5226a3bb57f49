package handlers

import (
	"net/http"
	"time"

	"github.com/chen12345jin/planhub/internal/constants"
	"github.com/chen12345jin/planhub/internal/repository"
	"github.com/chen12345jin/planhub/internal/utils"
)

// dateLayout is the wire format of the startDate/endDate query parameters.
const dateLayout = "2006-01-02"

// LogHandler serves the audit trail query and delete routes.
type LogHandler struct {
	auditRepo *repository.AuditRepository
}

// NewLogHandler creates a new LogHandler.
func NewLogHandler(auditRepo *repository.AuditRepository) *LogHandler {
	return &LogHandler{auditRepo: auditRepo}
}

// List returns one page of audit entries matching the query filters.
func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	pagination := utils.GetPaginationParams(r)

	filter := repository.AuditFilter{
		Username:   r.URL.Query().Get(constants.QueryParamUsername),
		ActionType: r.URL.Query().Get(constants.QueryParamType),
	}

	if raw := r.URL.Query().Get(constants.QueryParamStartDate); raw != "" {
		start, err := time.Parse(dateLayout, raw)
		if err != nil {
			utils.BadRequest(w, "Invalid startDate, expected YYYY-MM-DD", nil)
			return
		}
		filter.StartDate = start
	}
	if raw := r.URL.Query().Get(constants.QueryParamEndDate); raw != "" {
		end, err := time.Parse(dateLayout, raw)
		if err != nil {
			utils.BadRequest(w, "Invalid endDate, expected YYYY-MM-DD", nil)
			return
		}
		filter.EndDate = end
	}

	entries, total, err := h.auditRepo.List(r.Context(), filter, pagination.Page, pagination.PageSize)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.Paginated(w, http.StatusOK, entries, pagination.Page, pagination.PageSize, total)
}

// Delete removes a single audit entry by id.
func (h *LogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.auditRepo.Delete(r.Context(), id); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.NoContent(w)
}

// Clear truncates the audit log.
func (h *LogHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.auditRepo.Clear(r.Context()); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.NoContent(w)
}
