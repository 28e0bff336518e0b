package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warungpos/apiserver/internal/services"
	"github.com/warungpos/apiserver/types"
)

// ReportHandler provides report-generation endpoints.
type ReportHandler struct {
	reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// ReportsRouter registers report routes on the given router.
func ReportsRouter(r chi.Router, reports *services.ReportService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewReportHandler(reports)

	r.Use(authMiddleware, requireCapability(types.Role.CanManageStock))
	r.Get("/sales", handler.GenerateSales)
}

// GenerateSales renders a sales workbook and uploads it to object
// storage, returning the object key.
func (h *ReportHandler) GenerateSales(w http.ResponseWriter, r *http.Request) {
	key, err := h.reports.GenerateSales(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrReportsDisabled) {
			writeError(w, http.StatusServiceUnavailable, "report storage not configured")
			return
		}
		writeServiceError(w, err, "failed to generate report")
		return
	}
	writeJSON(w, http.StatusOK, ReportResponse{Key: key})
}

type ReportResponse struct {
	Key string `json:"key"`
}
