package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warungpos/apiserver/internal/services"
	"github.com/warungpos/apiserver/types"
)

// StockHandler provides inventory endpoints.
type StockHandler struct {
	ledger *services.Ledger
}

func NewStockHandler(ledger *services.Ledger) *StockHandler {
	return &StockHandler{ledger: ledger}
}

// StockRouter registers stock routes on the given router. Reads are
// open to any authenticated user; writes need admin or above.
func StockRouter(r chi.Router, ledger *services.Ledger, authMiddleware func(http.Handler) http.Handler) {
	handler := NewStockHandler(ledger)

	r.Use(authMiddleware)
	r.Get("/", handler.ListStock)
	r.With(requireCapability(types.Role.CanManageStock)).Put("/", handler.SetStock)
	r.With(requireCapability(types.Role.CanManageStock)).Post("/adjust", handler.AdjustStock)
}

func (h *StockHandler) ListStock(w http.ResponseWriter, r *http.Request) {
	records, err := h.ledger.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to list stock")
		return
	}
	writeJSON(w, http.StatusOK, StockListResponse{Stocks: records})
}

// SetStock writes an absolute quantity for an item.
func (h *StockHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	var req SetStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	adjustment, err := h.ledger.Set(r.Context(), req.ItemName, req.Quantity)
	if err != nil {
		writeServiceError(w, err, "failed to update stock")
		return
	}
	writeJSON(w, http.StatusOK, adjustment)
}

// AdjustStock applies a relative quantity change for an item.
func (h *StockHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var req AdjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	adjustment, err := h.ledger.Adjust(r.Context(), req.ItemName, req.Delta)
	if err != nil {
		writeServiceError(w, err, "failed to adjust stock")
		return
	}
	writeJSON(w, http.StatusOK, adjustment)
}

type SetStockRequest struct {
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
}

type AdjustStockRequest struct {
	ItemName string `json:"item_name"`
	Delta    int    `json:"delta"`
}

type StockListResponse struct {
	Stocks []types.StockRecord `json:"stocks"`
}
