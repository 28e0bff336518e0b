package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warungpos/apiserver/internal/services"
	"github.com/warungpos/apiserver/types"
)

// ShoppingHandler provides shopping-list endpoints.
type ShoppingHandler struct {
	shopping *services.ShoppingService
}

func NewShoppingHandler(shopping *services.ShoppingService) *ShoppingHandler {
	return &ShoppingHandler{shopping: shopping}
}

// ShoppingRouter registers shopping-list routes on the given router.
// Reads are open to any authenticated user; writes need admin or above.
func ShoppingRouter(r chi.Router, shopping *services.ShoppingService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewShoppingHandler(shopping)

	r.Use(authMiddleware)
	r.Get("/", handler.ListEntries)
	r.With(requireCapability(types.Role.CanManageStock)).Post("/", handler.AddEntry)
	r.With(requireCapability(types.Role.CanManageStock)).Delete("/{shoppingID}", handler.RemoveEntry)
}

func (h *ShoppingHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.shopping.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to list shopping entries")
		return
	}
	writeJSON(w, http.StatusOK, ShoppingListResponse{Entries: entries})
}

func (h *ShoppingHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	var req AddShoppingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	entry, err := h.shopping.Add(r.Context(), req.ItemName, req.Quantity, req.Price)
	if err != nil {
		writeServiceError(w, err, "failed to add shopping entry")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *ShoppingHandler) RemoveEntry(w http.ResponseWriter, r *http.Request) {
	shoppingID := chi.URLParam(r, "shoppingID")
	if err := h.shopping.Remove(r.Context(), shoppingID); err != nil {
		writeServiceError(w, err, "failed to remove shopping entry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type AddShoppingRequest struct {
	ItemName string `json:"item_shopping"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

type ShoppingListResponse struct {
	Entries []types.ShoppingEntry `json:"entries"`
}
