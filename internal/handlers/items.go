package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warungpos/apiserver/internal/services"
	"github.com/warungpos/apiserver/types"
)

// ItemHandler provides master item catalog endpoints.
type ItemHandler struct {
	catalog *services.CatalogService
}

func NewItemHandler(catalog *services.CatalogService) *ItemHandler {
	return &ItemHandler{catalog: catalog}
}

// ItemsRouter registers catalog routes on the given router.
func ItemsRouter(r chi.Router, catalog *services.CatalogService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewItemHandler(catalog)

	r.Use(authMiddleware)
	r.Get("/", handler.ListItems)
	r.With(requireCapability(types.Role.CanManageCatalog)).Post("/", handler.CreateItem)
}

func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to list items")
		return
	}
	writeJSON(w, http.StatusOK, ItemListResponse{Items: items})
}

func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req types.MasterItem
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	item, err := h.catalog.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "failed to create item")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

type ItemListResponse struct {
	Items []types.MasterItem `json:"items"`
}
