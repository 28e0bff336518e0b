package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/warungpos/apiserver/internal/services"
	"github.com/warungpos/apiserver/internal/store"
	"github.com/warungpos/apiserver/types"
)

// OrderHandler provides checkout and order-listing endpoints.
type OrderHandler struct {
	committer *services.Committer
}

func NewOrderHandler(committer *services.Committer) *OrderHandler {
	return &OrderHandler{committer: committer}
}

// OrdersRouter registers order routes on the given router.
func OrdersRouter(r chi.Router, committer *services.Committer, authMiddleware func(http.Handler) http.Handler) {
	handler := NewOrderHandler(committer)

	r.Use(authMiddleware)
	r.Get("/", handler.ListOrderRows)
	r.Get("/list", handler.ListOrders)
	r.Post("/", handler.CreateOrder)
}

// CreateOrder commits a whole cart as one order. Stock for every line
// is decremented before any order row is written; a failure on any
// line rolls the whole checkout back.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	order, err := h.committer.Commit(r.Context(), req.CashierName, req.Items)
	if err != nil {
		writeServiceError(w, err, "failed to create order")
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// ListOrderRows returns the raw persisted line rows.
func (h *OrderHandler) ListOrderRows(w http.ResponseWriter, r *http.Request) {
	rows, err := h.committer.ListLines(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to list orders")
		return
	}
	writeJSON(w, http.StatusOK, OrderRowsResponse{Rows: rows})
}

// ListOrders returns orders grouped by order ID, newest first. With
// ?orderId= it returns that single order's detail.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	if orderID := strings.TrimSpace(r.URL.Query().Get("orderId")); orderID != "" {
		order, err := h.committer.GetOrder(r.Context(), orderID)
		if err != nil {
			writeServiceError(w, err, "failed to fetch order")
			return
		}
		writeJSON(w, http.StatusOK, order)
		return
	}

	orders, err := h.committer.ListOrders(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to list orders")
		return
	}
	writeJSON(w, http.StatusOK, OrderListResponse{Orders: orders})
}

type CreateOrderRequest struct {
	CashierName string           `json:"cashier_name"`
	Items       []types.CartLine `json:"items"`
}

type OrderRowsResponse struct {
	Rows []store.OrderLineRow `json:"rows"`
}

type OrderListResponse struct {
	Orders []types.Order `json:"orders"`
}
