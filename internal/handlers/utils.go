package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/warungpos/apiserver/internal/rowstore"
	"github.com/warungpos/apiserver/internal/services"
	"github.com/warungpos/apiserver/internal/store"
	"github.com/warungpos/apiserver/types"
)

type contextKey string

const contextClaimsKey contextKey = "claims"

// ErrorResponse is a simple error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StockErrorResponse carries the detail of an insufficient-stock
// rejection so the client can render the available quantity.
type StockErrorResponse struct {
	Error     string `json:"error"`
	ItemName  string `json:"item_name"`
	Available int    `json:"available"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps the service error taxonomy onto HTTP status
// codes. Anything unrecognized is reported with the fallback message.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var validationErr *services.ValidationError
	var stockErr *services.InsufficientStockError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Reason)
	case errors.As(err, &stockErr):
		writeJSON(w, http.StatusConflict, StockErrorResponse{
			Error:     stockErr.Error(),
			ItemName:  stockErr.ItemName,
			Available: stockErr.Available,
		})
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrNotApproved):
		writeError(w, http.StatusForbidden, "account has not been approved")
	case errors.Is(err, services.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "insufficient role")
	case errors.Is(err, services.ErrInvalidState):
		writeError(w, http.StatusConflict, "operation not permitted in current state")
	case errors.Is(err, rowstore.ErrUpstream):
		writeError(w, http.StatusBadGateway, "record store unavailable")
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireCapability builds middleware that admits only sessions whose
// role passes the check. It must run after RequireAuth.
func requireCapability(check func(types.Role) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := claimsFromContext(r.Context())
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if !check(claims.UserRole()) {
				writeError(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
