package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warungpos/apiserver/internal/services"
	"github.com/warungpos/apiserver/types"
)

// UserHandler provides the superadmin user-management endpoints.
type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UsersRouter registers user routes on the given router.
func UsersRouter(r chi.Router, userService *services.UserService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewUserHandler(userService)

	r.Use(authMiddleware, requireCapability(types.Role.CanApproveUsers))
	r.Get("/", handler.ListUsers)
	r.Post("/approve", handler.Approve)
}

// ListUsers returns every account, including pending registrations.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, UserListResponse{Users: users})
}

// Approve applies an approval decision to a pending user.
func (h *UserHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	claims, err := claimsFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	role, _ := types.ParseRole(req.Role)
	status, ok := types.ParseStatus(req.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	user, err := h.userService.Review(r.Context(), claims.UserRole(), req.RowID, role, status)
	if err != nil {
		writeServiceError(w, err, "failed to process approval")
		return
	}

	writeJSON(w, http.StatusOK, ApproveResponse{User: user})
}

type ApproveRequest struct {
	UserID string `json:"user_id"`
	RowID  string `json:"row_id"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

type ApproveResponse struct {
	User types.User `json:"user"`
}

type UserListResponse struct {
	Users []types.User `json:"users"`
}
