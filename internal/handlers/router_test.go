package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warungpos/apiserver/config"
	"github.com/warungpos/apiserver/internal/rowstore"
	"github.com/warungpos/apiserver/internal/services"
	"github.com/warungpos/apiserver/internal/store"
	"github.com/warungpos/apiserver/types"
)

const testJWTSecret = "test-secret"

// testEnv wires the full route table over an in-memory row store, the
// same way the server does at startup.
type testEnv struct {
	router *chi.Mux
	rows   *rowstore.MemoryStore
	users  *services.UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	rows := rowstore.NewMemoryStore()
	userService := services.NewUserService(store.NewUserRepository(rows))
	ledger := services.NewLedger(store.NewStockRepository(rows), nil, 0)
	committer := services.NewCommitter(ledger, store.NewOrderRepository(rows), nil)
	catalog := services.NewCatalogService(store.NewMasterItemRepository(rows))
	shopping := services.NewShoppingService(store.NewShoppingRepository(rows))

	_, err := userService.SeedSuperadmin(context.Background(), config.SuperadminConfig{
		Username: "superadmin",
		Password: "supersecret",
		FullName: "Super Admin",
	})
	require.NoError(t, err)

	authMiddleware := RequireAuth(testJWTSecret)

	router := chi.NewRouter()
	router.Get("/healthz", Healthz)
	router.Route("/auth", func(r chi.Router) {
		AuthRouter(r, userService, testJWTSecret)
	})
	router.Route("/users", func(r chi.Router) {
		UsersRouter(r, userService, authMiddleware)
	})
	router.Route("/stock", func(r chi.Router) {
		StockRouter(r, ledger, authMiddleware)
	})
	router.Route("/orders", func(r chi.Router) {
		OrdersRouter(r, committer, authMiddleware)
	})
	router.Route("/items", func(r chi.Router) {
		ItemsRouter(r, catalog, authMiddleware)
	})
	router.Route("/shopping-list", func(r chi.Router) {
		ShoppingRouter(r, shopping, authMiddleware)
	})

	return &testEnv{router: router, rows: rows, users: userService}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/auth/login", "", LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, rec.Code, "login %s: %s", username, rec.Body.String())
	return decodeBody[AuthResponse](t, rec).Token
}

// registerApproved runs the full registration and approval flow and
// returns a session token for the new account.
func (e *testEnv) registerApproved(t *testing.T, username string, role types.Role) string {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/auth/register", "", RegisterRequest{
		Username: username,
		Password: "secret123",
		FullName: "Test Person",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	registered := decodeBody[RegisterResponse](t, rec)

	pending, err := e.users.List(context.Background())
	require.NoError(t, err)
	rowID := ""
	for _, user := range pending {
		if user.Username == username {
			rowID = user.RowID
		}
	}
	require.NotEmpty(t, rowID)

	superToken := e.login(t, "superadmin", "supersecret")
	rec = e.do(t, http.MethodPost, "/users/approve", superToken, ApproveRequest{
		UserID: registered.User.UserID,
		RowID:  rowID,
		Role:   string(role),
		Status: string(types.StatusApproved),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	return e.login(t, username, "secret123")
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegistrationAndApprovalFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/register", "", RegisterRequest{
		Username: "budi",
		Password: "secret123",
		FullName: "Budi Santoso",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Pending accounts are locked out until a superadmin approves.
	rec = env.do(t, http.MethodPost, "/auth/login", "", LoginRequest{Username: "budi", Password: "secret123"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	token := env.registerApproved(t, "sari", types.RoleWorker)

	rec = env.do(t, http.MethodGet, "/auth/check", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	check := decodeBody[CheckResponse](t, rec)
	assert.True(t, check.Authenticated)
	assert.Equal(t, "sari", check.User.Username)
	assert.Equal(t, string(types.RoleWorker), check.User.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/login", "", LoginRequest{Username: "superadmin", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/auth/login", "", LoginRequest{Username: "ghost", Password: "whatever"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/stock", "/orders", "/items", "/shopping-list", "/users"} {
		rec := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "GET %s", path)
	}

	rec := env.do(t, http.MethodGet, "/stock", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserRoutesNeedSuperadmin(t *testing.T) {
	env := newTestEnv(t)
	workerToken := env.registerApproved(t, "budi", types.RoleWorker)
	adminToken := env.registerApproved(t, "sari", types.RoleAdmin)

	for _, token := range []string{workerToken, adminToken} {
		rec := env.do(t, http.MethodGet, "/users", token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	}

	superToken := env.login(t, "superadmin", "supersecret")
	rec := env.do(t, http.MethodGet, "/users", superToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decodeBody[UserListResponse](t, rec)
	assert.Len(t, users.Users, 3)
}

func TestStockRoleEnforcement(t *testing.T) {
	env := newTestEnv(t)
	workerToken := env.registerApproved(t, "budi", types.RoleWorker)
	adminToken := env.registerApproved(t, "sari", types.RoleAdmin)

	// Workers may read but not write stock.
	rec := env.do(t, http.MethodPut, "/stock", workerToken, SetStockRequest{ItemName: "Kopi Susu", Quantity: 12})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPut, "/stock", adminToken, SetStockRequest{ItemName: "Kopi Susu", Quantity: 12})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/stock", workerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stocks := decodeBody[StockListResponse](t, rec)
	require.Len(t, stocks.Stocks, 1)
	assert.Equal(t, 12, stocks.Stocks[0].Quantity)

	rec = env.do(t, http.MethodPost, "/stock/adjust", adminToken, AdjustStockRequest{ItemName: "Kopi Susu", Delta: -2})
	require.Equal(t, http.StatusOK, rec.Code)
	adjustment := decodeBody[types.Adjustment](t, rec)
	assert.Equal(t, 10, adjustment.New)
}

func TestCheckoutOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.registerApproved(t, "sari", types.RoleAdmin)
	workerToken := env.registerApproved(t, "budi", types.RoleWorker)

	rec := env.do(t, http.MethodPut, "/stock", adminToken, SetStockRequest{ItemName: "Kopi Susu", Quantity: 12})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/orders", workerToken, CreateOrderRequest{
		CashierName: "Budi",
		Items: []types.CartLine{
			{ItemName: "Kopi Susu", Quantity: 5, UnitAmount: 15000},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decodeBody[types.Order](t, rec)
	assert.Equal(t, int64(75000), order.TotalAmount)

	rec = env.do(t, http.MethodGet, "/stock", workerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stocks := decodeBody[StockListResponse](t, rec)
	require.Len(t, stocks.Stocks, 1)
	assert.Equal(t, 7, stocks.Stocks[0].Quantity)

	rec = env.do(t, http.MethodGet, "/orders/list", workerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decodeBody[OrderListResponse](t, rec)
	require.Len(t, orders.Orders, 1)
	assert.Equal(t, order.OrderID, orders.Orders[0].OrderID)

	rec = env.do(t, http.MethodGet, "/orders/list?orderId="+order.OrderID, workerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decodeBody[types.Order](t, rec)
	assert.Equal(t, order.TotalAmount, detail.TotalAmount)
}

func TestCheckoutInsufficientStockOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.registerApproved(t, "sari", types.RoleAdmin)

	rec := env.do(t, http.MethodPut, "/stock", adminToken, SetStockRequest{ItemName: "Teh", Quantity: 3})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/orders", adminToken, CreateOrderRequest{
		CashierName: "Sari",
		Items: []types.CartLine{
			{ItemName: "Teh", Quantity: 5, UnitAmount: 5000},
		},
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	stockErr := decodeBody[StockErrorResponse](t, rec)
	assert.Equal(t, "Teh", stockErr.ItemName)
	assert.Equal(t, 3, stockErr.Available)

	rec = env.do(t, http.MethodGet, "/stock", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stocks := decodeBody[StockListResponse](t, rec)
	require.Len(t, stocks.Stocks, 1)
	assert.Equal(t, 3, stocks.Stocks[0].Quantity)
}

func TestItemsEndpoints(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.registerApproved(t, "sari", types.RoleAdmin)
	workerToken := env.registerApproved(t, "budi", types.RoleWorker)

	rec := env.do(t, http.MethodPost, "/items", workerToken, types.MasterItem{Name: "Kopi Susu", SellPrice: 15000})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/items", adminToken, types.MasterItem{
		Name:      "Kopi Susu",
		CostPrice: 6000,
		SellPrice: 15000,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/items", workerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeBody[ItemListResponse](t, rec)
	require.Len(t, items.Items, 1)
	assert.Equal(t, "Kopi Susu", items.Items[0].Name)
}

func TestShoppingListEndpoints(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.registerApproved(t, "sari", types.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/shopping-list", adminToken, AddShoppingRequest{
		ItemName: "Gula Pasir",
		Quantity: 2,
		Price:    28000,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	entry := decodeBody[types.ShoppingEntry](t, rec)

	rec = env.do(t, http.MethodGet, "/shopping-list", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[ShoppingListResponse](t, rec)
	require.Len(t, list.Entries, 1)

	rec = env.do(t, http.MethodDelete, "/shopping-list/"+entry.ShoppingID, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, "/shopping-list/SHOP-MISSING1", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
