package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warungpos/apiserver/config"
	"github.com/warungpos/apiserver/internal/rowstore"
	"github.com/warungpos/apiserver/internal/store"
	"github.com/warungpos/apiserver/types"
)

func newTestUserService(t *testing.T) *UserService {
	t.Helper()
	return NewUserService(store.NewUserRepository(rowstore.NewMemoryStore()))
}

func registerPending(t *testing.T, users *UserService, username string) types.User {
	t.Helper()
	user, err := users.Register(context.Background(), username, "secret123", "Test Person")
	require.NoError(t, err)
	pending, err := users.repo.GetByUsername(context.Background(), username)
	require.NoError(t, err)
	user.RowID = pending.RowID
	return user
}

func TestRegisterCreatesPendingWorker(t *testing.T) {
	ctx := context.Background()
	users := newTestUserService(t)

	user, err := users.Register(ctx, "budi", "secret123", "Budi Santoso")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(user.UserID, "USR-"))
	assert.Equal(t, types.RoleWorker, user.Role)
	assert.Equal(t, types.StatusPending, user.Status)
	assert.NotEqual(t, "secret123", user.PasswordHash)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	users := newTestUserService(t)

	_, err := users.Register(ctx, "budi", "secret123", "Budi Santoso")
	require.NoError(t, err)

	_, err = users.Register(ctx, "budi", "other456", "Someone Else")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	users := newTestUserService(t)
	pending := registerPending(t, users, "budi")

	// Pending accounts cannot log in even with the right password.
	_, err := users.Authenticate(ctx, "budi", "secret123")
	assert.ErrorIs(t, err, ErrNotApproved)

	_, err = users.Review(ctx, types.RoleSuperadmin, pending.RowID, types.RoleWorker, types.StatusApproved)
	require.NoError(t, err)

	user, err := users.Authenticate(ctx, "budi", "secret123")
	require.NoError(t, err)
	assert.Equal(t, types.StatusApproved, user.Status)

	_, err = users.Authenticate(ctx, "budi", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = users.Authenticate(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateRejectedUser(t *testing.T) {
	ctx := context.Background()
	users := newTestUserService(t)
	pending := registerPending(t, users, "budi")

	_, err := users.Review(ctx, types.RoleSuperadmin, pending.RowID, types.RoleWorker, types.StatusRejected)
	require.NoError(t, err)

	_, err = users.Authenticate(ctx, "budi", "secret123")
	assert.ErrorIs(t, err, ErrNotApproved)
}

func TestReviewRequiresSuperadmin(t *testing.T) {
	ctx := context.Background()
	users := newTestUserService(t)
	pending := registerPending(t, users, "budi")

	for _, actor := range []types.Role{types.RoleWorker, types.RoleAdmin} {
		_, err := users.Review(ctx, actor, pending.RowID, types.RoleWorker, types.StatusApproved)
		assert.ErrorIs(t, err, ErrUnauthorized, "actor %s", actor)
	}
}

func TestReviewAssignsRoleOnApproval(t *testing.T) {
	ctx := context.Background()
	users := newTestUserService(t)
	pending := registerPending(t, users, "budi")

	user, err := users.Review(ctx, types.RoleSuperadmin, pending.RowID, types.RoleAdmin, types.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, types.RoleAdmin, user.Role)
	assert.Equal(t, types.StatusApproved, user.Status)

	// The stored hash must survive the update so login still works.
	_, err = users.Authenticate(ctx, "budi", "secret123")
	require.NoError(t, err)
}

func TestReviewDecisionIsTerminal(t *testing.T) {
	ctx := context.Background()
	users := newTestUserService(t)
	pending := registerPending(t, users, "budi")

	_, err := users.Review(ctx, types.RoleSuperadmin, pending.RowID, types.RoleWorker, types.StatusApproved)
	require.NoError(t, err)

	_, err = users.Review(ctx, types.RoleSuperadmin, pending.RowID, types.RoleWorker, types.StatusRejected)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestReviewValidation(t *testing.T) {
	ctx := context.Background()
	users := newTestUserService(t)
	pending := registerPending(t, users, "budi")

	var verr *ValidationError

	_, err := users.Review(ctx, types.RoleSuperadmin, pending.RowID, types.RoleWorker, types.StatusPending)
	require.ErrorAs(t, err, &verr)

	_, err = users.Review(ctx, types.RoleSuperadmin, pending.RowID, types.RoleSuperadmin, types.StatusApproved)
	require.ErrorAs(t, err, &verr)

	_, err = users.Review(ctx, types.RoleSuperadmin, "", types.RoleWorker, types.StatusApproved)
	require.ErrorAs(t, err, &verr)

	_, err = users.Review(ctx, types.RoleSuperadmin, "999", types.RoleWorker, types.StatusApproved)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSeedSuperadmin(t *testing.T) {
	ctx := context.Background()
	users := newTestUserService(t)
	cfg := config.SuperadminConfig{
		Username: "superadmin",
		Password: "supersecret",
		FullName: "Super Admin",
	}

	user, err := users.SeedSuperadmin(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, types.RoleSuperadmin, user.Role)
	assert.Equal(t, types.StatusApproved, user.Status)

	// Seeding again returns the existing account untouched.
	again, err := users.SeedSuperadmin(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, again.UserID)

	all, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	authed, err := users.Authenticate(ctx, "superadmin", "supersecret")
	require.NoError(t, err)
	assert.True(t, authed.Role.CanApproveUsers())
}
