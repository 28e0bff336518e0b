package store

import (
	"context"

	"github.com/warungpos/apiserver/internal/rowstore"
	"github.com/warungpos/apiserver/types"
)

// Users sheet columns. The password column has always held the bcrypt
// hash despite its name.
const (
	colUserID       = "user_id"
	colUsername     = "username"
	colUserPassword = "password"
	colUserFullName = "full_name"
	colUserRole     = "role"
	colUserStatus   = "status"
	colUserCreated  = "created_at"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	rows rowstore.Store
}

func NewUserRepository(rows rowstore.Store) *UserRepository {
	return &UserRepository{rows: rows}
}

func (r *UserRepository) List(ctx context.Context) ([]types.User, error) {
	rows, err := r.rows.ListRows(ctx, TableUsers)
	if err != nil {
		return nil, err
	}

	users := make([]types.User, 0, len(rows))
	for _, row := range rows {
		if row.Fields[colUsername] == "" {
			continue
		}
		users = append(users, userFromRow(row))
	}
	return users, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	rows, err := r.rows.ListRows(ctx, TableUsers)
	if err != nil {
		return types.User{}, err
	}

	for _, row := range rows {
		if row.Fields[colUsername] == username {
			return userFromRow(row), nil
		}
	}
	return types.User{}, ErrNotFound
}

func (r *UserRepository) GetByRowID(ctx context.Context, rowID string) (types.User, error) {
	rows, err := r.rows.ListRows(ctx, TableUsers)
	if err != nil {
		return types.User{}, err
	}

	for _, row := range rows {
		if row.ID == rowID {
			return userFromRow(row), nil
		}
	}
	return types.User{}, ErrNotFound
}

func (r *UserRepository) Create(ctx context.Context, user types.User) error {
	return r.rows.AppendRow(ctx, TableUsers, userToFields(user))
}

// Update replaces the full user row identified by user.RowID.
func (r *UserRepository) Update(ctx context.Context, user types.User) error {
	if user.RowID == "" {
		return ErrNotFound
	}
	return r.rows.UpdateRow(ctx, TableUsers, user.RowID, userToFields(user))
}

func userFromRow(row rowstore.Row) types.User {
	role, _ := types.ParseRole(row.Fields[colUserRole])
	status, _ := types.ParseStatus(row.Fields[colUserStatus])
	return types.User{
		UserID:       row.Fields[colUserID],
		Username:     row.Fields[colUsername],
		PasswordHash: row.Fields[colUserPassword],
		FullName:     row.Fields[colUserFullName],
		Role:         role,
		Status:       status,
		CreatedAt:    fieldTime(row.Fields, colUserCreated),
		RowID:        row.ID,
	}
}

func userToFields(user types.User) map[string]string {
	return map[string]string{
		colUserID:       user.UserID,
		colUsername:     user.Username,
		colUserPassword: user.PasswordHash,
		colUserFullName: user.FullName,
		colUserRole:     string(user.Role),
		colUserStatus:   string(user.Status),
		colUserCreated:  formatTime(user.CreatedAt),
	}
}
