package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/warungpos/apiserver/config"
	"github.com/warungpos/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	List(ctx context.Context) ([]types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	GetByRowID(ctx context.Context, rowID string) (types.User, error)
	Create(ctx context.Context, user types.User) error
	Update(ctx context.Context, user types.User) error
}

// UserService encapsulates registration, login, and the approval
// workflow. Accounts are created pending and become usable only after
// a superadmin approves them; approved and rejected are terminal.
type UserService struct {
	repo UserRepository
	log  *logrus.Entry
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
		log:  logrus.WithField("component", "users"),
	}
}

// List returns all users. Password hashes stay in the struct; the
// handler layer never serializes them.
func (s *UserService) List(ctx context.Context) ([]types.User, error) {
	return s.repo.List(ctx)
}

// Register creates a pending worker account.
func (s *UserService) Register(ctx context.Context, username, password, fullName string) (types.User, error) {
	username = strings.TrimSpace(username)
	fullName = strings.TrimSpace(fullName)
	if username == "" || password == "" || fullName == "" {
		return types.User{}, validationf("username, password, and full name are required")
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return types.User{}, validationf("username %q is already taken", username)
	} else if !isNotFound(err) {
		return types.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, err
	}

	user := types.User{
		UserID:       newUserID(),
		Username:     username,
		FullName:     fullName,
		Role:         types.RoleWorker,
		Status:       types.StatusPending,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return types.User{}, err
	}
	return user, nil
}

// Authenticate verifies credentials and account status.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (types.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return types.User{}, validationf("username and password are required")
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}

	if user.Status != types.StatusApproved {
		return types.User{}, ErrNotApproved
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Review applies a superadmin's approval decision to a pending user.
// Approving assigns the final role; rejecting keeps the registration
// role. The password hash is carried over untouched. Both outcomes
// are terminal.
func (s *UserService) Review(ctx context.Context, actor types.Role, rowID string, role types.Role, status types.Status) (types.User, error) {
	if !actor.CanApproveUsers() {
		return types.User{}, ErrUnauthorized
	}

	if status != types.StatusApproved && status != types.StatusRejected {
		return types.User{}, validationf("status must be approved or rejected")
	}
	if status == types.StatusApproved {
		if role != types.RoleWorker && role != types.RoleAdmin {
			return types.User{}, validationf("role must be worker or admin")
		}
	}
	if strings.TrimSpace(rowID) == "" {
		return types.User{}, validationf("row id is required")
	}

	user, err := s.repo.GetByRowID(ctx, rowID)
	if err != nil {
		return types.User{}, err
	}

	if user.Status != types.StatusPending {
		return types.User{}, ErrInvalidState
	}

	user.Status = status
	if status == types.StatusApproved {
		user.Role = role
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return types.User{}, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id": user.UserID,
		"status":  user.Status,
		"role":    user.Role,
	}).Info("user reviewed")
	return user, nil
}

// SeedSuperadmin creates the privileged account from config unless a
// user with that username already exists. Superadmin is an ordinary
// approved row in the Users table, not a code path of its own.
func (s *UserService) SeedSuperadmin(ctx context.Context, cfg config.SuperadminConfig) (types.User, error) {
	username := strings.TrimSpace(cfg.Username)
	if username == "" || cfg.Password == "" {
		return types.User{}, validationf("superadmin username and password are required")
	}

	if existing, err := s.repo.GetByUsername(ctx, username); err == nil {
		return existing, nil
	} else if !isNotFound(err) {
		return types.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, err
	}

	user := types.User{
		UserID:       newUserID(),
		Username:     username,
		FullName:     cfg.FullName,
		Role:         types.RoleSuperadmin,
		Status:       types.StatusApproved,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return types.User{}, err
	}

	s.log.WithField("username", username).Info("superadmin seeded")
	return user, nil
}

func newUserID() string {
	return "USR-" + strings.ToUpper(uuid.NewString()[:8])
}
