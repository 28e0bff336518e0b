package services

import (
	"errors"
	"fmt"

	"github.com/warungpos/apiserver/internal/store"
)

// Sentinel errors surfaced by the service layer. Upstream record-store
// failures pass through wrapped in rowstore.ErrUpstream, and unknown
// records surface as store.ErrNotFound.
var (
	// ErrUnauthorized is returned when the caller's role does not
	// permit the operation.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidState is returned when a state-machine transition is
	// not permitted from the record's current status.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidCredentials is returned when login credentials do not
	// match any account.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotApproved is returned when a pending or rejected account
	// attempts to log in.
	ErrNotApproved = errors.New("account not approved")
)

// ValidationError reports malformed or missing input. Operations
// returning it have had no side effects.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// InsufficientStockError reports an adjustment that would drive an
// item's quantity negative. The record was left untouched.
type InsufficientStockError struct {
	ItemName  string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: %d available", e.ItemName, e.Available)
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
