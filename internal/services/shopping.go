package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/warungpos/apiserver/types"
)

// ShoppingRepository defines persistence operations for the shopping list.
type ShoppingRepository interface {
	List(ctx context.Context) ([]types.ShoppingEntry, error)
	GetByID(ctx context.Context, shoppingID string) (types.ShoppingEntry, error)
	Create(ctx context.Context, entry types.ShoppingEntry) error
	Delete(ctx context.Context, rowID string) error
}

// ShoppingService encapsulates shopping-list use-cases.
type ShoppingService struct {
	repo ShoppingRepository
}

func NewShoppingService(repo ShoppingRepository) *ShoppingService {
	return &ShoppingService{repo: repo}
}

func (s *ShoppingService) List(ctx context.Context) ([]types.ShoppingEntry, error) {
	return s.repo.List(ctx)
}

// Add validates and persists a new shopping-list entry.
func (s *ShoppingService) Add(ctx context.Context, itemName string, quantity int, price int64) (types.ShoppingEntry, error) {
	itemName = strings.TrimSpace(itemName)
	if itemName == "" {
		return types.ShoppingEntry{}, validationf("item name is required")
	}
	if quantity <= 0 {
		return types.ShoppingEntry{}, validationf("quantity must be positive")
	}
	if price <= 0 {
		return types.ShoppingEntry{}, validationf("price must be positive")
	}

	entry := types.ShoppingEntry{
		ShoppingID: "SHOP-" + strings.ToUpper(uuid.NewString()[:8]),
		Date:       time.Now().UTC(),
		ItemName:   itemName,
		Quantity:   quantity,
		Price:      price,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return types.ShoppingEntry{}, err
	}
	return entry, nil
}

// Remove deletes an entry by its shopping ID.
func (s *ShoppingService) Remove(ctx context.Context, shoppingID string) error {
	entry, err := s.repo.GetByID(ctx, shoppingID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, entry.RowID)
}
