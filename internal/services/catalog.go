package services

import (
	"context"
	"strings"
	"time"

	"github.com/warungpos/apiserver/types"
)

// MasterItemRepository defines persistence operations for the catalog.
type MasterItemRepository interface {
	List(ctx context.Context) ([]types.MasterItem, error)
	GetByName(ctx context.Context, name string) (types.MasterItem, error)
	Create(ctx context.Context, item types.MasterItem) error
}

// CatalogService encapsulates master item use-cases.
type CatalogService struct {
	repo MasterItemRepository
}

func NewCatalogService(repo MasterItemRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) List(ctx context.Context) ([]types.MasterItem, error) {
	return s.repo.List(ctx)
}

func (s *CatalogService) Get(ctx context.Context, name string) (types.MasterItem, error) {
	return s.repo.GetByName(ctx, name)
}

// Create validates and persists a new master item. NetSales defaults
// to the sell price minus all cost allocations when not supplied.
func (s *CatalogService) Create(ctx context.Context, item types.MasterItem) (types.MasterItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return types.MasterItem{}, validationf("item name is required")
	}
	if item.SellPrice <= 0 {
		return types.MasterItem{}, validationf("sell price must be positive")
	}
	if item.CostPrice < 0 || item.Operational < 0 || item.Labor < 0 || item.Marketing < 0 {
		return types.MasterItem{}, validationf("cost components must not be negative")
	}

	if _, err := s.repo.GetByName(ctx, item.Name); err == nil {
		return types.MasterItem{}, validationf("item %q already exists", item.Name)
	} else if !isNotFound(err) {
		return types.MasterItem{}, err
	}

	if item.NetSales == 0 {
		item.NetSales = item.SellPrice - item.CostPrice - item.Operational - item.Labor - item.Marketing
	}
	item.CreatedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, item); err != nil {
		return types.MasterItem{}, err
	}
	return item, nil
}
