package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warungpos/apiserver/internal/mq"
	"github.com/warungpos/apiserver/types"
)

// StockRepository defines persistence operations for stock records.
type StockRepository interface {
	List(ctx context.Context) ([]types.StockRecord, error)
	GetByItem(ctx context.Context, itemName string) (types.StockRecord, error)
	Create(ctx context.Context, record types.StockRecord) error
	Update(ctx context.Context, record types.StockRecord) error
}

// EventPublisher is the slice of mq.MQ the ledger and committer use.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// Ledger owns quantity-on-hand per item. The record store offers no
// isolation, so every mutation of a given item is funneled through a
// per-item lock; two concurrent adjustments of the same item always
// observe each other's writes.
type Ledger struct {
	repo      StockRepository
	events    EventPublisher
	threshold int
	log       *logrus.Entry

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLedger constructs a Ledger. events may be nil to disable
// low-stock notifications; threshold <= 0 also disables them.
func NewLedger(repo StockRepository, events EventPublisher, lowStockThreshold int) *Ledger {
	return &Ledger{
		repo:      repo,
		events:    events,
		threshold: lowStockThreshold,
		log:       logrus.WithField("component", "ledger"),
		locks:     map[string]*sync.Mutex{},
	}
}

// List returns all stock records.
func (l *Ledger) List(ctx context.Context) ([]types.StockRecord, error) {
	return l.repo.List(ctx)
}

// Quantity returns the current quantity-on-hand for an item.
func (l *Ledger) Quantity(ctx context.Context, itemName string) (int, error) {
	record, err := l.repo.GetByItem(ctx, itemName)
	if err != nil {
		return 0, err
	}
	return record.Quantity, nil
}

// Adjust applies a relative quantity change. It fails with
// InsufficientStockError when the result would be negative and with
// store.ErrNotFound when the item has no stock record; in both cases
// the record is untouched.
func (l *Ledger) Adjust(ctx context.Context, itemName string, delta int) (types.Adjustment, error) {
	itemName = strings.TrimSpace(itemName)
	if itemName == "" {
		return types.Adjustment{}, validationf("item name is required")
	}

	lock := l.itemLock(itemName)
	lock.Lock()
	defer lock.Unlock()

	record, err := l.repo.GetByItem(ctx, itemName)
	if err != nil {
		return types.Adjustment{}, err
	}

	newQuantity := record.Quantity + delta
	if newQuantity < 0 {
		return types.Adjustment{}, &InsufficientStockError{
			ItemName:  itemName,
			Available: record.Quantity,
		}
	}

	previous := record.Quantity
	record.Quantity = newQuantity
	record.UpdatedAt = time.Now().UTC()
	if err := l.repo.Update(ctx, record); err != nil {
		return types.Adjustment{}, err
	}

	l.notifyLowStock(ctx, record)

	return types.Adjustment{
		ItemName:  itemName,
		Previous:  previous,
		New:       newQuantity,
		UpdatedAt: record.UpdatedAt,
	}, nil
}

// Set writes an absolute quantity, creating the stock record when the
// item has none yet.
func (l *Ledger) Set(ctx context.Context, itemName string, quantity int) (types.Adjustment, error) {
	itemName = strings.TrimSpace(itemName)
	if itemName == "" {
		return types.Adjustment{}, validationf("item name is required")
	}
	if quantity < 0 {
		return types.Adjustment{}, validationf("quantity must not be negative")
	}

	lock := l.itemLock(itemName)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now().UTC()

	record, err := l.repo.GetByItem(ctx, itemName)
	if isNotFound(err) {
		record = types.StockRecord{ItemName: itemName, Quantity: quantity, UpdatedAt: now}
		if err := l.repo.Create(ctx, record); err != nil {
			return types.Adjustment{}, err
		}
		l.notifyLowStock(ctx, record)
		return types.Adjustment{ItemName: itemName, Previous: 0, New: quantity, UpdatedAt: now}, nil
	}
	if err != nil {
		return types.Adjustment{}, err
	}

	previous := record.Quantity
	record.Quantity = quantity
	record.UpdatedAt = now
	if err := l.repo.Update(ctx, record); err != nil {
		return types.Adjustment{}, err
	}

	l.notifyLowStock(ctx, record)

	return types.Adjustment{ItemName: itemName, Previous: previous, New: quantity, UpdatedAt: now}, nil
}

func (l *Ledger) itemLock(itemName string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[itemName]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[itemName] = lock
	}
	return lock
}

// notifyLowStock publishes a stock.low event when the quantity is at
// or under the configured threshold. Publishing is best effort.
func (l *Ledger) notifyLowStock(ctx context.Context, record types.StockRecord) {
	if l.events == nil || l.threshold <= 0 || record.Quantity > l.threshold {
		return
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return
	}
	if _, err := l.events.Publish(ctx, mq.ChannelLowStock, payload, map[string]string{
		"item_name": record.ItemName,
	}); err != nil {
		l.log.WithError(err).WithField("item_name", record.ItemName).
			Warn("failed to publish low stock event")
	}
}
