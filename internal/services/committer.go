package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/warungpos/apiserver/internal/mq"
	"github.com/warungpos/apiserver/internal/store"
	"github.com/warungpos/apiserver/types"
)

// OrderRepository defines persistence operations for order lines.
type OrderRepository interface {
	ListLines(ctx context.Context) ([]store.OrderLineRow, error)
	AppendLine(ctx context.Context, line store.OrderLineRow) error
	DeleteByOrderID(ctx context.Context, orderID string) error
}

// Committer turns a cart into a durable Order plus matching inventory
// decrements. The record store has no transactions, so the commit is
// made logically atomic by compensation: any failure after the first
// decrement re-applies the quantities already taken, in reverse order,
// before the error is returned.
type Committer struct {
	ledger *Ledger
	orders OrderRepository
	events EventPublisher
	log    *logrus.Entry
}

// NewCommitter constructs a Committer. events may be nil to disable
// order-created notifications.
func NewCommitter(ledger *Ledger, orders OrderRepository, events EventPublisher) *Committer {
	return &Committer{
		ledger: ledger,
		orders: orders,
		events: events,
		log:    logrus.WithField("component", "committer"),
	}
}

// Commit validates the cart, decrements stock line by line, and
// persists one order row per line. Validation failures have no side
// effects. Any later failure leaves inventory exactly as it was before
// the call and no order rows behind.
func (c *Committer) Commit(ctx context.Context, cashierName string, lines []types.CartLine) (types.Order, error) {
	cashierName = strings.TrimSpace(cashierName)
	if err := validateCart(cashierName, lines); err != nil {
		return types.Order{}, err
	}

	for i, line := range lines {
		if _, err := c.ledger.Adjust(ctx, line.ItemName, -line.Quantity); err != nil {
			c.compensate(ctx, lines[:i])
			return types.Order{}, err
		}
	}

	orderID := newOrderID()
	createdAt := time.Now().UTC()

	order := types.Order{
		OrderID:     orderID,
		CreatedAt:   createdAt,
		CashierName: cashierName,
		Lines:       make([]types.OrderLine, 0, len(lines)),
	}

	for i, line := range lines {
		amount := int64(line.Quantity) * line.UnitAmount
		err := c.orders.AppendLine(ctx, store.OrderLineRow{
			OrderID:     orderID,
			CreatedAt:   createdAt,
			ItemName:    line.ItemName,
			Quantity:    line.Quantity,
			LineAmount:  amount,
			CashierName: cashierName,
		})
		if err != nil {
			c.rollbackAppends(ctx, orderID, i)
			c.compensate(ctx, lines)
			return types.Order{}, fmt.Errorf("persist order %s: %w", orderID, err)
		}

		order.Lines = append(order.Lines, types.OrderLine{
			ItemName:   line.ItemName,
			Quantity:   line.Quantity,
			LineAmount: amount,
		})
		order.TotalItems += line.Quantity
		order.TotalAmount += amount
	}

	c.notifyCreated(ctx, order)
	return order, nil
}

// ListOrders returns every order, reassembled from its line rows and
// sorted newest first.
func (c *Committer) ListOrders(ctx context.Context) ([]types.Order, error) {
	rows, err := c.orders.ListLines(ctx)
	if err != nil {
		return nil, err
	}

	grouped := map[string]*types.Order{}
	ordered := make([]*types.Order, 0)
	for _, row := range rows {
		order, ok := grouped[row.OrderID]
		if !ok {
			order = &types.Order{
				OrderID:     row.OrderID,
				CreatedAt:   row.CreatedAt,
				CashierName: row.CashierName,
			}
			grouped[row.OrderID] = order
			ordered = append(ordered, order)
		}
		order.Lines = append(order.Lines, types.OrderLine{
			ItemName:   row.ItemName,
			Quantity:   row.Quantity,
			LineAmount: row.LineAmount,
		})
		order.TotalItems += row.Quantity
		order.TotalAmount += row.LineAmount
	}

	orders := make([]types.Order, len(ordered))
	for i, order := range ordered {
		orders[i] = *order
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

// GetOrder returns one order by ID.
func (c *Committer) GetOrder(ctx context.Context, orderID string) (types.Order, error) {
	orders, err := c.ListOrders(ctx)
	if err != nil {
		return types.Order{}, err
	}
	for _, order := range orders {
		if order.OrderID == orderID {
			return order, nil
		}
	}
	return types.Order{}, store.ErrNotFound
}

// ListLines exposes the raw persisted rows.
func (c *Committer) ListLines(ctx context.Context) ([]store.OrderLineRow, error) {
	return c.orders.ListLines(ctx)
}

func validateCart(cashierName string, lines []types.CartLine) error {
	if cashierName == "" {
		return validationf("cashier name is required")
	}
	if len(lines) == 0 {
		return validationf("cart is empty")
	}

	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		name := strings.TrimSpace(line.ItemName)
		if name == "" {
			return validationf("item name is required")
		}
		if line.Quantity <= 0 {
			return validationf("quantity for %q must be positive", name)
		}
		if line.UnitAmount < 0 {
			return validationf("unit amount for %q must not be negative", name)
		}
		if seen[name] {
			return validationf("duplicate item %q in cart", name)
		}
		seen[name] = true
	}
	return nil
}

// compensate restores quantities for lines whose decrement already
// succeeded, newest first. Failures are logged and skipped so every
// remaining line still gets its restore attempt.
func (c *Committer) compensate(ctx context.Context, decremented []types.CartLine) {
	for i := len(decremented) - 1; i >= 0; i-- {
		line := decremented[i]
		if _, err := c.ledger.Adjust(ctx, line.ItemName, line.Quantity); err != nil {
			c.log.WithError(err).WithFields(logrus.Fields{
				"item_name": line.ItemName,
				"quantity":  line.Quantity,
			}).Error("compensation failed, stock may need manual correction")
		}
	}
}

func (c *Committer) rollbackAppends(ctx context.Context, orderID string, appended int) {
	if appended == 0 {
		return
	}
	if err := c.orders.DeleteByOrderID(ctx, orderID); err != nil {
		c.log.WithError(err).WithField("order_id", orderID).
			Error("failed to remove partially persisted order rows")
	}
}

func (c *Committer) notifyCreated(ctx context.Context, order types.Order) {
	if c.events == nil {
		return
	}

	payload, err := json.Marshal(order)
	if err != nil {
		return
	}
	if _, err := c.events.Publish(ctx, mq.ChannelOrderCreated, payload, map[string]string{
		"order_id": order.OrderID,
	}); err != nil {
		c.log.WithError(err).WithField("order_id", order.OrderID).
			Warn("failed to publish order created event")
	}
}

func sortOrdersNewestFirst(orders []types.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

func newOrderID() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}
