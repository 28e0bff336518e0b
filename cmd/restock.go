/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/warungpos/apiserver/config"
	"github.com/warungpos/apiserver/internal/mq"
	"github.com/warungpos/apiserver/internal/services"
	"github.com/warungpos/apiserver/internal/store"
	"github.com/warungpos/apiserver/types"
)

// restockCmd represents the restock command. It consumes low-stock
// events and turns each one into a shopping-list entry so the next
// shopping run covers items that are about to run out.
var restockCmd = &cobra.Command{
	Use:   "restock",
	Short: "Consume low-stock events into the shopping list",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.LoadConfig()

		queue, closeQueue, err := restockQueue(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeQueue()

		rows, err := seedRowStore(ctx, cfg)
		if err != nil {
			return err
		}

		consumer := newRestockConsumer(
			services.NewShoppingService(store.NewShoppingRepository(rows)),
			services.NewCatalogService(store.NewMasterItemRepository(rows)),
			cfg.LowStockThreshold,
		)

		logrus.WithField("channel", mq.ChannelLowStock).Info("restock consumer started")
		return queue.Subscribe(ctx, mq.ChannelLowStock, consumer.handle)
	},
}

func init() {
	rootCmd.AddCommand(restockCmd)
}

func restockQueue(ctx context.Context, cfg config.Config) (*mq.MQ, func(), error) {
	switch cfg.MQBackend {
	case "rabbitmq":
		client, err := mq.NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, nil, err
		}
		return mq.New(client), func() { _ = client.Close() }, nil
	case "pubsub":
		client, err := mq.NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, nil, err
		}
		return mq.New(client), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("restock requires MQ_BACKEND rabbitmq or pubsub, got %q", cfg.MQBackend)
	}
}

type restockConsumer struct {
	shopping  *services.ShoppingService
	catalog   *services.CatalogService
	threshold int
	log       *logrus.Entry
}

func newRestockConsumer(shopping *services.ShoppingService, catalog *services.CatalogService, threshold int) *restockConsumer {
	if threshold <= 0 {
		threshold = 10
	}
	return &restockConsumer{
		shopping:  shopping,
		catalog:   catalog,
		threshold: threshold,
		log:       logrus.WithField("component", "restock"),
	}
}

// handle records one shopping-list entry per low-stock event. Items
// without a catalog entry are skipped because the expected purchase
// price is unknown.
func (c *restockConsumer) handle(ctx context.Context, msg mq.Message) error {
	var record types.StockRecord
	if err := json.Unmarshal(msg.Data, &record); err != nil {
		c.log.WithError(err).Warn("dropping malformed low-stock event")
		return nil
	}

	item, err := c.catalog.Get(ctx, record.ItemName)
	if err != nil {
		c.log.WithError(err).WithField("item_name", record.ItemName).
			Warn("skipping low-stock event for unknown item")
		return nil
	}
	if item.CostPrice <= 0 {
		c.log.WithField("item_name", record.ItemName).
			Warn("skipping low-stock event, no cost price on record")
		return nil
	}

	needed := c.threshold - record.Quantity
	if needed <= 0 {
		needed = 1
	}

	entry, err := c.shopping.Add(ctx, record.ItemName, needed, item.CostPrice)
	if err != nil {
		return err
	}

	c.log.WithFields(logrus.Fields{
		"shopping_id": entry.ShoppingID,
		"item_name":   entry.ItemName,
		"quantity":    entry.Quantity,
	}).Info("restock entry added")
	return nil
}
