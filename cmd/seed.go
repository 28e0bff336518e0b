/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warungpos/apiserver/config"
	"github.com/warungpos/apiserver/internal/rowstore"
	"github.com/warungpos/apiserver/internal/services"
	"github.com/warungpos/apiserver/internal/store"
)

// seedCmd represents the seed command.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the superadmin account if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.LoadConfig()

		rows, err := seedRowStore(ctx, cfg)
		if err != nil {
			return err
		}

		userService := services.NewUserService(store.NewUserRepository(rows))
		user, err := userService.SeedSuperadmin(ctx, cfg.Superadmin)
		if err != nil {
			return fmt.Errorf("seed superadmin failed: %w", err)
		}

		fmt.Printf("superadmin %s ready (%s)\n", user.Username, user.UserID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func seedRowStore(ctx context.Context, cfg config.Config) (rowstore.Store, error) {
	switch cfg.StoreBackend {
	case "sheets", "":
		return rowstore.NewSheetsStore(ctx, cfg.Sheets)
	case "postgres":
		return rowstore.OpenPostgres(ctx, cfg.Database)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
