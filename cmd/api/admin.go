package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"apparel-catalog/internal/auth"
	"apparel-catalog/internal/models"
	"apparel-catalog/internal/repository"
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Register an admin account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if name == "" || email == "" || password == "" {
			return errors.New("--name, --email and --password are required")
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		admins := repository.NewCredentialRepository(models.Admins, a.store, auth.NewPasswordHasher(a.cfg.BcryptCost))
		cred, err := admins.Register(cmd.Context(), name, email, password)
		if err != nil {
			return err
		}
		a.log.Info("admin created", zap.String("id", cred.ID), zap.String("email", cred.Email))
		fmt.Fprintln(cmd.OutOrStdout(), cred.ID)
		return nil
	},
}

var ensureIndexesCmd = &cobra.Command{
	Use:   "ensure-indexes",
	Short: "Create the unique email and parent indexes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// newApp already ensures indexes; this command exists for deploy hooks.
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(context.Background())
		a.log.Info("indexes ensured", zap.String("store", a.cfg.StoreDriver))
		return nil
	},
}

func init() {
	createAdminCmd.Flags().String("name", "", "admin display name")
	createAdminCmd.Flags().String("email", "", "admin email")
	createAdminCmd.Flags().String("password", "", "admin password")
}
