package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"go-parts-inventory/internal/model"
	"go-parts-inventory/internal/service"
	"go-parts-inventory/pkg/database"

	"github.com/spf13/cobra"
)

func newMigrateCmd(setup setupFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and indexes.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cleanup, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := database.AutoMigrate(a.db); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newSeedAdminCmd(setup setupFunc) *cobra.Command {
	var req service.CreateUserRequest

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the first admin user.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cleanup, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			req.Role = model.RoleAdmin
			user, err := a.users.CreateUser(cmd.Context(), model.SystemActor, &req)
			if errors.Is(err, service.ErrEmailExists) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", req.Email)
				return nil
			}
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin created: %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "admin@example.com", "Admin email")
	cmd.Flags().StringVar(&req.Password, "password", "", "Admin password")
	cmd.Flags().StringVar(&req.FirstName, "name", "Administrator", "Admin first name")
	cmd.Flags().IntVar(&req.Building, "building", 1, "Admin building")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newResetPasswordCmd(setup setupFunc) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a user's password without knowing the old one.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cleanup, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.users.ResetPassword(cmd.Context(), email, password); err != nil {
				return fmt.Errorf("reset password for %s: %w", email, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password for %s has been reset\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "User email")
	cmd.Flags().StringVar(&password, "password", "", "New password (min 6 characters)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newHistoryCmd(setup setupFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "history <record-id>",
		Short: "Print the history of a unit, newest first.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			history, err := a.chain.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(history)
		},
	}
}

func newRepairChainCmd(setup setupFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "repair-chain",
		Short: "Link predecessors whose successor was written without stamping next.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cleanup, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			repaired, err := a.chain.Repair(cmd.Context())
			if err != nil {
				return fmt.Errorf("repair chain: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d links repaired\n", repaired)
			return nil
		},
	}
}
