package main

import (
	"context"
	"fmt"
	"strings"

	"modelfang-console/internal/database"
	"modelfang-console/internal/model"
	"modelfang-console/internal/service"
	"modelfang-console/internal/store"

	"github.com/spf13/cobra"
)

var (
	newPgxPool         = database.NewPgxPool
	hashPassword       = service.HashPassword
	createUser         = store.CreateUser
	updateUserPassword = store.UpdateUserPassword
)

func userCmd() *cobra.Command {
	var dbURL string

	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage console users",
	}
	cmd.PersistentFlags().StringVar(&dbURL, "database-url", "", "Postgres URL (default $DATABASE_URL)")

	withDB := func(cmd *cobra.Command, fn func(ctx context.Context, db database.DB) error) error {
		url, err := databaseURL(dbURL)
		if err != nil {
			return err
		}
		db, err := newPgxPool(cmd.Context(), url)
		if err != nil {
			return fmt.Errorf("DB 連線失敗: %w", err)
		}
		defer db.Close()
		return fn(cmd.Context(), db)
	}

	var email string
	var admin bool
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a user; the password is read from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd.InOrStdin())
			if err != nil {
				return err
			}
			hash, err := hashPassword(pw)
			if err != nil {
				return err
			}
			return withDB(cmd, func(ctx context.Context, db database.DB) error {
				u, err := createUser(ctx, db, &model.User{
					Name:         args[0],
					Email:        strings.ToLower(email),
					PasswordHash: hash,
					IsAdmin:      admin,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d)\n", u.Name, u.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&email, "email", "", "Email address")
	add.Flags().BoolVar(&admin, "admin", false, "Grant admin privileges")

	passwd := &cobra.Command{
		Use:   "passwd <name>",
		Short: "Replace a user's password; the new password is read from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd.InOrStdin())
			if err != nil {
				return err
			}
			hash, err := hashPassword(pw)
			if err != nil {
				return err
			}
			return withDB(cmd, func(ctx context.Context, db database.DB) error {
				if err := updateUserPassword(ctx, db, args[0], hash); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(add, passwd)
	return cmd
}
