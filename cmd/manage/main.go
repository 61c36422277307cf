package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"recipe-app/internal/config"
	"recipe-app/internal/database"
	"recipe-app/internal/logger"
	"recipe-app/internal/service"

	"github.com/spf13/cobra"
)

var (
	loadDatabaseConfig = config.LoadDatabase
	newPgxPool         = database.NewPgxPool
	runMigrationsFn    = database.RunMigrations
	rollbackAllFn      = database.RollbackAll
	registerUser       = service.RegisterUser
	exitFunc           = os.Exit
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "manage",
		Short:         "Recipe App 管理工具",
		Long:          "執行資料庫 migration 與建立管理員帳號。連線資訊由 DATABASE_URL (或 .env) 提供。",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newMigrateCmd(), newCreateSuperuserCmd())
	return rootCmd
}

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "管理資料庫 schema",
	}
	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "套用所有尚未執行的 migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadDatabaseConfig()
				if err != nil {
					return err
				}
				if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
					return fmt.Errorf("Migration 執行失敗: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "回滾所有 migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadDatabaseConfig()
				if err != nil {
					return err
				}
				if err := rollbackAllFn(cfg.DatabaseURL); err != nil {
					return fmt.Errorf("Migration 回滾失敗: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations rolled back")
				return nil
			},
		},
	)
	return migrateCmd
}

func newCreateSuperuserCmd() *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "建立 staff + superuser 帳號",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadDatabaseConfig()
			if err != nil {
				return err
			}
			ctx := context.Background()
			db, err := newPgxPool(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("DB 連線失敗: %w", err)
			}
			defer db.Close()

			user, err := registerUser(ctx, db, service.NewUser{
				Email:       email,
				Password:    password,
				Name:        name,
				IsStaff:     true,
				IsSuperuser: true,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "superuser %s created (id=%d)\n", user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "登入 email")
	cmd.Flags().StringVar(&password, "password", "", "密碼 (至少 5 個字元)")
	cmd.Flags().StringVar(&name, "name", "", "顯示名稱")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func main() {
	slog.SetDefault(logger.New(os.Stderr, "info", "text"))
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("command failed", logger.Err(err))
		exitFunc(1)
	}
}
