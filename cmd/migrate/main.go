package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/config"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/database"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/logger"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/schema"
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the ledger database schema",
	Long: `Applies the versioned SQL migrations and runs the additive schema pass
that brings older databases up to the column set the server expects.`,
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(m *migrate.Migrate, _ []string) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration up failed: %w", err)
		}
		logger.Get().Info("Migrations applied successfully")
		return nil
	}),
}

var allowDestructive bool

var downCmd = &cobra.Command{
	Use:   "down [N]",
	Short: "Roll back the last N migrations (default 1)",
	Long: `Roll back the last N migrations. Down steps drop tables and columns
together with their data, so the command refuses to run without
--allow-destructive. The server never rolls back on its own.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if !allowDestructive {
			return errors.New("down drops data; rerun with --allow-destructive to confirm")
		}
		return nil
	},
	RunE: withMigrator(func(m *migrate.Migrate, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			steps = n
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration down failed: %w", err)
		}
		logger.Get().Infof("Rolled back %d migration(s)", steps)
		return nil
	}),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current migration version",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(m *migrate.Migrate, _ []string) error {
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			logger.Get().Info("No migrations applied")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		logger.Get().Infof("Version: %d, Dirty: %v", version, dirty)
		return nil
	}),
}

var ensureTimeout time.Duration

var ensureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Create missing tables and settings columns in place",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		manager, err := openManager()
		if err != nil {
			return err
		}
		defer manager.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), ensureTimeout)
		defer cancel()

		m := schema.New(manager.DB())
		if err := m.EnsureAll(ctx); err != nil {
			return fmt.Errorf("schema ensure failed: %w", err)
		}
		columns, err := m.Columns(ctx, "user_settings")
		if err != nil {
			return err
		}
		logger.Get().Infow("Schema is up to date", "user_settings_columns", columns)
		return nil
	},
}

func init() {
	downCmd.Flags().BoolVar(&allowDestructive, "allow-destructive", false, "Confirm that rolling back may drop tables, columns and their data")
	ensureCmd.Flags().DurationVar(&ensureTimeout, "timeout", 30*time.Second, "Deadline for the whole pass")

	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(downCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(ensureCmd)
}

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		logger.Get().Errorf("Migration error: %v", err)
		os.Exit(1)
	}
}

func openManager() (*database.Manager, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return database.NewManager(database.NewConfig(cfg))
}

// withMigrator opens a golang-migrate instance for the duration of fn.
func withMigrator(fn func(m *migrate.Migrate, args []string) error) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		manager, err := openManager()
		if err != nil {
			return err
		}
		defer manager.Close()

		m, err := manager.Migrator()
		if err != nil {
			return err
		}
		defer database.CloseMigrator(m)

		return fn(m, args)
	}
}
