package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erazemk/devicetrack/internal/config"
	"github.com/erazemk/devicetrack/internal/db"
	"github.com/erazemk/devicetrack/internal/ident"
	"github.com/erazemk/devicetrack/internal/logging"
	"github.com/erazemk/devicetrack/internal/maintenance"
)

// app carries the configuration and logger shared by every subcommand.
type app struct {
	cfg    config.Config
	logger *zap.Logger

	dbPath   string
	logLevel string
}

func newRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "devicetrack",
		Short:         "Inventory of computers deployed to partner schools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "path to SQLite database file (overrides DB_PATH)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")

	cmd.AddCommand(newServeCommand(a))
	cmd.AddCommand(newMigrateCommand(a))
	cmd.AddCommand(newSeedCommand(a))
	cmd.AddCommand(newBackfillCommand(a))
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = logger
	zap.ReplaceGlobals(logger)
	return nil
}

// openDB opens the configured database and applies pending migrations.
func (a *app) openDB(ctx context.Context) (*sql.DB, error) {
	database, err := db.Open(a.cfg.DBPath)
	if err != nil {
		return nil, err
	}

	version, err := db.Migrate(ctx, database)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	a.logger.Debug("database ready", zap.String("path", a.cfg.DBPath), zap.Int64("version", version))
	return database, nil
}

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			database, err := db.Open(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer database.Close()

			version, err := db.Migrate(cmd.Context(), database)
			if err != nil {
				return err
			}
			a.logger.Info("database migrated", zap.String("path", a.cfg.DBPath), zap.Int64("version", version))
			return nil
		},
	}
}

func newSeedCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load sample schools and items into an empty database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			database, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer database.Close()

			res, err := maintenance.Seed(cmd.Context(), database)
			if err != nil {
				return err
			}
			if res.Skipped {
				a.logger.Info("database already has schools, skipping seed")
				return nil
			}
			a.logger.Info("database seeded", zap.Int("schools", res.Schools), zap.Int("items", res.Items))
			return nil
		},
	}
}

func newBackfillCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backfill-item-ids",
		Short: "Assign item ids to records created before item ids existed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			database, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer database.Close()

			n, err := maintenance.BackfillItemIDs(cmd.Context(), database, ident.NewItemID, func(id int64, itemID string) {
				a.logger.Info("assigned item id", zap.Int64("item", id), zap.String("item_id", itemID))
			})
			if err != nil {
				return err
			}
			a.logger.Info("backfill complete", zap.Int("updated", n))
			return nil
		},
	}
}
