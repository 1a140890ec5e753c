package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"wellness-survey-service/internal/config"
	"wellness-survey-service/internal/domain"
	pgmigrations "wellness-survey-service/internal/infra/postgres/migrations"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

// NewMigrateCmd applies database migrations and seeds the builtin question bank.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and seed the builtin question bank",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), *configPath)
		},
	}
}

func runMigrations(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}
	return seedQuestionBank(ctx, cfg)
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	if _, err := migrator.Migrate(ctx); err != nil {
		return err
	}
	log.Printf("migrations applied")
	return nil
}

// seedQuestionBank upserts the builtin departments so a fresh database serves
// the same questionnaires as the builtin loader. Existing rows are updated,
// which keeps edits idempotent across deploys.
func seedQuestionBank(ctx context.Context, cfg config.Config) error {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	for name, department := range domain.BuiltinQuestionBank() {
		data, err := json.Marshal(department)
		if err != nil {
			return fmt.Errorf("marshal department %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO departments (name, data) VALUES (?, ?::jsonb) ON CONFLICT (name) DO UPDATE SET data=EXCLUDED.data`,
			name, string(data)); err != nil {
			return fmt.Errorf("seed department %s: %w", name, err)
		}
	}
	log.Printf("question bank seeded")
	return nil
}
