package cmd

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmehdipour/omnichannel/internal/db"
	"github.com/jmehdipour/omnichannel/migrations"
)

var migrateTarget string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations (dev: DROP & CREATE tables)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch migrateTarget {
		case "all", "mysql", "clickhouse":
		default:
			return fmt.Errorf("unknown migration target %q", migrateTarget)
		}

		a, err := load()
		if err != nil {
			return err
		}
		defer syncLogger(a.Log)
		ctx := cmd.Context()

		if migrateTarget == "all" || migrateTarget == "mysql" {
			mdb, err := db.NewMySQL(ctx, a.Config.MySQL)
			if err != nil {
				return fmt.Errorf("mysql: %w", err)
			}
			defer mdb.Close()
			if err := migrate(ctx, mdb, "mysql", a.Log); err != nil {
				return err
			}
		}
		if migrateTarget == "all" || migrateTarget == "clickhouse" {
			chdb, err := db.NewClickHouse(ctx, a.Config.ClickHouse)
			if err != nil {
				return fmt.Errorf("clickhouse: %w", err)
			}
			defer chdb.Close()
			if err := migrate(ctx, chdb, "clickhouse", a.Log); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTarget, "target", "all", "mysql, clickhouse or all")
}

func migrate(ctx context.Context, dbx *sqlx.DB, dir string, log *zap.Logger) error {
	stmts, err := migrations.Statements(dir)
	if err != nil {
		return fmt.Errorf("read %s migrations: %w", dir, err)
	}
	for i, stmt := range stmts {
		if _, err := dbx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s migration statement %d: %w", dir, i+1, err)
		}
	}
	log.Info("migration complete", zap.String("store", dir), zap.Int("statements", len(stmts)))
	return nil
}
