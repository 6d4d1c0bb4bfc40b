package db

import (
	"context"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/jmehdipour/omnichannel/internal/config"
)

// NewMySQL opens the messages store. DSNs need parseTime=true.
func NewMySQL(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	return open(ctx, "mysql", cfg)
}
