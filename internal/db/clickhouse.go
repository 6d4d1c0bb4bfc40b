package db

import (
	"context"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jmoiron/sqlx"

	"github.com/jmehdipour/omnichannel/internal/config"
)

// NewClickHouse opens the event archive, e.g.
// clickhouse://default:@localhost:9000/omni?dial_timeout=5s&compress=true
func NewClickHouse(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	return open(ctx, "clickhouse", cfg)
}
