package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jmehdipour/omnichannel/internal/config"
)

func TestEmptyDSN(t *testing.T) {
	_, err := NewMySQL(context.Background(), config.DatabaseConfig{})
	assert.ErrorIs(t, err, ErrEmptyDSN)

	_, err = NewClickHouse(context.Background(), config.DatabaseConfig{})
	assert.ErrorIs(t, err, ErrEmptyDSN)
}

func TestMySQLUnreachable(t *testing.T) {
	_, err := NewMySQL(context.Background(), config.DatabaseConfig{
		DSN:         "u:p@tcp(127.0.0.1:1)/omni?parseTime=true",
		PingTimeout: 500 * time.Millisecond,
	})
	assert.Error(t, err)
}

func TestRedisConfigErrors(t *testing.T) {
	_, err := NewRedis(context.Background(), config.RedisConfig{})
	assert.Error(t, err)

	_, err = NewRedis(context.Background(), config.RedisConfig{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond})
	assert.Error(t, err)
}
