package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// ---- Root ----

type Config struct {
	API        APIConfig      `mapstructure:"api"`
	Log        LogConfig      `mapstructure:"log"`
	Webhook    WebhookConfig  `mapstructure:"webhook"`
	MySQL      DatabaseConfig `mapstructure:"mysql"`
	ClickHouse DatabaseConfig `mapstructure:"clickhouse"`
	Redis      RedisConfig    `mapstructure:"redis"`
	Kafka      KafkaConfig    `mapstructure:"kafka"`
	Worker     WorkerConfig   `mapstructure:"worker"`
}

// ---- Leaf structs ----

type APIConfig struct {
	BaseURL       string            `mapstructure:"base_url"`
	Token         string            `mapstructure:"token"`
	Timeout       time.Duration     `mapstructure:"timeout"`
	CustomHeaders map[string]string `mapstructure:"custom_headers"`
	Breaker       BreakerConfig     `mapstructure:"breaker"`
}

type BreakerConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	FailThreshold int           `mapstructure:"fail_threshold"`
	OpenFor       time.Duration `mapstructure:"open_for"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type WebhookConfig struct {
	Host    string            `mapstructure:"host"`
	Port    int               `mapstructure:"port"`
	Path    string            `mapstructure:"path"`
	URL     string            `mapstructure:"url"`
	Channel string            `mapstructure:"channel"`
	Headers map[string]string `mapstructure:"headers"`
	// DedupTTL > 0 turns on redis de-duplication of event ids.
	DedupTTL     time.Duration `mapstructure:"dedup_ttl"`
	RateLimitRPS int           `mapstructure:"rate_limit_rps"`
	Archive      bool          `mapstructure:"archive"`
	TrackStatus  bool          `mapstructure:"track_status"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idletime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type KafkaConfig struct {
	Brokers        []string      `mapstructure:"brokers"`
	GroupID        string        `mapstructure:"group_id"`
	OutboundTopic  string        `mapstructure:"outbound_topic"`
	EventsTopic    string        `mapstructure:"events_topic"`
	DLQTopic       string        `mapstructure:"dlq_topic"`
	MinBytes       int           `mapstructure:"min_bytes"`
	MaxBytes       int           `mapstructure:"max_bytes"`
	CommitInterval time.Duration `mapstructure:"commit_interval"`
	MaxWait        time.Duration `mapstructure:"max_wait"`
}

type WorkerConfig struct {
	WorkerCount int  `mapstructure:"worker_count"`
	RecordSends bool `mapstructure:"record_sends"`
}

// Load reads embedded defaults, merges the YAML file at path when it exists,
// and applies env overrides (OMNI_*, dots become underscores).
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
	}

	// env override (OMNI_API_TOKEN, OMNI_WEBHOOK_PORT, ...)
	v.SetEnvPrefix("OMNI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
