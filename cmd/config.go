package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"orderflow/internal/adapters/out/postgres"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort  string        `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel  string        `env:"LOG_LEVEL" envDefault:"info"`
	TxTimeout time.Duration `env:"TX_TIMEOUT" envDefault:"5s"`

	DB     DBConfig     `envPrefix:"DB_"`
	Kafka  KafkaConfig  `envPrefix:"KAFKA_"`
	Outbox OutboxConfig `envPrefix:"OUTBOX_"`
	Expiry ExpiryConfig `envPrefix:"EXPIRY_"`
}

type DBConfig struct {
	Host            string        `env:"HOST" envDefault:"localhost"`
	Port            string        `env:"PORT" envDefault:"5432"`
	User            string        `env:"USER" envDefault:"postgres"`
	Password        string        `env:"PASSWORD"`
	Name            string        `env:"NAME" envDefault:"orderflow"`
	SslMode         string        `env:"SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"30m"`
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SslMode)
}

func (c DBConfig) Pool() postgres.PoolConfig {
	return postgres.PoolConfig{
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
	}
}

// KafkaConfig is shared by both services. Only the bonus service reads Topics.
type KafkaConfig struct {
	Brokers              []string      `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	ConsumerGroup        string        `env:"CONSUMER_GROUP" envDefault:"bonus-service"`
	Topics               []string      `env:"TOPICS" envSeparator:"," envDefault:"order_transitions,invitation_responses,stage_transitions,request_updates,cancel_request"`
	MaxWait              time.Duration `env:"MAX_WAIT" envDefault:"1s"`
	BatchTimeout         time.Duration `env:"BATCH_TIMEOUT" envDefault:"10ms"`
	WriteTimeout         time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	RetryInitialInterval time.Duration `env:"RETRY_INITIAL_INTERVAL" envDefault:"200ms"`
	RetryMaxInterval     time.Duration `env:"RETRY_MAX_INTERVAL" envDefault:"30s"`
}

type OutboxConfig struct {
	PollInterval         time.Duration `env:"POLL_INTERVAL" envDefault:"1s"`
	BatchSize            int           `env:"BATCH_SIZE" envDefault:"100"`
	PublishTimeout       time.Duration `env:"PUBLISH_TIMEOUT" envDefault:"5s"`
	RetryInitialInterval time.Duration `env:"RETRY_INITIAL_INTERVAL" envDefault:"100ms"`
	RetryMaxInterval     time.Duration `env:"RETRY_MAX_INTERVAL" envDefault:"2s"`
	RetryMaxElapsed      time.Duration `env:"RETRY_MAX_ELAPSED" envDefault:"10s"`
}

type ExpiryConfig struct {
	Interval  time.Duration `env:"INTERVAL" envDefault:"1m"`
	BatchSize int           `env:"BATCH_SIZE" envDefault:"50"`
}

// LoadConfig reads .env when present, then the process environment.
// Variables already set in the environment win over the file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
