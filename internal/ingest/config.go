package ingest

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"wx_decoder/internal/storage"
)

// NATSConfig holds the raw feed subscription settings.
type NATSConfig struct {
	URL      string   `yaml:"url"`
	Subjects []string `yaml:"subjects"`
	Queue    string   `yaml:"queue"`
}

// KafkaConfig holds the decoded-report sink settings.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// DatabaseConfig mirrors the storage connection settings in YAML form.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// Config holds the ingest daemon settings, loaded from a YAML file.
type Config struct {
	NATS       NATSConfig     `yaml:"nats"`
	Kafka      KafkaConfig    `yaml:"kafka"`
	Postgres   DatabaseConfig `yaml:"postgres"`
	ClickHouse DatabaseConfig `yaml:"clickhouse"`

	// StateDB is the path of the station state SQLite file.
	StateDB string `yaml:"state_db"`

	// Listen is the health/metrics HTTP address.
	Listen string `yaml:"listen"`
}

// DefaultConfig returns a configuration with local development settings.
func DefaultConfig() Config {
	sc := storage.DefaultConfig()
	return Config{
		NATS: NATSConfig{
			URL:      "nats://localhost:4222",
			Subjects: []string{"wx.raw.>"},
			Queue:    "wx-ingest",
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topic:   "decoded-weather-reports",
		},
		Postgres: DatabaseConfig{
			Host:     sc.Postgres.Host,
			Port:     sc.Postgres.Port,
			Database: sc.Postgres.Database,
			User:     sc.Postgres.User,
			Password: sc.Postgres.Password,
		},
		ClickHouse: DatabaseConfig{
			Host:     sc.ClickHouse.Host,
			Port:     sc.ClickHouse.Port,
			Database: sc.ClickHouse.Database,
			User:     sc.ClickHouse.User,
			Password: sc.ClickHouse.Password,
		},
		StateDB: "wx_state.db",
		Listen:  ":8080",
	}
}

// LoadConfig reads a YAML config file, applying defaults for unset
// fields.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the settings a running daemon cannot do without.
func (c Config) Validate() error {
	if c.NATS.URL == "" {
		return errors.New("nats.url is required")
	}
	if len(c.NATS.Subjects) == 0 {
		return errors.New("nats.subjects is required")
	}
	if len(c.Kafka.Brokers) == 0 {
		return errors.New("kafka.brokers is required")
	}
	if c.Kafka.Topic == "" {
		return errors.New("kafka.topic is required")
	}
	return nil
}

// StorageConfig converts the YAML database settings into the storage
// package's config form.
func (c Config) StorageConfig() storage.Config {
	return storage.Config{
		Postgres: storage.PostgresConfig{
			Host:     c.Postgres.Host,
			Port:     c.Postgres.Port,
			Database: c.Postgres.Database,
			User:     c.Postgres.User,
			Password: c.Postgres.Password,
		},
		ClickHouse: storage.ClickHouseConfig{
			Host:     c.ClickHouse.Host,
			Port:     c.ClickHouse.Port,
			Database: c.ClickHouse.Database,
			User:     c.ClickHouse.User,
			Password: c.ClickHouse.Password,
		},
	}
}
