package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	sharedtypes "github.com/open-civ-league/league-bot/app/shared/types"
	"github.com/open-civ-league/league-bot/internal/observability"
)

// Config holds the configuration settings.
type Config struct {
	Postgres      PostgresConfig           `yaml:"postgres"`
	NATS          NATSConfig               `yaml:"nats"`
	Redis         RedisConfig              `yaml:"redis"`
	Coordinator   CoordinatorConfig        `yaml:"coordinator"`
	Queue         QueueConfig              `yaml:"queue"`
	DraftRoom     DraftRoomConfig          `yaml:"draft_room"`
	ChatPlatform  ChatPlatformConfig       `yaml:"chat_platform"`
	Modes         []sharedtypes.ModeConfig `yaml:"modes"`
	Observability observability.Config     `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig holds the eventually-consistent KV store configuration.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// CoordinatorConfig holds the hot-key coordinator connection settings.
type CoordinatorConfig struct {
	ListenAddress string `yaml:"listen_address"`
	URL           string `yaml:"url"`
	Secret        string `yaml:"secret"`
}

// QueueConfig holds queue tuning knobs.
type QueueConfig struct {
	HardCap      int           `yaml:"hard_cap"`
	StaleTimeout time.Duration `yaml:"stale_timeout"`
}

// DraftRoomConfig holds the draft room service endpoint.
type DraftRoomConfig struct {
	URL        string        `yaml:"url"`
	AckTimeout time.Duration `yaml:"ack_timeout"`
}

// ChatPlatformConfig holds the chat-platform notification endpoint.
type ChatPlatformConfig struct {
	URL        string `yaml:"url"`
	MaxRetries int    `yaml:"max_retries"`
	BotToken   string `yaml:"bot_token"`
}

// LoadConfig loads the configuration from a YAML file, falling back to
// environment variables when the file is absent, then applies env overrides.
func LoadConfig(filename string) (*Config, error) {
	cfg := defaults()

	if data, err := os.ReadFile(filename); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("KV_COORDINATOR_URL"); v != "" {
		cfg.Coordinator.URL = v
	}
	if v := os.Getenv("KV_COORDINATOR_SECRET"); v != "" {
		cfg.Coordinator.Secret = v
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("DRAFT_ROOM_URL"); v != "" {
		cfg.DraftRoom.URL = v
	}
	if v := os.Getenv("CHAT_PLATFORM_URL"); v != "" {
		cfg.ChatPlatform.URL = v
	}

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required (config file or DATABASE_URL)")
	}
	if len(cfg.Modes) == 0 {
		cfg.Modes = sharedtypes.DefaultModes()
	}

	return cfg, nil
}

// ModeRegistry builds the mode lookup from the configured mode table.
func (c *Config) ModeRegistry() *sharedtypes.ModeRegistry {
	return sharedtypes.NewModeRegistry(c.Modes)
}

func defaults() *Config {
	return &Config{
		NATS:  NATSConfig{URL: "nats://localhost:4222"},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Coordinator: CoordinatorConfig{
			ListenAddress: ":8090",
			URL:           "http://localhost:8090",
		},
		Queue: QueueConfig{
			HardCap:      50,
			StaleTimeout: 30 * time.Minute,
		},
		DraftRoom: DraftRoomConfig{
			AckTimeout: 5 * time.Second,
		},
		ChatPlatform: ChatPlatformConfig{
			MaxRetries: 3,
		},
		Observability: observability.Config{
			Environment: "development",
			LogLevel:    "info",
		},
	}
}
