// Package config resolves the gateway's configuration once at startup.
// Nothing reads the environment after Load returns; components receive the
// values they need explicitly.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Backend BackendConfig
	Session SessionConfig
	Redis   RedisConfig
	Push    PushConfig
	Idle    IdleConfig
}

type BackendConfig struct {
	// BaseURL is the feedback backend's REST root.
	BaseURL string        `env:"BACKEND_URL,     default=http://localhost:8082/api"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=10s"`
}

type SessionConfig struct {
	// Store selects the durable session storage: "file" or "redis".
	Store string `env:"SESSION_STORE, default=file"`
	// FilePath overrides the snapshot location for the file store. Empty
	// means ~/.swarm/session.json.
	FilePath string `env:"SESSION_FILE"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// PushConfig controls the live notification channel. The capability is
// independently togglable; the gateway is fully functional without it.
type PushConfig struct {
	Enabled bool          `env:"PUSH_ENABLED, default=false"`
	URL     string        `env:"PUSH_URL,     default=http://localhost:8082/events"`
	Retry   time.Duration `env:"PUSH_RETRY,   default=5s"`
}

// IdleConfig controls the inactivity logout. Independently togglable.
type IdleConfig struct {
	Enabled bool          `env:"IDLE_ENABLED, default=true"`
	Timeout time.Duration `env:"IDLE_TIMEOUT, default=10m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Session.Store != "file" && cfg.Session.Store != "redis" {
		return nil, fmt.Errorf("config: unknown SESSION_STORE %q", cfg.Session.Store)
	}
	return &cfg, nil
}
