package config

import (
	"strings"
	"time"
)

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"clubdesk"`
	Password string `env:"PASSWORD"                envDefault:"clubdesk"`
	Name     string `env:"NAME"                    envDefault:"clubdesk"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig locates the Redis instance holding the persisted auth-backend session.
// URI is either host:port or a redis:// / rediss:// URL carrying credentials and DB.
type RedisConfig struct {
	URI      string `env:"URI"      envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`

	TokenPrefix string        `env:"TOKEN_PREFIX" envDefault:"clubdesk:token:"`
	TokenTTL    time.Duration `env:"TOKEN_TTL"    envDefault:"720h"`
}

// Sanitize applies guardrails to Redis configuration values.
func (r *RedisConfig) Sanitize() {
	r.URI = strings.TrimSpace(r.URI)
	if r.TokenTTL < 0 {
		r.TokenTTL = 0
	}
	if r.TokenPrefix == "" {
		r.TokenPrefix = "clubdesk:token:"
	}
}
