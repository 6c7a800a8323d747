package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	LockRedis = "redis"
	LockLocal = "local"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// AuthConfig holds the secrets and cookie settings for sessions. Values are
// handed to components at startup and never read from the environment again.
type AuthConfig struct {
	JWTSecret    string        `env:"JWT_SECRET"`
	SSNSalt      string        `env:"SSN_SALT"`
	SessionTTL   time.Duration `env:"SESSION_TTL,   default=168h"`
	CookieSecure bool          `env:"COOKIE_SECURE, default=false"`
	BcryptCost   int           `env:"BCRYPT_COST,   default=10"`
	SessionLock  string        `env:"SESSION_LOCK,  default=redis"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=banking"`
}

type RedisConfig struct {
	Addr         string        `env:"REDIS_ADDR,           default=localhost:6379"`
	Password     string        `env:"REDIS_PASSWORD"`
	DB           int           `env:"REDIS_DB,             default=0"`
	PoolSize     int           `env:"REDIS_POOL_SIZE,      default=10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS, default=2"`
	Timeout      time.Duration `env:"REDIS_TIMEOUT,        default=3s"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Auth.SessionLock = strings.ToLower(strings.TrimSpace(cfg.Auth.SessionLock))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the service cannot run safely with.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Auth.SSNSalt == "" {
		errs = append(errs, errors.New("SSN_SALT is required"))
	}
	if c.Auth.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.Auth.SessionLock != LockRedis && c.Auth.SessionLock != LockLocal {
		errs = append(errs, fmt.Errorf("SESSION_LOCK must be %q or %q", LockRedis, LockLocal))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
