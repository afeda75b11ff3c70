package config

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

// ServerConfig configures cmd/server, the admin API.
type ServerConfig struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development" validate:"oneof=development production test"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWTSecret         string        `env:"JWT_SECRET"          validate:"required"`
	AdminEmail        string        `env:"ADMIN_EMAIL"         validate:"required,email"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH" validate:"required"`
	TokenTTL          time.Duration `env:"TOKEN_TTL, default=24h" validate:"gt=0"`

	Mongo MongoConfig
}

// ClientConfig configures cmd/sessionctl, the three role sessions.
type ClientConfig struct {
	Env      string `env:"ENV,       default=development" validate:"oneof=development production test"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	BackendURL  string        `env:"BACKEND_URL,  default=http://localhost:8080" validate:"required,url"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT, default=15s"                  validate:"gt=0"`

	// CredentialBackend selects where role credentials persist.
	CredentialBackend string `env:"CREDENTIAL_BACKEND, default=file" validate:"oneof=file redis memory"`
	CredentialDir     string `env:"CREDENTIAL_DIR,     default=.clinic"`

	Redis RedisConfig
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017" validate:"required"`
	Database string        `env:"MONGO_DB,      default=prescripto"              validate:"required"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Pretty reports whether logs should use the console writer.
func (c *ServerConfig) Pretty() bool { return c.Env == "development" }

// Pretty reports whether logs should use the console writer.
func (c *ClientConfig) Pretty() bool { return c.Env == "development" }

// LoadServer reads ServerConfig from the process environment.
func LoadServer(ctx context.Context) (*ServerConfig, error) {
	return LoadServerFrom(ctx, envconfig.OsLookuper())
}

// LoadServerFrom reads ServerConfig through l and validates it.
func LoadServerFrom(ctx context.Context, l envconfig.Lookuper) (*ServerConfig, error) {
	var cfg ServerConfig
	if err := load(ctx, l, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadClient reads ClientConfig from the process environment.
func LoadClient(ctx context.Context) (*ClientConfig, error) {
	return LoadClientFrom(ctx, envconfig.OsLookuper())
}

// LoadClientFrom reads ClientConfig through l and validates it.
func LoadClientFrom(ctx context.Context, l envconfig.Lookuper) (*ClientConfig, error) {
	var cfg ClientConfig
	if err := load(ctx, l, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func load(ctx context.Context, l envconfig.Lookuper, target any) error {
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: target, Lookuper: l}); err != nil {
		return fmt.Errorf("config: process env: %w", err)
	}
	if err := validator.New().Struct(target); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
