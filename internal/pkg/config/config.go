package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT       JWTConfig
	DB        DBConfig
	Bootstrap BootstrapConfig
}

// JWTConfig configures token signing. The secret key must be at least as
// long as the HMAC output (32 bytes for HS256); the token codec enforces
// this at startup.
type JWTConfig struct {
	SecretKey string `env:"JWT_SECRET_KEY"`
	Algorithm string `env:"JWT_ALGORITHM, default=HS256"`
}

type DBConfig struct {
	Driver   string `env:"DB_DRIVER,   default=postgres"`
	Host     string `env:"DB_HOST,     default=localhost"`
	Port     int    `env:"DB_PORT,     default=5432"`
	Name     string `env:"DB_NAME,     default=auth"`
	User     string `env:"DB_USER,     default=auth"`
	Password string `env:"DB_PASSWORD"`
	Path     string `env:"DB_PATH"` // sqlite database file
	Debug    bool   `env:"DB_DEBUG,    default=false"`
}

// BootstrapConfig holds the initial password given to the admin user when
// bootstrap has to create it.
type BootstrapConfig struct {
	AdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
