package gormdb

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DriverPostgres and DriverSQLite are the supported relational engines.
// Postgres is the production target; SQLite serves local development and
// tests.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config captures the settings required to open a database connection.
type Config struct {
	Driver   string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	// Path is the database file for the sqlite driver.
	Path  string
	Debug bool
}

// DSN builds the driver-specific connection string.
func DSN(cfg Config) (string, error) {
	switch cfg.Driver {
	case DriverPostgres:
		return fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%d",
			cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port,
		), nil
	case DriverSQLite:
		if cfg.Path == "" {
			return "", fmt.Errorf("sqlite driver requires a database file path")
		}
		return cfg.Path, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Connect opens a GORM connection with error translation enabled, so
// uniqueness violations surface as gorm.ErrDuplicatedKey regardless of
// driver.
func Connect(cfg Config) (*gorm.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	}

	logMode := logger.Silent
	if cfg.Debug {
		logMode = logger.Info
	}
	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logMode),
	})
}
