// Package config handles configuration for the usersvc server: defaults,
// environment (optionally seeded from a .env file), a JSON file overlay and
// command-line flags, applied in that order.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Supported values for Config.DatabaseDriver. They double as database/sql
// driver names.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// Config holds runtime settings for the server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP API.
//   - DatabaseDriver: DriverPostgres or DriverSQLite.
//   - DatabaseDSN: connection string understood by the selected driver.
//   - PasswordHashCost: bcrypt cost for new password hashes.
//   - LogLevel: debug, info, warn or error.
//   - ShutdownTimeout: grace period for in-flight requests on shutdown.
type Config struct {
	EndpointAddrHTTP string
	DatabaseDriver   string
	DatabaseDSN      string
	PasswordHashCost int
	LogLevel         string
	ShutdownTimeout  time.Duration
}

// LoadDefaults populates Config with development defaults: a local SQLite
// file and the standard bcrypt cost.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDriver = DriverSQLite
	c.DatabaseDSN = "users.db"
	c.PasswordHashCost = bcrypt.DefaultCost
	c.LogLevel = "info"
	c.ShutdownTimeout = 5 * time.Second
}

// Validate normalizes driver aliases and rejects values the server cannot
// start with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.DatabaseDriver) {
	case "pgx", "postgres", "postgresql":
		c.DatabaseDriver = DriverPostgres
	case "sqlite", "sqlite3":
		c.DatabaseDriver = DriverSQLite
	default:
		return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("database DSN is empty")
	}
	if c.EndpointAddrHTTP == "" {
		return fmt.Errorf("HTTP endpoint address is empty")
	}
	if c.PasswordHashCost < bcrypt.MinCost || c.PasswordHashCost > bcrypt.MaxCost {
		return fmt.Errorf("password hash cost %d out of range [%d, %d]", c.PasswordHashCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then the environment,
// then an optional JSON file and finally command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	// a missing .env is the normal case outside local development
	_ = godotenv.Load()

	if err := parseEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, os.Args[1:]); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, os.Args[1:]); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
