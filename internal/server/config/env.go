package config

import (
	"fmt"
	"strconv"
	"time"
)

// Environment variable names read by parseEnv.
const (
	EnvAddress         = "USERSVC_ADDRESS"
	EnvDatabaseDriver  = "USERSVC_DATABASE_DRIVER"
	EnvDatabaseDSN     = "USERSVC_DATABASE_DSN"
	EnvHashCost        = "USERSVC_HASH_COST"
	EnvLogLevel        = "USERSVC_LOG_LEVEL"
	EnvShutdownTimeout = "USERSVC_SHUTDOWN_TIMEOUT"
)

// parseEnv overlays values present in the environment. lookup is
// os.LookupEnv in production.
func parseEnv(config *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAddress); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := lookup(EnvDatabaseDriver); ok {
		config.DatabaseDriver = v
	}
	if v, ok := lookup(EnvDatabaseDSN); ok {
		config.DatabaseDSN = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		config.LogLevel = v
	}
	if v, ok := lookup(EnvHashCost); ok {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHashCost, err)
		}
		config.PasswordHashCost = cost
	}
	if v, ok := lookup(EnvShutdownTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvShutdownTimeout, err)
		}
		config.ShutdownTimeout = d
	}
	return nil
}
