package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"time"
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable.  Required variables are
// enforced by must() and missing values cause the program to exit
// with a fatal log message; optional ones carry defaults.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string        // database name
	DBMaxConns     int           // connection pool cap (open and idle)
	DBConnLifetime time.Duration // max lifetime of a pooled connection
	JWTSecret      string        // secret used to sign staff tokens
	TokenTTLHours  int           // staff token time-to-live in hours
	MigrateOnStart bool          // run embedded schema migrations at startup
}

// Load reads configuration values from environment variables and
// returns a Config.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		DBMaxConns:     envInt("DB_MAX_CONNS", 25),
		DBConnLifetime: envDur("DB_CONN_LIFETIME", 30*time.Minute),
		JWTSecret:      must("JWT_SECRET"),
		TokenTTLHours:  envInt("TOKEN_TTL_HOURS", 24),
		MigrateOnStart: envBool("MIGRATE_ON_START", false),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
