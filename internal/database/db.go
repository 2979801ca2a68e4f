package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Config carries the connection parameters for Open.  MaxConns and
// ConnLifetime bound the pool; zero values fall back to defaults
// suitable for a single service instance.
type Config struct {
	User         string
	Pass         string
	Host         string
	Port         string
	Name         string
	MaxConns     int
	ConnLifetime time.Duration
}

const (
	defaultMaxConns     = 25
	defaultConnLifetime = 30 * time.Minute
	pingTimeout         = 5 * time.Second
)

// dsn builds the driver connection string.  parseTime must stay on so
// DATETIME columns scan into time.Time, and loc=UTC pins the session
// timezone so stored and computed timestamps agree.
func (c Config) dsn() string {
	auth := c.User
	if c.Pass != "" {
		auth = fmt.Sprintf("%s:%s", c.User, c.Pass)
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, c.Host, c.Port, c.Name)
}

func (c Config) withDefaults() Config {
	if c.MaxConns <= 0 {
		c.MaxConns = defaultMaxConns
	}
	if c.ConnLifetime <= 0 {
		c.ConnLifetime = defaultConnLifetime
	}
	return c
}

// Open connects to MySQL, applies the pool limits and verifies the
// connection with a bounded ping.
func Open(c Config) (*sql.DB, error) {
	c = c.withDefaults()

	db, err := sql.Open("mysql", c.dsn())
	if err != nil {
		return nil, err
	}

	// Idle capacity matches the open cap; rental traffic is bursty and
	// reopening connections per burst costs more than keeping them.
	db.SetMaxOpenConns(c.MaxConns)
	db.SetMaxIdleConns(c.MaxConns)
	db.SetConnMaxLifetime(c.ConnLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
