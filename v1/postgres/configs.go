package postgres

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Connection        Connection
	ConnectionDetails ConnectionDetails
}

type Connection struct {
	Host     string
	Port     string
	User     string
	Password string
	DbName   string
	SSLMode  string
}

type ConnectionDetails struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewConfig reads the database configuration from environment variables.
func NewConfig() Config {
	return Config{
		Connection: Connection{
			Host:     envOr("DB_HOST", "localhost"),
			Port:     envOr("DB_PORT", "5432"),
			User:     envOr("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			DbName:   envOr("DB_NAME", "rag"),
			SSLMode:  envOr("DB_SSLMODE", "disable"),
		},
		ConnectionDetails: ConnectionDetails{
			MaxOpenConns:    envIntOr("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:    envIntOr("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: time.Duration(envIntOr("DB_CONN_MAX_LIFETIME_SECONDS", 60)) * time.Second,
		},
	}
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Connection.Host == "" {
		return fmt.Errorf("postgres: missing DB_HOST")
	}
	if c.Connection.DbName == "" {
		return fmt.Errorf("postgres: missing DB_NAME")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
