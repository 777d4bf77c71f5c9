// Package config loads application configuration from environment
// variables. main seeds the environment from a .env file first.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/table-reservation/internal/database"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	StorageMySQL  = "mysql"
	StorageMemory = "memory"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
	Env            string           // APP_ENV (dev, test, prod)
	Port           string           // APP_PORT
	StorageDriver  string           // STORAGE_DRIVER, mysql (default) or memory
	DB             database.Options // DB_USER, DB_PASS, DB_HOST, DB_PORT, DB_NAME
	JWTSecret      string           // JWT_SECRET, signs ID tokens
	UserPoolID     string           // USER_POOL_ID, issuer of ID tokens
	ClientID       string           // USER_POOL_CLIENT_ID, audience of ID tokens
	AccessTTLMin   int              // ACCESS_TOKEN_TTL_MIN
	BcryptCost     int              // BCRYPT_COST
	AuthRequired   bool             // AUTH_REQUIRED, guards /tables and /reservations
	LogLevel       string           // LOG_LEVEL
	LogFormat      string           // LOG_FORMAT, text or json
	RequestTimeout time.Duration    // REQUEST_TIMEOUT, 0 disables
	AMQPURL        string           // RABBITMQ_URL or AMQP_URL, empty disables events
	AuditLogDir    string           // AUDIT_LOG_DIR
}

// AccessTTL is the lifetime of issued ID tokens.
func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLMin) * time.Minute
}

// Load reads the configuration. Every missing or malformed variable is
// reported in the returned error.
func Load() (Config, error) {
	var errs []error
	must := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			errs = append(errs, fmt.Errorf("missing required env var: %s", key))
		}
		return v
	}
	optInt := func(key string, def int) int {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid int for %s: %q", key, v))
			return def
		}
		return n
	}

	cfg := Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		StorageDriver:  strings.ToLower(envStr("STORAGE_DRIVER", StorageMySQL)),
		JWTSecret:      must("JWT_SECRET"),
		UserPoolID:     must("USER_POOL_ID"),
		ClientID:       must("USER_POOL_CLIENT_ID"),
		AccessTTLMin:   optInt("ACCESS_TOKEN_TTL_MIN", 60),
		BcryptCost:     optInt("BCRYPT_COST", 10),
		AuthRequired:   envBool("AUTH_REQUIRED", true),
		LogLevel:       envStr("LOG_LEVEL", "info"),
		LogFormat:      envStr("LOG_FORMAT", "text"),
		RequestTimeout: envDur("REQUEST_TIMEOUT", 0),
		AMQPURL:        envStr("RABBITMQ_URL", os.Getenv("AMQP_URL")),
		AuditLogDir:    envStr("AUDIT_LOG_DIR", "logs"),
	}

	switch cfg.StorageDriver {
	case StorageMySQL:
		cfg.DB = database.Options{
			User: must("DB_USER"),
			Pass: os.Getenv("DB_PASS"), // empty allowed
			Host: must("DB_HOST"),
			Port: must("DB_PORT"),
			Name: must("DB_NAME"),
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("unsupported STORAGE_DRIVER: %q", cfg.StorageDriver))
	}
	if cfg.AccessTTLMin <= 0 {
		errs = append(errs, fmt.Errorf("ACCESS_TOKEN_TTL_MIN must be positive"))
	}

	return cfg, errors.Join(errs...)
}
