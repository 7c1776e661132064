// Package config loads runtime configuration from the environment (and an optional .env file).
package config

import (
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings shared by the inventory services and the web client.
type Config struct {
	ServiceName     string
	Port            string
	ShutdownTimeout time.Duration

	Database DatabaseConfig

	OTelEnabled  bool
	OTelEndpoint string

	ProductsAPIURL     string
	TransactionsAPIURL string
	ClientTimezone     *time.Location
}

// DatabaseConfig describes how to reach the inventory database.
type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	MaxConns        int32
	MinConns        int32
	ConnectAttempts int
}

// DSN returns DATABASE_URL when set, otherwise a postgres URL built from the discrete settings.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Load reads the environment. serviceName and defaultPort are the per-binary defaults for
// SERVICE_NAME and PORT.
func Load(serviceName, defaultPort string) Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️ Could not load .env file: %v", err)
	}

	return Config{
		ServiceName:     getEnv("SERVICE_NAME", serviceName),
		Port:            getEnv("PORT", defaultPort),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			Host:            getEnv("DATABASE_HOST", "localhost"),
			Port:            getEnv("DATABASE_PORT", "5432"),
			User:            getEnv("DATABASE_USER", "root"),
			Password:        getEnv("DATABASE_PASSWORD", "pass"),
			Name:            getEnv("DATABASE_NAME", "inventory_db"),
			MaxConns:        int32(getEnvInt("DATABASE_MAX_CONNS", 10)),
			MinConns:        int32(getEnvInt("DATABASE_MIN_CONNS", 2)),
			ConnectAttempts: getEnvInt("DATABASE_CONNECT_ATTEMPTS", 30),
		},
		OTelEnabled:        getEnvBool("OTEL_ENABLED", true),
		OTelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		ProductsAPIURL:     getEnv("PRODUCTS_API_URL", "http://localhost:8080"),
		TransactionsAPIURL: getEnv("TRANSACTIONS_API_URL", "http://localhost:8081"),
		ClientTimezone:     getEnvLocation("CLIENT_TIMEZONE", time.Local),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("⚠️ Invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("⚠️ Invalid %s=%q, using %t", key, value, defaultValue)
		return defaultValue
	}
	return b
}

// getEnvDuration accepts Go durations ("15s") or a plain number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if sec, err := strconv.Atoi(value); err == nil {
		return time.Duration(sec) * time.Second
	}
	log.Printf("⚠️ Invalid %s=%q, using %s", key, value, defaultValue)
	return defaultValue
}

func getEnvLocation(key string, defaultValue *time.Location) *time.Location {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	loc, err := time.LoadLocation(value)
	if err != nil {
		log.Printf("⚠️ Invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return loc
}
