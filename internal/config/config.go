// Package config assembles runtime configuration from the environment.
// cmd/main.go loads .env via godotenv before calling Load, so plain
// os.Getenv is enough here.
package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	// DefaultMaxMessageLength bounds the trimmed text of a sendMessage.
	DefaultMaxMessageLength = 2000
)

// Config holds everything the server reads from the environment.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// PostgresDSN is the GORM postgres connection string.
	PostgresDSN string

	RedisAddr     string
	RedisPassword string

	// JWTSecret signs and verifies bearer tokens.
	JWTSecret string

	// MaxMessageLength is the maximum trimmed message text length.
	MaxMessageLength int

	// AllowGuests lets connections with a missing or invalid token in
	// as anonymous guests. Default off: the handshake is rejected.
	AllowGuests bool
	// BannedPublicRead controls whether a user banned from a public
	// room keeps read access to it. Writes are always denied.
	BannedPublicRead bool
}

// Load reads the environment and fills in defaults.
func Load() Config {
	return Config{
		Addr:             getenv("CHAT_ADDR", ":8080"),
		PostgresDSN:      postgresDSN(),
		RedisAddr:        getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		JWTSecret:        getenv("JWT_SECRET", "dev-secret-change-me"),
		MaxMessageLength: getenvInt("CHAT_MAX_MESSAGE_LENGTH", DefaultMaxMessageLength),
		AllowGuests:      getenvBool("CHAT_ALLOW_GUESTS", false),
		BannedPublicRead: getenvBool("CHAT_BANNED_PUBLIC_READ", true),
	}
}

func postgresDSN() string {
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		getenv("DB_HOST", "localhost"),
		getenv("DB_USER", "user"),
		getenv("DB_PASSWORD", "password"),
		getenv("DB_NAME", "supperchat"),
		getenv("DB_PORT", "5432"),
	)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
