package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Simulation Hosting
	TickRate             int
	MaxSessions          int
	SessionExpiryMinutes int
	SnapshotTTLSeconds   int
	LeaderboardSize      int
	DefaultMode          string

	// Security
	JWTSecret         string
	SessionTimeoutMin int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/ringrush?sslmode=disable"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Simulation Hosting
		TickRate:             getEnvInt("TICK_RATE", 60),
		MaxSessions:          getEnvInt("MAX_SESSIONS", 500),
		SessionExpiryMinutes: getEnvInt("SESSION_EXPIRY_MINUTES", 10),
		SnapshotTTLSeconds:   getEnvInt("SNAPSHOT_TTL_SECONDS", 3600),
		LeaderboardSize:      getEnvInt("LEADERBOARD_SIZE", 25),
		DefaultMode:          getEnv("DEFAULT_MODE", "classic"),

		// Security
		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		SessionTimeoutMin: getEnvInt("SESSION_TIMEOUT_MINUTES", 30),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
