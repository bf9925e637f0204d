// internal/config/config.go
package config

import (
    "fmt"
    "os"
    "strconv"
)

// Config holds all configuration for the application. Mail transport
// credentials and the sender address live here and are injected where
// needed; nothing reads them from ambient process state later on.
type Config struct {
    Port        string
    LogLevel    string
    DatabaseURL string
    RedisURL    string
    AMQPURL     string

    JWTSecret      string
    JWTExpiryHours int

    SMTPHost     string
    SMTPPort     int
    SMTPUser     string
    SMTPPassword string
    FromAddress  string

    // BaseURL is used to build verification / reset links in emails.
    BaseURL string

    // LeaseTTLSeconds bounds how long a dispatch lease on one mailing
    // may be held before it expires on its own.
    LeaseTTLSeconds int
}

// Load reads configuration from environment variables. Call godotenv.Load
// in main first so a local .env file is picked up.
func Load() (*Config, error) {
    cfg := &Config{
        Port:        getEnv("PORT", "8080"),
        LogLevel:    getEnv("LOG_LEVEL", "info"),
        DatabaseURL: getEnv("DATABASE_URL", ""),
        RedisURL:    getEnv("REDIS_URL", ""),
        // Empty AMQP_URL means no broker; cmd/server then runs dispatch
        // jobs in process.
        AMQPURL: getEnv("AMQP_URL", ""),

        JWTSecret:      getEnv("JWT_SECRET", ""),
        JWTExpiryHours: getEnvInt("JWT_EXPIRY_HOURS", 24),

        SMTPHost:     getEnv("SMTP_HOST", "localhost"),
        SMTPPort:     getEnvInt("SMTP_PORT", 587),
        SMTPUser:     getEnv("SMTP_USER", ""),
        SMTPPassword: getEnv("SMTP_PASSWORD", ""),
        FromAddress:  getEnv("FROM_ADDRESS", ""),

        BaseURL:         getEnv("BASE_URL", "http://localhost:8080"),
        LeaseTTLSeconds: getEnvInt("DISPATCH_LEASE_TTL_SECONDS", 300),
    }

    if cfg.DatabaseURL == "" {
        return nil, fmt.Errorf("DATABASE_URL is required")
    }
    if cfg.JWTSecret == "" {
        return nil, fmt.Errorf("JWT_SECRET is required")
    }
    if cfg.FromAddress == "" {
        return nil, fmt.Errorf("FROM_ADDRESS is required")
    }

    return cfg, nil
}

func getEnv(key, fallback string) string {
    if val := os.Getenv(key); val != "" {
        return val
    }
    return fallback
}

func getEnvInt(key string, fallback int) int {
    if val := os.Getenv(key); val != "" {
        n, err := strconv.Atoi(val)
        if err == nil {
            return n
        }
    }
    return fallback
}
