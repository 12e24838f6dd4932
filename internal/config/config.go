package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	AutoMigrate bool
	GinMode     string
	LogLevel    string

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	ParamsCacheTTL time.Duration

	// DefaultCountryCode seeds regional parameters for tenants that have none yet.
	DefaultCountryCode    string
	Locale                string
	DisplayCurrencySymbol string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "pharma"),
		DBPassword:  getEnv("DB_PASSWORD", "pharma_secret"),
		DBName:      getEnv("DB_NAME", "pharma"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		AutoMigrate: getEnv("AUTO_MIGRATE", "false") == "true",
		GinMode:     getEnv("GIN_MODE", "debug"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		JWTSecret: getEnv("JWT_SECRET", "change-me-in-production"),
		JWTIssuer: getEnv("JWT_ISSUER", "pharmacy-payments"),
		JWTTTL:    getDuration("JWT_TTL", 12*time.Hour),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getInt("REDIS_DB", 0),
		ParamsCacheTTL: getDuration("PARAMS_CACHE_TTL", 10*time.Minute),

		DefaultCountryCode:    getEnv("DEFAULT_COUNTRY_CODE", "CG"),
		Locale:                getEnv("LOCALE", "fr"),
		DisplayCurrencySymbol: getEnv("DISPLAY_CURRENCY_SYMBOL", ""),
	}
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return d
}
