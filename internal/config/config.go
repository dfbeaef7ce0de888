package config

import (
	"errors"  // For the missing secret error
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For session lifetime

	"github.com/joho/godotenv" // For loading .env files
)

// Supported database drivers
const (
	DriverSQLite = "sqlite" // Local file database (default)
	DriverMySQL  = "mysql"  // MySQL server
)

// ErrMissingSecret is returned when SECRET_KEY is not set
var ErrMissingSecret = errors.New("SECRET_KEY environment variable is not set")

// Config holds the application configuration
type Config struct {
	AppPort     string        // Application port
	SecretKey   string        // Key used to sign session cookies
	DBDriver    string        // Database driver: sqlite or mysql
	DBPath      string        // SQLite database file path
	DBUser      string        // Database user (mysql)
	DBPassword  string        // Database password (mysql)
	DBHost      string        // Database host (mysql)
	DBPort      string        // Database port (mysql)
	DBName      string        // Database name (mysql)
	RedisAddr   string        // Redis server address, empty disables the cache
	RedisPass   string        // Redis password
	RedisDB     int           // Redis database number
	IsProd      bool          // Is production environment
	SessionTTL  time.Duration // Lifetime of a login session
	AutoMigrate bool          // Run schema migration on startup
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	cfg := &Config{
		AppPort:     getEnv("APP_PORT", "5000"),           // Application port
		SecretKey:   os.Getenv("SECRET_KEY"),              // Session signing key
		DBDriver:    getEnv("DB_DRIVER", DriverSQLite),    // Database driver
		DBPath:      getEnv("DB_PATH", "cafes.db"),        // SQLite file
		DBUser:      os.Getenv("DB_USER"),                 // Database user
		DBPassword:  os.Getenv("DB_PASSWORD"),             // Database password
		DBHost:      getEnv("DB_HOST", "127.0.0.1"),       // Database host
		DBPort:      getEnv("DB_PORT", "3306"),            // Database port
		DBName:      os.Getenv("DB_NAME"),                 // Database name
		RedisAddr:   os.Getenv("REDIS_ADDR"),              // Redis server address
		RedisPass:   os.Getenv("REDIS_PASS"),              // Redis password
		RedisDB:     redisDB,                              // Redis database number
		IsProd:      os.Getenv("IS_PROD") == "true",       // Is production environment
		SessionTTL:  7 * 24 * time.Hour,                   // Default session lifetime
		AutoMigrate: os.Getenv("AUTO_MIGRATE") != "false", // Migrate unless disabled
	}
	// Override session lifetime if a valid duration is given
	if ttl, err := time.ParseDuration(os.Getenv("SESSION_TTL")); err == nil && ttl > 0 {
		cfg.SessionTTL = ttl
	}
	if cfg.SecretKey == "" {
		return nil, ErrMissingSecret
	}
	return cfg, nil
}

// DSN returns the data source name for the configured driver
func (c *Config) DSN() string {
	if c.DBDriver == DriverMySQL {
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
	}
	return c.DBPath
}

// getEnv returns the value of key, or def when unset or empty
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
