package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort    string // Application port
	DBUser     string // Database user
	DBPassword string // Database password
	DBHost     string // Database host
	DBPort     string // Database port
	DBName     string // Database name
	JWTSecret  string // JWT secret key
	RedisAddr  string // Redis server address
	RedisPass  string // Redis password
	RedisDB    int    // Redis database number
	IsProd     bool   // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:    getEnv("APP_PORT", "8080"),          // Application port
		DBUser:     getEnv("DB_USER", "taxease"),        // Database user
		DBPassword: os.Getenv("DB_PASSWORD"),            // Database password
		DBHost:     getEnv("DB_HOST", "127.0.0.1"),      // Database host
		DBPort:     getEnv("DB_PORT", "3306"),           // Database port
		DBName:     getEnv("DB_NAME", "taxease"),        // Database name
		JWTSecret:  os.Getenv("JWT_SECRET"),             // JWT secret key
		RedisAddr:  getEnv("REDIS_ADDR", "127.0.0.1:6379"), // Redis server address
		RedisPass:  os.Getenv("REDIS_PASS"),             // Redis password
		RedisDB:    redisDB,                             // Redis database number
		IsProd:     os.Getenv("IS_PROD") == "true",      // Is production environment
	}
}

// getEnv reads an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
