package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP         string  // Host IP for the server
	RESTPort       int     // Port for the REST API
	DBHost         string  // Hostname or IP address for the database
	DBPort         int     // Port number for the database
	DBUser         string  // Username for the database
	DBPassword     string  // Password for the database
	DBName         string  // Name of the database
	RedisAddr      string  // Address of the redis server backing the route cache
	RedisPassword  string  // Password for the redis server
	RouteCacheTTL  int     // Lifetime of cached routes in seconds
	GinMode        string  // Mode for the Gin framework (e.g., release, debug, test)
	JWTSecret      string  // Secret key for JWT signing
	JWTIssuer      string  // Issuer claim for JWTs
	TokenTTLMin    int     // Lifetime of session tokens in minutes
	TickIntervalMS int     // Simulation tick interval in milliseconds
	AgentSpeed     float64 // Agent speed in cells per second
	LayoutDir      string  // Directory of YAML grid layouts seeded on startup
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	// Populate the Config struct with required environment variables
	return Config{
		HostIP:         mustGetEnv("HOST_IP"),
		RESTPort:       mustGetEnvAsInt("REST_PORT"),
		DBHost:         mustGetEnv("DB_HOST"),
		DBPort:         mustGetEnvAsInt("DB_PORT"),
		DBUser:         mustGetEnv("DB_USER"),
		DBPassword:     mustGetEnv("DB_PASS"),
		DBName:         mustGetEnv("DB_NAME"),
		RedisAddr:      mustGetEnv("REDIS_ADDR"),
		RedisPassword:  getEnvWithDefault("REDIS_PASS", ""),
		RouteCacheTTL:  getEnvAsIntWithDefault("ROUTE_CACHE_TTL", 300),
		GinMode:        getEnvWithDefault("GIN_MODE", "release"),
		JWTSecret:      mustGetEnv("JWT_SECRET"),
		JWTIssuer:      mustGetEnv("JWT_ISSUER"),
		TokenTTLMin:    getEnvAsIntWithDefault("TOKEN_TTL_MIN", 720),
		TickIntervalMS: getEnvAsIntWithDefault("TICK_INTERVAL_MS", 16),
		AgentSpeed:     getEnvAsFloatWithDefault("AGENT_SPEED", 2),
		LayoutDir:      getEnvWithDefault("LAYOUT_DIR", ""),
	}
}

// mustGetEnv retrieves the value of an environment variable or logs a fatal error if not set.
func mustGetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("[APP] [FATAL] Environment variable %s is not set", key)
	}
	return value
}

// mustGetEnvAsInt retrieves the value of an environment variable as an integer or logs a fatal error if not set or cannot be parsed.
func mustGetEnvAsInt(key string) int {
	valueStr := mustGetEnv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntWithDefault parses an integer environment variable, falling back to defaultValue when unset.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

// getEnvAsFloatWithDefault parses a float environment variable, falling back to defaultValue when unset.
func getEnvAsFloatWithDefault(key string, defaultValue float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be a number: %v", key, err)
	}
	return value
}
